// Package settings содержит альтернативные хранилища флага автораспределения.
package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey - ключ флага, если префикс не задан.
const DefaultRedisKey = "lead_assigner:auto_distribute"

const toggleScript = `
local current = redis.call("GET", KEYS[1])
if current == "1" then
  redis.call("SET", KEYS[1], "0")
  return 0
end
redis.call("SET", KEYS[1], "1")
return 1
`

// RedisStore хранит флаг в одном ключе Redis: "1" или "0".
type RedisStore struct {
	client *redis.Client
	key    string
	script *redis.Script
}

// NewRedisStore создаёт хранилище. Пустой key заменяется на DefaultRedisKey.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{
		client: client,
		key:    key,
		script: redis.NewScript(toggleScript),
	}
}

// EnsureDefaults создаёт ключ со значением false, если его ещё нет.
func (s *RedisStore) EnsureDefaults(ctx context.Context) error {
	if err := s.client.SetNX(ctx, s.key, "0", 0).Err(); err != nil {
		return fmt.Errorf("redis setnx failed: %w", err)
	}
	return nil
}

// AutoDistribution читает флаг. Отсутствующий ключ означает false.
func (s *RedisStore) AutoDistribution(ctx context.Context) (bool, error) {
	v, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get failed: %w", err)
	}
	return v == "1", nil
}

// SetAutoDistribution записывает флаг.
func (s *RedisStore) SetAutoDistribution(ctx context.Context, enabled bool) error {
	v := "0"
	if enabled {
		v = "1"
	}
	if err := s.client.Set(ctx, s.key, v, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// ToggleAutoDistribution инвертирует флаг скриптом, атомарно для всех реплик.
func (s *RedisStore) ToggleAutoDistribution(ctx context.Context) (bool, error) {
	v, err := s.script.Run(ctx, s.client, []string{s.key}).Int64()
	if err != nil {
		return false, fmt.Errorf("redis toggle failed: %w", err)
	}
	return v == 1, nil
}
