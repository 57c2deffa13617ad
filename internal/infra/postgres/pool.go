// Package postgres предоставляет подключение к PostgreSQL через pgxpool.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// PoolMaxConns - максимальное кол-во соединений в pool.
	PoolMaxConns = int32(10)
	// PoolMinConns - минимальное кол-во поддерживаемых соединений в pool.
	PoolMinConns = int32(2)
	// PoolMaxConnLifetime - максимальное время жизни соединения в pool.
	PoolMaxConnLifetime = 30 * time.Minute
	// PoolMaxConnIdleTime - максимальное время простоя соединения.
	PoolMaxConnIdleTime = 5 * time.Minute
	// PoolHealthCheckPeriod - периодичность проверки соединения.
	PoolHealthCheckPeriod = 1 * time.Minute
)

// DSN собирает строку подключения из параметров.
func DSN(port int, host, user, password, dbName, sslmode string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s", user, password, host, port, dbName, sslmode)
}

// NewPool создаёт новый pool соединений к PostgreSQL.
func NewPool(ctx context.Context, port int, host, user, password, dbName, sslmode string) (*pgxpool.Pool, error) {
	return NewPoolFromDSN(ctx, DSN(port, host, user, password, dbName, sslmode))
}

// NewPoolFromDSN создаёт pool по готовой строке подключения.
func NewPoolFromDSN(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}

	cfg.MaxConns = PoolMaxConns
	cfg.MinConns = PoolMinConns
	cfg.MaxConnLifetime = PoolMaxConnLifetime
	cfg.MaxConnIdleTime = PoolMaxConnIdleTime
	cfg.HealthCheckPeriod = PoolHealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating pool failed: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pool ping failed: %w", err)
	}

	return pool, nil
}
