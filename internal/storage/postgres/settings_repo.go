package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const autoDistributeFlag = "auto_distribute"

// SettingsRepository хранит флаги в таблице flags.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository создаёт экземпляр *SettingsRepository.
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// AutoDistribution читает флаг автораспределения. Отсутствующая строка означает false.
func (r *SettingsRepository) AutoDistribution(ctx context.Context) (bool, error) {
	var enabled bool
	err := r.pool.QueryRow(ctx, `SELECT enabled FROM flags WHERE name = $1`, autoDistributeFlag).Scan(&enabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query flag failed: %w", err)
	}
	return enabled, nil
}

// SetAutoDistribution записывает флаг автораспределения.
func (r *SettingsRepository) SetAutoDistribution(ctx context.Context, enabled bool) error {
	const query = `
		INSERT INTO flags (name, enabled) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET enabled = EXCLUDED.enabled, updated_at = NOW()
	`
	if _, err := r.pool.Exec(ctx, query, autoDistributeFlag, enabled); err != nil {
		return fmt.Errorf("update flag failed: %w", err)
	}
	return nil
}

// ToggleAutoDistribution инвертирует флаг одним запросом.
func (r *SettingsRepository) ToggleAutoDistribution(ctx context.Context) (bool, error) {
	const query = `
		INSERT INTO flags (name, enabled) VALUES ($1, TRUE)
		ON CONFLICT (name) DO UPDATE SET enabled = NOT flags.enabled, updated_at = NOW()
		RETURNING enabled
	`
	var enabled bool
	if err := r.pool.QueryRow(ctx, query, autoDistributeFlag).Scan(&enabled); err != nil {
		return false, fmt.Errorf("toggle flag failed: %w", err)
	}
	return enabled, nil
}
