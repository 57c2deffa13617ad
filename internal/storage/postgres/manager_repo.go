package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tokarboss/manager-ya/internal/storage"
)

// ManagerRepository - репозиторий для управления менеджерами в Postgres.
type ManagerRepository struct {
	pool *pgxpool.Pool
}

// NewManagerRepository создаёт экземпляр *ManagerRepository.
func NewManagerRepository(pool *pgxpool.Pool) *ManagerRepository {
	return &ManagerRepository{pool: pool}
}

// Upsert создаёт менеджера или перезаписывает имя и ник, сбрасывая смену.
func (r *ManagerRepository) Upsert(ctx context.Context, m storage.Manager) (storage.ShiftChange, error) {
	const query = `
		INSERT INTO managers (tg_id, name, username, shift)
			VALUES ($1, $2, $3, 'OFF_SHIFT')
			ON CONFLICT (tg_id) DO UPDATE SET
			name = EXCLUDED.name,
			username = EXCLUDED.username,
			shift = 'OFF_SHIFT',
			updated_at = NOW()
		RETURNING ` + managerColumns

	var change storage.ShiftChange
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		saved, err := scanManager(tx.QueryRow(ctx, query, m.ID, m.Name, m.Username))
		if err != nil {
			return fmt.Errorf("upsert manager failed: %w", err)
		}

		released, err := releaseInProgress(ctx, tx, saved.ID)
		if err != nil {
			return err
		}

		change = storage.ShiftChange{Manager: saved, Released: released}
		return nil
	})

	return change, err
}

// Get возвращает менеджера по telegram id.
func (r *ManagerRepository) Get(ctx context.Context, id int64) (storage.Manager, error) {
	query := `SELECT ` + managerColumns + ` FROM managers WHERE tg_id = $1`

	m, err := scanManager(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return m, storage.ErrNotFound
		}
		return m, fmt.Errorf("query manager failed: %w", err)
	}
	return m, nil
}

// List возвращает всех менеджеров.
func (r *ManagerRepository) List(ctx context.Context) ([]storage.Manager, error) {
	query := `SELECT ` + managerColumns + ` FROM managers ORDER BY tg_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query managers failed: %w", err)
	}
	defer rows.Close()

	var managers []storage.Manager
	for rows.Next() {
		m, err := scanManager(rows)
		if err != nil {
			return nil, fmt.Errorf("scan manager failed: %w", err)
		}
		managers = append(managers, m)
	}

	return managers, rows.Err()
}

// Delete удаляет менеджера. Заявки остаются со ссылкой на удалённого менеджера.
func (r *ManagerRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM managers WHERE tg_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete manager failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SetShift меняет статус смены. Уход со смены освобождает заявки в той же транзакции.
func (r *ManagerRepository) SetShift(ctx context.Context, id int64, shift storage.ShiftStatus) (storage.ShiftChange, error) {
	const query = `
		UPDATE managers
		SET shift = $2, updated_at = NOW()
		WHERE tg_id = $1
		RETURNING ` + managerColumns

	var change storage.ShiftChange
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		m, err := scanManager(tx.QueryRow(ctx, query, id, shift))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("set shift failed: %w", err)
		}
		change.Manager = m

		if shift != storage.ShiftOff {
			return nil
		}

		change.Released, err = releaseInProgress(ctx, tx, id)
		return err
	})

	return change, err
}

// Loads возвращает нагрузку менеджеров на смене.
func (r *ManagerRepository) Loads(ctx context.Context) ([]storage.ManagerLoad, error) {
	return queryLoads(ctx, r.pool)
}
