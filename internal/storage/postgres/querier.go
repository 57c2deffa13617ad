// Package postgres реализует репозитории storage поверх PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tokarboss/manager-ya/internal/storage"
)

// assignLockKey - ключ advisory-блокировки, сериализующей назначения и снятие со смены.
const assignLockKey int64 = 0x6c656164

// querier - общее подмножество *pgxpool.Pool и pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const applicationColumns = `id, candidate_id, candidate_name, candidate_username, info, phone, status, manager_id, created_at`

func scanApplication(row pgx.Row) (storage.Application, error) {
	var a storage.Application
	err := row.Scan(&a.ID, &a.CandidateID, &a.CandidateName, &a.CandidateUsername, &a.Info, &a.Phone, &a.Status, &a.ManagerID, &a.CreatedAt)
	return a, err
}

const managerColumns = `tg_id, name, username, shift, updated_at`

func scanManager(row pgx.Row) (storage.Manager, error) {
	var m storage.Manager
	err := row.Scan(&m.ID, &m.Name, &m.Username, &m.Shift, &m.UpdatedAt)
	return m, err
}

// withTx выполняет fn в транзакции под блокировкой назначений.
func withTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx failed: %w", err)
	}

	defer func() {
		if rerr := tx.Rollback(ctx); rerr != nil && !errors.Is(rerr, pgx.ErrTxClosed) {
			slog.Error("tx rollback failed", slog.String("error", rerr.Error()))
		}
	}()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, assignLockKey); err != nil {
		return fmt.Errorf("acquire assignment lock failed: %w", err)
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}

// queryLoads считает заявки в работе для каждого менеджера на смене.
func queryLoads(ctx context.Context, q querier) ([]storage.ManagerLoad, error) {
	const query = `
		SELECT m.tg_id, m.name, m.username, COUNT(a.id)
		FROM managers m
		LEFT JOIN applications a ON a.manager_id = m.tg_id AND a.status = 'IN_PROGRESS'
		WHERE m.shift = 'ON_SHIFT'
		GROUP BY m.tg_id, m.name, m.username
		ORDER BY COUNT(a.id), m.tg_id
	`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query loads failed: %w", err)
	}
	defer rows.Close()

	var loads []storage.ManagerLoad
	for rows.Next() {
		var l storage.ManagerLoad
		if err := rows.Scan(&l.ManagerID, &l.Name, &l.Username, &l.Count); err != nil {
			return nil, fmt.Errorf("scan load failed: %w", err)
		}
		loads = append(loads, l)
	}

	return loads, rows.Err()
}

// releaseInProgress возвращает в очередь все заявки менеджера, находящиеся в работе.
func releaseInProgress(ctx context.Context, q querier, managerID int64) ([]int64, error) {
	const query = `
		UPDATE applications SET manager_id = NULL, status = 'NEW'
		WHERE manager_id = $1 AND status = 'IN_PROGRESS'
		RETURNING id
	`
	rows, err := q.Query(ctx, query, managerID)
	if err != nil {
		return nil, fmt.Errorf("release applications failed: %w", err)
	}

	released, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("collect released failed: %w", err)
	}
	return released, nil
}
