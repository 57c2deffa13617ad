package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tokarboss/manager-ya/internal/storage"
)

// ApplicationRepository - репозиторий для управления заявками в Postgres.
type ApplicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository создаёт экземпляр *ApplicationRepository.
func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

// Create сохраняет новую заявку без менеджера.
func (r *ApplicationRepository) Create(ctx context.Context, app storage.NewApplication) (storage.Application, error) {
	const query = `
		INSERT INTO applications (candidate_id, candidate_name, candidate_username, info, phone, status, created_at)
		VALUES ($1, $2, $3, $4, $5, 'NEW', NOW())
		RETURNING ` + applicationColumns

	created, err := scanApplication(r.pool.QueryRow(ctx, query,
		app.CandidateID, app.CandidateName, app.CandidateUsername, app.Info, app.Phone))
	if err != nil {
		return created, fmt.Errorf("insert application failed: %w", err)
	}
	return created, nil
}

// Get возвращает заявку по id.
func (r *ApplicationRepository) Get(ctx context.Context, id int64) (storage.Application, error) {
	return getApplication(ctx, r.pool, id)
}

func getApplication(ctx context.Context, q querier, id int64) (storage.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`

	app, err := scanApplication(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return app, storage.ErrNotFound
		}
		return app, fmt.Errorf("query application failed: %w", err)
	}
	return app, nil
}

// ListRecent возвращает последние limit заявок с именами менеджеров.
func (r *ApplicationRepository) ListRecent(ctx context.Context, limit int) ([]storage.ApplicationView, error) {
	const query = `
		SELECT a.id, a.candidate_id, a.candidate_name, a.candidate_username, a.info, a.phone,
		       a.status, a.manager_id, a.created_at, COALESCE(m.name, '')
		FROM applications a
		LEFT JOIN managers m ON m.tg_id = a.manager_id
		ORDER BY a.id DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query applications failed: %w", err)
	}
	defer rows.Close()

	var views []storage.ApplicationView
	for rows.Next() {
		var v storage.ApplicationView
		a := &v.Application
		if err := rows.Scan(&a.ID, &a.CandidateID, &a.CandidateName, &a.CandidateUsername, &a.Info, &a.Phone,
			&a.Status, &a.ManagerID, &a.CreatedAt, &v.ManagerName); err != nil {
			return nil, fmt.Errorf("scan application failed: %w", err)
		}
		views = append(views, v)
	}

	return views, rows.Err()
}

// ListUnassigned возвращает новые заявки без менеджера в порядке возрастания id.
func (r *ApplicationRepository) ListUnassigned(ctx context.Context) ([]storage.Application, error) {
	query := `SELECT ` + applicationColumns + `
		FROM applications
		WHERE status = 'NEW' AND manager_id IS NULL
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query unassigned failed: %w", err)
	}
	defer rows.Close()

	var apps []storage.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application failed: %w", err)
		}
		apps = append(apps, app)
	}

	return apps, rows.Err()
}

// AssignLeastLoaded под блокировкой назначений оценивает нагрузку, вызывает pick и пишет результат.
// false без ошибки означает, что на смене никого нет.
func (r *ApplicationRepository) AssignLeastLoaded(ctx context.Context, id int64, pick storage.Picker) (storage.Assignment, bool, error) {
	const assignQuery = `
		UPDATE applications SET manager_id = $2, status = 'IN_PROGRESS'
		WHERE id = $1 AND status = 'NEW' AND manager_id IS NULL
		RETURNING ` + applicationColumns

	var (
		result   storage.Assignment
		assigned bool
	)
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		app, err := getApplication(ctx, tx, id)
		if err != nil {
			return err
		}
		if app.Status != storage.StatusNew || app.ManagerID != nil {
			return storage.ErrAlreadyAssigned
		}

		loads, err := queryLoads(ctx, tx)
		if err != nil {
			return err
		}

		choice, ok := pick(loads)
		if !ok {
			return nil
		}

		updated, err := scanApplication(tx.QueryRow(ctx, assignQuery, id, choice.ManagerID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return storage.ErrAlreadyAssigned
			}
			return fmt.Errorf("assign application failed: %w", err)
		}

		result = storage.Assignment{Application: updated, Manager: choice}
		assigned = true
		return nil
	})
	if err != nil {
		return storage.Assignment{}, false, err
	}

	return result, assigned, nil
}

// AssignManually назначает заявку менеджеру на смене в обход выбора по нагрузке.
// Смена читается под той же блокировкой, что и SetShift.
func (r *ApplicationRepository) AssignManually(ctx context.Context, id, managerID int64) (storage.Application, error) {
	const shiftQuery = `SELECT shift FROM managers WHERE tg_id = $1`
	const assignQuery = `
		UPDATE applications SET manager_id = $2, status = 'IN_PROGRESS'
		WHERE id = $1 AND status NOT IN ('ACCEPTED', 'REJECTED')
		RETURNING ` + applicationColumns

	var app storage.Application
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var shift storage.ShiftStatus
		if err := tx.QueryRow(ctx, shiftQuery, managerID).Scan(&shift); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("query manager failed: %w", err)
		}
		if shift != storage.ShiftOn {
			return storage.ErrManagerOffShift
		}

		var err error
		app, err = scanApplication(tx.QueryRow(ctx, assignQuery, id, managerID))
		if errors.Is(err, pgx.ErrNoRows) {
			return closedOrMissing(ctx, tx, id)
		}
		if err != nil {
			return fmt.Errorf("assign application failed: %w", err)
		}
		return nil
	})

	return app, err
}

// SetOutcome записывает терминальный статус заявке в работе. Повторная запись запрещена.
func (r *ApplicationRepository) SetOutcome(ctx context.Context, id int64, status storage.ApplicationStatus) (storage.Application, error) {
	const query = `
		UPDATE applications SET status = $2
		WHERE id = $1 AND status = 'IN_PROGRESS'
		RETURNING ` + applicationColumns

	app, err := scanApplication(r.pool.QueryRow(ctx, query, id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return app, outcomeRefused(ctx, r.pool, id)
	}
	if err != nil {
		return app, fmt.Errorf("set outcome failed: %w", err)
	}
	return app, nil
}

// closedOrMissing различает отсутствующую и закрытую заявку после пустого UPDATE.
func closedOrMissing(ctx context.Context, q querier, id int64) error {
	if _, err := getApplication(ctx, q, id); err != nil {
		return err
	}
	return storage.ErrApplicationClosed
}

// outcomeRefused объясняет, почему UPDATE решения не затронул строк.
func outcomeRefused(ctx context.Context, q querier, id int64) error {
	app, err := getApplication(ctx, q, id)
	if err != nil {
		return err
	}
	if app.Status == storage.StatusNew {
		return storage.ErrNotAssigned
	}
	return storage.ErrApplicationClosed
}

// Delete удаляет заявку.
func (r *ApplicationRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete application failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ActiveFor возвращает последнюю заявку в работе у менеджера.
func (r *ApplicationRepository) ActiveFor(ctx context.Context, managerID int64) (storage.Application, error) {
	query := `SELECT ` + applicationColumns + `
		FROM applications
		WHERE manager_id = $1 AND status = 'IN_PROGRESS'
		ORDER BY id DESC
		LIMIT 1`

	app, err := scanApplication(r.pool.QueryRow(ctx, query, managerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return app, storage.ErrNotFound
		}
		return app, fmt.Errorf("query active application failed: %w", err)
	}
	return app, nil
}

// Stats возвращает общее число заявок, принятых и отклонённых.
func (r *ApplicationRepository) Stats(ctx context.Context) (storage.Stats, error) {
	const query = `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'ACCEPTED'),
		       COUNT(*) FILTER (WHERE status = 'REJECTED')
		FROM applications
	`
	var s storage.Stats
	if err := r.pool.QueryRow(ctx, query).Scan(&s.Total, &s.Accepted, &s.Rejected); err != nil {
		return s, fmt.Errorf("query stats failed: %w", err)
	}
	return s, nil
}
