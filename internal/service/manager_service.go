package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tokarboss/manager-ya/internal/apperrors"
	"github.com/tokarboss/manager-ya/internal/metrics"
	"github.com/tokarboss/manager-ya/internal/storage"
)

// ManagerService управляет менеджерами и их сменами.
type ManagerService struct {
	repo    storage.ManagerRepository
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewManagerService создаёт новый ManagerService.
func NewManagerService(repo storage.ManagerRepository, rec metrics.Recorder, logger *slog.Logger) *ManagerService {
	return &ManagerService{repo: repo, metrics: rec, logger: logger}
}

// NormalizeUsername убирает пробелы и ведущий @ из ника.
func NormalizeUsername(username string) string {
	return strings.TrimPrefix(strings.TrimSpace(username), "@")
}

// Upsert создаёт менеджера или обновляет имя и ник. Менеджер всегда оказывается вне смены.
func (s *ManagerService) Upsert(ctx context.Context, id int64, name, username string) (storage.Manager, *apperrors.AppError) {
	name = strings.TrimSpace(name)
	if id <= 0 {
		return storage.Manager{}, apperrors.Newf(apperrors.ErrInvalidRequest, "manager id must be positive")
	}
	if name == "" {
		return storage.Manager{}, apperrors.Newf(apperrors.ErrInvalidRequest, "manager name is required")
	}

	change, err := s.repo.Upsert(ctx, storage.Manager{ID: id, Name: name, Username: NormalizeUsername(username)})
	if err != nil {
		return storage.Manager{}, appError(s.logger, "upsert manager", err)
	}
	s.released(change)

	return change.Manager, nil
}

// Get возвращает менеджера по id.
func (s *ManagerService) Get(ctx context.Context, id int64) (storage.Manager, *apperrors.AppError) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return m, appError(s.logger, "get manager", err)
	}
	return m, nil
}

// List возвращает всех менеджеров.
func (s *ManagerService) List(ctx context.Context) ([]storage.Manager, *apperrors.AppError) {
	managers, err := s.repo.List(ctx)
	if err != nil {
		return nil, appError(s.logger, "list managers", err)
	}
	return managers, nil
}

// Delete удаляет менеджера. Его заявки не трогаются.
func (s *ManagerService) Delete(ctx context.Context, id int64) *apperrors.AppError {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appError(s.logger, "delete manager", err)
	}
	s.logger.Info("manager deleted", slog.Int64("manager_id", id))
	return nil
}

// SetShift ставит менеджера на смену или снимает с неё. Повторный вызов с тем же статусом безопасен.
func (s *ManagerService) SetShift(ctx context.Context, id int64, shift storage.ShiftStatus) (storage.ShiftChange, *apperrors.AppError) {
	if !shift.IsValid() {
		return storage.ShiftChange{}, apperrors.New(apperrors.ErrInvalidShift)
	}

	change, err := s.repo.SetShift(ctx, id, shift)
	if err != nil {
		return storage.ShiftChange{}, appError(s.logger, "set shift", err)
	}
	s.logger.Info("shift changed", slog.Int64("manager_id", id), slog.String("shift", string(shift)))
	s.released(change)

	return change, nil
}

// Loads возвращает нагрузку менеджеров на смене.
func (s *ManagerService) Loads(ctx context.Context) ([]storage.ManagerLoad, *apperrors.AppError) {
	loads, err := s.repo.Loads(ctx)
	if err != nil {
		return nil, appError(s.logger, "load estimate", err)
	}
	return loads, nil
}

func (s *ManagerService) released(change storage.ShiftChange) {
	if len(change.Released) == 0 {
		return
	}
	s.metrics.ShiftReleased(len(change.Released))
	s.logger.Info("applications released",
		slog.Int64("manager_id", change.Manager.ID),
		slog.Any("application_ids", change.Released),
	)
}
