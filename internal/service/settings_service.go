package service

import (
	"context"
	"log/slog"

	"github.com/tokarboss/manager-ya/internal/apperrors"
	"github.com/tokarboss/manager-ya/internal/storage"
)

// SettingsService читает, задаёт и переключает флаг автораспределения.
type SettingsService struct {
	repo   storage.SettingsRepository
	logger *slog.Logger
}

// NewSettingsService создаёт новый SettingsService.
func NewSettingsService(repo storage.SettingsRepository, logger *slog.Logger) *SettingsService {
	return &SettingsService{repo: repo, logger: logger}
}

// AutoDistribution возвращает текущее значение флага.
func (s *SettingsService) AutoDistribution(ctx context.Context) (bool, *apperrors.AppError) {
	on, err := s.repo.AutoDistribution(ctx)
	if err != nil {
		return false, appError(s.logger, "read auto-distribution", err)
	}
	return on, nil
}

// Set записывает флаг явно.
func (s *SettingsService) Set(ctx context.Context, enabled bool) (bool, *apperrors.AppError) {
	if err := s.repo.SetAutoDistribution(ctx, enabled); err != nil {
		return false, appError(s.logger, "set auto-distribution", err)
	}
	s.logger.Info("auto-distribution set", slog.Bool("enabled", enabled))
	return enabled, nil
}

// Toggle инвертирует флаг и возвращает новое значение.
func (s *SettingsService) Toggle(ctx context.Context) (bool, *apperrors.AppError) {
	on, err := s.repo.ToggleAutoDistribution(ctx)
	if err != nil {
		return false, appError(s.logger, "toggle auto-distribution", err)
	}
	s.logger.Info("auto-distribution toggled", slog.Bool("enabled", on))
	return on, nil
}
