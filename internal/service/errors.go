package service

import (
	"errors"
	"log/slog"

	"github.com/tokarboss/manager-ya/internal/apperrors"
	"github.com/tokarboss/manager-ya/internal/storage"
)

// appError переводит ошибку хранилища в *apperrors.AppError.
// Неизвестные ошибки логируются и скрываются за INTERNAL_ISSUE.
func appError(logger *slog.Logger, op string, err error) *apperrors.AppError {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.New(apperrors.ErrNotFound)
	case errors.Is(err, storage.ErrApplicationClosed):
		return apperrors.New(apperrors.ErrApplicationClosed)
	case errors.Is(err, storage.ErrNotAssigned):
		return apperrors.New(apperrors.ErrNotAssigned)
	case errors.Is(err, storage.ErrManagerOffShift):
		return apperrors.New(apperrors.ErrManagerOffShift)
	default:
		logger.Error(op+" failed", slog.String("error", err.Error()))
		return apperrors.New(apperrors.ErrInternalIssue)
	}
}
