package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tokarboss/manager-ya/internal/apperrors"
	"github.com/tokarboss/manager-ya/internal/storage"
)

// SubmitResult - сохранённая заявка и менеджер, если назначение состоялось сразу.
type SubmitResult struct {
	Manager     *storage.ManagerLoad
	Application storage.Application
}

// ApplicationService управляет заявками кандидатов.
type ApplicationService struct {
	repo        storage.ApplicationRepository
	distributor *Distributor
	logger      *slog.Logger
}

// NewApplicationService создаёт новый ApplicationService.
func NewApplicationService(repo storage.ApplicationRepository, distributor *Distributor, logger *slog.Logger) *ApplicationService {
	return &ApplicationService{repo: repo, distributor: distributor, logger: logger}
}

// ParseOutcome разбирает решение по заявке: accepted или rejected без учёта регистра.
func ParseOutcome(raw string) (storage.ApplicationStatus, *apperrors.AppError) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "accepted":
		return storage.StatusAccepted, nil
	case "rejected":
		return storage.StatusRejected, nil
	default:
		return "", apperrors.New(apperrors.ErrInvalidOutcome)
	}
}

// Submit сохраняет анкету и при включённом автораспределении сразу назначает её.
// Если назначить некому, заявка остаётся новой и ждёт прохода.
func (s *ApplicationService) Submit(ctx context.Context, in storage.NewApplication) (SubmitResult, *apperrors.AppError) {
	in.CandidateName = strings.TrimSpace(in.CandidateName)
	in.CandidateUsername = NormalizeUsername(in.CandidateUsername)
	if in.CandidateID <= 0 {
		return SubmitResult{}, apperrors.Newf(apperrors.ErrInvalidRequest, "candidate id must be positive")
	}
	if in.CandidateName == "" {
		return SubmitResult{}, apperrors.Newf(apperrors.ErrInvalidRequest, "candidate name is required")
	}

	app, err := s.repo.Create(ctx, in)
	if err != nil {
		return SubmitResult{}, appError(s.logger, "create application", err)
	}
	s.logger.Info("application submitted",
		slog.Int64("application_id", app.ID),
		slog.Int64("candidate_id", app.CandidateID),
	)

	res := SubmitResult{Application: app}
	if a, ok := s.distributor.OnCreated(ctx, app.ID); ok {
		res.Application = a.Application
		res.Manager = &a.Manager
	}
	return res, nil
}

// AssignManually назначает заявку выбранному менеджеру. Менеджер должен быть на смене.
func (s *ApplicationService) AssignManually(ctx context.Context, id, managerID int64) (storage.Application, *apperrors.AppError) {
	app, err := s.repo.AssignManually(ctx, id, managerID)
	if err != nil {
		return storage.Application{}, appError(s.logger, "manual assign", err)
	}

	s.distributor.metrics.AssignmentMade(string(SourceManual))
	s.logger.Info("application assigned",
		slog.Int64("application_id", id),
		slog.Int64("manager_id", managerID),
		slog.String("source", string(SourceManual)),
	)
	s.distributor.notifyManager(ctx, managerID, app, SourceManual)

	return app, nil
}

// SetOutcome записывает решение по заявке в работе. Принятого кандидата уведомляют.
func (s *ApplicationService) SetOutcome(ctx context.Context, id int64, status storage.ApplicationStatus) (storage.Application, *apperrors.AppError) {
	if !status.IsTerminal() {
		return storage.Application{}, apperrors.New(apperrors.ErrInvalidOutcome)
	}

	app, err := s.repo.SetOutcome(ctx, id, status)
	if err != nil {
		return storage.Application{}, appError(s.logger, "set outcome", err)
	}
	s.logger.Info("application closed", slog.Int64("application_id", id), slog.String("status", string(status)))

	if status == storage.StatusAccepted {
		s.distributor.notifyCandidate(ctx, app)
	}
	return app, nil
}

// Delete удаляет заявку.
func (s *ApplicationService) Delete(ctx context.Context, id int64) *apperrors.AppError {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appError(s.logger, "delete application", err)
	}
	s.logger.Info("application deleted", slog.Int64("application_id", id))
	return nil
}

// Get возвращает заявку по id.
func (s *ApplicationService) Get(ctx context.Context, id int64) (storage.Application, *apperrors.AppError) {
	app, err := s.repo.Get(ctx, id)
	if err != nil {
		return app, appError(s.logger, "get application", err)
	}
	return app, nil
}

// ListRecent возвращает последние limit заявок.
func (s *ApplicationService) ListRecent(ctx context.Context, limit int) ([]storage.ApplicationView, *apperrors.AppError) {
	if limit <= 0 {
		return nil, apperrors.Newf(apperrors.ErrInvalidRequest, "limit must be positive")
	}
	views, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, appError(s.logger, "list applications", err)
	}
	return views, nil
}

// Stats возвращает сводные счётчики.
func (s *ApplicationService) Stats(ctx context.Context) (storage.Stats, *apperrors.AppError) {
	st, err := s.repo.Stats(ctx)
	if err != nil {
		return st, appError(s.logger, "stats", err)
	}
	return st, nil
}

// ActiveFor возвращает последнюю заявку в работе у менеджера.
func (s *ApplicationService) ActiveFor(ctx context.Context, managerID int64) (storage.Application, *apperrors.AppError) {
	app, err := s.repo.ActiveFor(ctx, managerID)
	if err != nil {
		return app, appError(s.logger, "active application", err)
	}
	return app, nil
}
