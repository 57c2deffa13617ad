package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tokarboss/manager-ya/internal/metrics"
	"github.com/tokarboss/manager-ya/internal/storage"
)

// Причины пропуска назначения для метрик.
const (
	skipDisabled        = "disabled"
	skipNoManager       = "no_manager"
	skipAlreadyAssigned = "already_assigned"
)

// Виды уведомлений для метрик.
const (
	notifyManagerAssigned   = "manager_assigned"
	notifyCandidateAccepted = "candidate_accepted"
)

// SweepResult - итог одного прохода по очереди.
type SweepResult struct {
	Candidates int
	Assigned   int
	Failed     int
	Disabled   bool
}

// Distributor назначает новые заявки наименее загруженным менеджерам.
type Distributor struct {
	assigner storage.Assigner
	apps     storage.ApplicationRepository
	settings storage.SettingsRepository
	notifier Notifier
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewDistributor создаёт Distributor.
func NewDistributor(
	assigner storage.Assigner,
	apps storage.ApplicationRepository,
	settings storage.SettingsRepository,
	notifier Notifier,
	rec metrics.Recorder,
	logger *slog.Logger,
) *Distributor {
	return &Distributor{
		assigner: assigner,
		apps:     apps,
		settings: settings,
		notifier: notifier,
		metrics:  rec,
		logger:   logger,
	}
}

// Enabled читает флаг автораспределения. Ошибка чтения считается выключенным флагом.
func (d *Distributor) Enabled(ctx context.Context) bool {
	on, err := d.settings.AutoDistribution(ctx)
	if err != nil {
		d.logger.Error("read auto-distribution flag failed", slog.String("error", err.Error()))
		return false
	}
	return on
}

// TryAssign назначает заявку, если на смене кто-то есть. Флаг не проверяется.
// Заявка, которую уже забрали, не считается ошибкой.
func (d *Distributor) TryAssign(ctx context.Context, id int64, source AssignmentSource) (storage.Assignment, bool, error) {
	a, ok, err := d.assigner.AssignLeastLoaded(ctx, id, SelectManager)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyAssigned) {
			d.metrics.AssignmentSkipped(skipAlreadyAssigned)
			return storage.Assignment{}, false, nil
		}
		return storage.Assignment{}, false, err
	}
	if !ok {
		d.metrics.AssignmentSkipped(skipNoManager)
		return storage.Assignment{}, false, nil
	}

	d.metrics.AssignmentMade(string(source))
	d.logger.Info("application assigned",
		slog.Int64("application_id", id),
		slog.Int64("manager_id", a.Manager.ManagerID),
		slog.Int("manager_load", a.Manager.Count),
		slog.String("source", string(source)),
	)
	d.notifyManager(ctx, a.Manager.ManagerID, a.Application, source)

	return a, true, nil
}

// OnCreated пытается назначить только что поданную заявку при включённом флаге.
func (d *Distributor) OnCreated(ctx context.Context, id int64) (storage.Assignment, bool) {
	if !d.Enabled(ctx) {
		d.metrics.AssignmentSkipped(skipDisabled)
		return storage.Assignment{}, false
	}

	a, ok, err := d.TryAssign(ctx, id, SourceAuto)
	if err != nil {
		d.logger.Error("assign on submit failed",
			slog.Int64("application_id", id),
			slog.String("error", err.Error()),
		)
		return storage.Assignment{}, false
	}
	return a, ok
}

// Sweep проходит по неназначенным заявкам от старых к новым.
// Ошибка по одной заявке не прерывает проход.
func (d *Distributor) Sweep(ctx context.Context) SweepResult {
	var res SweepResult
	if !d.Enabled(ctx) {
		res.Disabled = true
		return res
	}

	started := time.Now()
	defer func() {
		d.metrics.SweepCompleted(time.Since(started), res.Assigned, res.Failed)
	}()

	pending, err := d.apps.ListUnassigned(ctx)
	if err != nil {
		d.logger.Error("list unassigned failed", slog.String("error", err.Error()))
		res.Failed++
		return res
	}
	res.Candidates = len(pending)

	for _, app := range pending {
		if ctx.Err() != nil {
			break
		}

		_, ok, err := d.TryAssign(ctx, app.ID, SourceSweep)
		if err != nil {
			res.Failed++
			d.logger.Error("sweep assign failed",
				slog.Int64("application_id", app.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		if ok {
			res.Assigned++
		}
	}

	if res.Candidates > 0 {
		d.logger.Info("sweep finished",
			slog.Int("candidates", res.Candidates),
			slog.Int("assigned", res.Assigned),
			slog.Int("failed", res.Failed),
		)
	}
	return res
}

func (d *Distributor) notifyManager(ctx context.Context, managerID int64, app storage.Application, source AssignmentSource) {
	if err := d.notifier.ManagerAssigned(ctx, managerID, app, source); err != nil {
		d.metrics.NotificationFailed(notifyManagerAssigned)
		d.logger.Warn("notify manager failed",
			slog.Int64("application_id", app.ID),
			slog.Int64("manager_id", managerID),
			slog.String("error", err.Error()),
		)
	}
}

func (d *Distributor) notifyCandidate(ctx context.Context, app storage.Application) {
	if err := d.notifier.CandidateAccepted(ctx, app); err != nil {
		d.metrics.NotificationFailed(notifyCandidateAccepted)
		d.logger.Warn("notify candidate failed",
			slog.Int64("application_id", app.ID),
			slog.Int64("candidate_id", app.CandidateID),
			slog.String("error", err.Error()),
		)
	}
}
