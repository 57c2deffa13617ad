package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tokarboss/manager-ya/internal/metrics"
	"github.com/tokarboss/manager-ya/internal/service"
	"github.com/tokarboss/manager-ya/internal/storage"
	"github.com/tokarboss/manager-ya/internal/storage/memory"
)

type sentNotice struct {
	Source        service.AssignmentSource
	ManagerID     int64
	ApplicationID int64
}

type fakeNotifier struct {
	mu       sync.Mutex
	fail     error
	assigned []sentNotice
	accepted []int64
}

func (n *fakeNotifier) ManagerAssigned(_ context.Context, managerID int64, app storage.Application, source service.AssignmentSource) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.assigned = append(n.assigned, sentNotice{Source: source, ManagerID: managerID, ApplicationID: app.ID})
	return n.fail
}

func (n *fakeNotifier) CandidateAccepted(_ context.Context, app storage.Application) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.accepted = append(n.accepted, app.CandidateID)
	return n.fail
}

type countingRecorder struct {
	metrics.Nop
	mu            sync.Mutex
	made          map[string]int
	skipped       map[string]int
	notifyFailed  int
	released      int
	sweepsSkipped int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{made: map[string]int{}, skipped: map[string]int{}}
}

func (r *countingRecorder) AssignmentMade(source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.made[source]++
}

func (r *countingRecorder) AssignmentSkipped(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped[reason]++
}

func (r *countingRecorder) NotificationFailed(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifyFailed++
}

func (r *countingRecorder) ShiftReleased(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released += n
}

func (r *countingRecorder) SweepSkipped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepsSkipped++
}

type brokenSettings struct{}

func (brokenSettings) AutoDistribution(context.Context) (bool, error) {
	return false, errors.New("settings store is down")
}

func (brokenSettings) SetAutoDistribution(context.Context, bool) error {
	return errors.New("settings store is down")
}

func (brokenSettings) ToggleAutoDistribution(context.Context) (bool, error) {
	return false, errors.New("settings store is down")
}

type env struct {
	store        *memory.Store
	notifier     *fakeNotifier
	metrics      *countingRecorder
	distributor  *service.Distributor
	managers     *service.ManagerService
	applications *service.ApplicationService
	settings     *service.SettingsService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEnv(t *testing.T, autoDistribute bool) *env {
	t.Helper()
	return newEnvWithSettings(t, autoDistribute, nil)
}

func newEnvWithSettings(t *testing.T, autoDistribute bool, settings storage.SettingsRepository) *env {
	t.Helper()

	store := memory.NewStore()
	if settings == nil {
		settings = store.Settings()
		require.NoError(t, settings.SetAutoDistribution(context.Background(), autoDistribute))
	}

	e := &env{store: store, notifier: &fakeNotifier{}, metrics: newCountingRecorder()}
	logger := discardLogger()
	apps := store.Applications()

	e.distributor = service.NewDistributor(apps, apps, settings, e.notifier, e.metrics, logger)
	e.managers = service.NewManagerService(store.Managers(), e.metrics, logger)
	e.applications = service.NewApplicationService(apps, e.distributor, logger)
	e.settings = service.NewSettingsService(settings, logger)
	return e
}

func (e *env) onShift(t *testing.T, ids ...int64) {
	t.Helper()
	ctx := context.Background()
	for _, id := range ids {
		_, appErr := e.managers.Upsert(ctx, id, "manager", "")
		require.Nil(t, appErr)
		_, appErr = e.managers.SetShift(ctx, id, storage.ShiftOn)
		require.Nil(t, appErr)
	}
}

func (e *env) submit(t *testing.T, candidate int64, name string) service.SubmitResult {
	t.Helper()
	res, appErr := e.applications.Submit(context.Background(), storage.NewApplication{
		CandidateID:   candidate,
		CandidateName: name,
		Info:          "Moscow | RF | car",
	})
	require.Nil(t, appErr)
	return res
}
