package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokarboss/manager-ya/internal/service"
	"github.com/tokarboss/manager-ya/internal/storage"
)

func TestSweepAssignsOldestFirstAndBalances(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)

	a := e.submit(t, 1, "A")
	b := e.submit(t, 2, "B")
	c := e.submit(t, 3, "C")
	assert.Nil(t, a.Manager, "auto-distribution is off")

	e.onShift(t, 1, 2)
	_, appErr := e.settings.Toggle(ctx)
	require.Nil(t, appErr)

	res := e.distributor.Sweep(ctx)
	assert.Equal(t, service.SweepResult{Candidates: 3, Assigned: 3}, res)

	want := map[int64]int64{a.Application.ID: 1, b.Application.ID: 2, c.Application.ID: 1}
	for appID, managerID := range want {
		app, appErr := e.applications.Get(ctx, appID)
		require.Nil(t, appErr)
		require.NotNil(t, app.ManagerID)
		assert.Equal(t, managerID, *app.ManagerID, "application %d", appID)
		assert.Equal(t, storage.StatusInProgress, app.Status)
	}
	assert.Equal(t, 3, e.metrics.made["sweep"])
	assert.Len(t, e.notifier.assigned, 3)
}

// failingAssigner ломает назначение одной заявки.
type failingAssigner struct {
	storage.Assigner
	failID int64
}

func (a failingAssigner) AssignLeastLoaded(ctx context.Context, id int64, pick storage.Picker) (storage.Assignment, bool, error) {
	if id == a.failID {
		return storage.Assignment{}, false, errors.New("connection reset")
	}
	return a.Assigner.AssignLeastLoaded(ctx, id, pick)
}

func TestSweepContinuesAfterFailedApplication(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)
	a := e.submit(t, 1, "A")
	b := e.submit(t, 2, "B")
	c := e.submit(t, 3, "C")
	e.onShift(t, 1)

	apps := e.store.Applications()
	distributor := service.NewDistributor(
		failingAssigner{Assigner: apps, failID: a.Application.ID},
		apps, e.store.Settings(), e.notifier, e.metrics, discardLogger(),
	)

	res := distributor.Sweep(ctx)
	assert.Equal(t, service.SweepResult{Candidates: 3, Assigned: 2, Failed: 1}, res)

	for _, id := range []int64{b.Application.ID, c.Application.ID} {
		app, appErr := e.applications.Get(ctx, id)
		require.Nil(t, appErr)
		assert.Equal(t, storage.StatusInProgress, app.Status, "application %d", id)
		require.NotNil(t, app.ManagerID)
		assert.Equal(t, int64(1), *app.ManagerID)
	}

	failed, appErr := e.applications.Get(ctx, a.Application.ID)
	require.Nil(t, appErr)
	assert.Equal(t, storage.StatusNew, failed.Status)
	assert.Nil(t, failed.ManagerID)
}

func TestSweepDisabled(t *testing.T) {
	e := newEnv(t, false)
	e.onShift(t, 1)
	e.submit(t, 1, "A")

	res := e.distributor.Sweep(context.Background())
	assert.True(t, res.Disabled)
	assert.Zero(t, res.Assigned)
}

func TestSweepWithEmptyPoolKeepsApplicationsNew(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)
	e.submit(t, 1, "A")
	e.submit(t, 2, "B")

	res := e.distributor.Sweep(ctx)
	assert.Equal(t, 2, res.Candidates)
	assert.Zero(t, res.Assigned)
	assert.Zero(t, res.Failed)

	pending, err := e.store.Applications().ListUnassigned(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestSettingsFailureFailsClosed(t *testing.T) {
	e := newEnvWithSettings(t, false, brokenSettings{})
	e.onShift(t, 1)

	res := e.submit(t, 1, "A")
	assert.Nil(t, res.Manager)
	assert.Equal(t, storage.StatusNew, res.Application.Status)
	assert.False(t, e.distributor.Enabled(context.Background()))
	assert.True(t, e.distributor.Sweep(context.Background()).Disabled)

	_, appErr := e.settings.AutoDistribution(context.Background())
	require.NotNil(t, appErr)
}

func TestTryAssignSkipsTakenApplication(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)
	e.onShift(t, 1)
	res := e.submit(t, 1, "A")
	require.NotNil(t, res.Manager)

	_, ok, err := e.distributor.TryAssign(ctx, res.Application.ID, service.SourceSweep)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, e.metrics.skipped["already_assigned"])
}

func TestNotificationFailureKeepsAssignment(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)
	e.notifier.fail = errors.New("telegram is down")
	e.onShift(t, 7)

	res := e.submit(t, 1, "A")
	require.NotNil(t, res.Manager)
	assert.Equal(t, int64(7), res.Manager.ManagerID)

	app, appErr := e.applications.Get(ctx, res.Application.ID)
	require.Nil(t, appErr)
	assert.Equal(t, storage.StatusInProgress, app.Status)
	assert.Equal(t, 1, e.metrics.notifyFailed)
}
