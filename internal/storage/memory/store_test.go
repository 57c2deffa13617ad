package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokarboss/manager-ya/internal/storage"
	"github.com/tokarboss/manager-ya/internal/storage/memory"
)

func pickFirst(loads []storage.ManagerLoad) (storage.ManagerLoad, bool) {
	if len(loads) == 0 {
		return storage.ManagerLoad{}, false
	}
	return loads[0], true
}

func onShift(t *testing.T, store *memory.Store, ids ...int64) {
	t.Helper()
	ctx := context.Background()
	for _, id := range ids {
		_, err := store.Managers().Upsert(ctx, storage.Manager{ID: id, Name: "m"})
		require.NoError(t, err)
		_, err = store.Managers().SetShift(ctx, id, storage.ShiftOn)
		require.NoError(t, err)
	}
}

func TestLoadsOrderedByCountThenID(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	onShift(t, store, 20, 10)

	apps := store.Applications()
	a, err := apps.Create(ctx, storage.NewApplication{CandidateID: 1, CandidateName: "A"})
	require.NoError(t, err)
	_, err = apps.AssignManually(ctx, a.ID, 10)
	require.NoError(t, err)

	loads, err := store.Managers().Loads(ctx)
	require.NoError(t, err)
	require.Len(t, loads, 2)
	assert.Equal(t, int64(20), loads[0].ManagerID)
	assert.Equal(t, 0, loads[0].Count)
	assert.Equal(t, int64(10), loads[1].ManagerID)
	assert.Equal(t, 1, loads[1].Count)
}

func TestAssignLeastLoaded(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	apps := store.Applications()

	a, err := apps.Create(ctx, storage.NewApplication{CandidateID: 1, CandidateName: "A"})
	require.NoError(t, err)

	_, ok, err := apps.AssignLeastLoaded(ctx, a.ID, pickFirst)
	require.NoError(t, err)
	assert.False(t, ok, "nobody on shift")

	onShift(t, store, 7)
	got, ok, err := apps.AssignLeastLoaded(ctx, a.ID, pickFirst)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, storage.StatusInProgress, got.Application.Status)
	require.NotNil(t, got.Application.ManagerID)
	assert.Equal(t, int64(7), *got.Application.ManagerID)

	_, _, err = apps.AssignLeastLoaded(ctx, a.ID, pickFirst)
	assert.ErrorIs(t, err, storage.ErrAlreadyAssigned)

	_, _, err = apps.AssignLeastLoaded(ctx, 999, pickFirst)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestShiftOffReleasesInProgress(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	onShift(t, store, 1)
	apps := store.Applications()

	var ids []int64
	for i := 0; i < 3; i++ {
		a, err := apps.Create(ctx, storage.NewApplication{CandidateID: int64(i)})
		require.NoError(t, err)
		_, ok, err := apps.AssignLeastLoaded(ctx, a.ID, pickFirst)
		require.NoError(t, err)
		require.True(t, ok)
		ids = append(ids, a.ID)
	}
	_, err := apps.SetOutcome(ctx, ids[2], storage.StatusAccepted)
	require.NoError(t, err)

	change, err := store.Managers().SetShift(ctx, 1, storage.ShiftOff)
	require.NoError(t, err)
	assert.Equal(t, ids[:2], change.Released)

	unassigned, err := apps.ListUnassigned(ctx)
	require.NoError(t, err)
	require.Len(t, unassigned, 2)
	assert.Equal(t, ids[0], unassigned[0].ID)

	closed, err := apps.Get(ctx, ids[2])
	require.NoError(t, err)
	assert.Equal(t, storage.StatusAccepted, closed.Status)
	require.NotNil(t, closed.ManagerID)
}

func TestUpsertResetsShift(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	onShift(t, store, 5)

	change, err := store.Managers().Upsert(ctx, storage.Manager{ID: 5, Name: "renamed", Username: "nick"})
	require.NoError(t, err)
	assert.Equal(t, storage.ShiftOff, change.Manager.Shift)

	m, err := store.Managers().Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "renamed", m.Name)
	assert.Equal(t, storage.ShiftOff, m.Shift)

	list, err := store.Managers().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestTerminalStatusIsFinal(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	onShift(t, store, 1)
	apps := store.Applications()

	a, err := apps.Create(ctx, storage.NewApplication{CandidateID: 1})
	require.NoError(t, err)
	_, err = apps.SetOutcome(ctx, a.ID, storage.StatusRejected)
	assert.ErrorIs(t, err, storage.ErrNotAssigned)
	_, err = apps.AssignManually(ctx, a.ID, 1)
	require.NoError(t, err)
	_, err = apps.SetOutcome(ctx, a.ID, storage.StatusRejected)
	require.NoError(t, err)

	_, err = apps.SetOutcome(ctx, a.ID, storage.StatusAccepted)
	assert.ErrorIs(t, err, storage.ErrApplicationClosed)
	_, err = apps.AssignManually(ctx, a.ID, 1)
	assert.ErrorIs(t, err, storage.ErrApplicationClosed)

	_, err = apps.AssignManually(ctx, a.ID, 404)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	st, err := apps.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, storage.Stats{Total: 1, Rejected: 1}, st)
}

func TestAssignManuallyRequiresShift(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	_, err := store.Managers().Upsert(ctx, storage.Manager{ID: 3, Name: "m"})
	require.NoError(t, err)
	apps := store.Applications()

	a, err := apps.Create(ctx, storage.NewApplication{CandidateID: 1})
	require.NoError(t, err)
	_, err = apps.AssignManually(ctx, a.ID, 3)
	assert.ErrorIs(t, err, storage.ErrManagerOffShift)

	got, err := apps.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.StatusNew, got.Status)
	assert.Nil(t, got.ManagerID)

	_, err = store.Managers().SetShift(ctx, 3, storage.ShiftOn)
	require.NoError(t, err)
	got, err = apps.AssignManually(ctx, a.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, storage.StatusInProgress, got.Status)
}

func TestDeletedManagerLeavesReference(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	onShift(t, store, 3)
	apps := store.Applications()

	a, err := apps.Create(ctx, storage.NewApplication{CandidateID: 1})
	require.NoError(t, err)
	_, ok, err := apps.AssignLeastLoaded(ctx, a.ID, pickFirst)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.Managers().Delete(ctx, 3))
	assert.ErrorIs(t, store.Managers().Delete(ctx, 3), storage.ErrNotFound)

	views, err := apps.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Empty(t, views[0].ManagerName)
	require.NotNil(t, views[0].ManagerID)

	loads, err := store.Managers().Loads(ctx)
	require.NoError(t, err)
	assert.Empty(t, loads)
}

func TestSettingsToggle(t *testing.T) {
	ctx := context.Background()
	settings := memory.NewStore().Settings()

	on, err := settings.AutoDistribution(ctx)
	require.NoError(t, err)
	assert.False(t, on)

	on, err = settings.ToggleAutoDistribution(ctx)
	require.NoError(t, err)
	assert.True(t, on)

	require.NoError(t, settings.SetAutoDistribution(ctx, false))
	on, err = settings.AutoDistribution(ctx)
	require.NoError(t, err)
	assert.False(t, on)
}
