package settings_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokarboss/manager-ya/internal/settings"
)

func TestFileStoreDefaults(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	store := settings.NewFileStore(path)

	on, err := store.AutoDistribution(ctx)
	require.NoError(t, err)
	assert.False(t, on, "missing file reads as disabled")

	require.NoError(t, store.EnsureDefaults(ctx))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "auto_distribute: false")

	require.NoError(t, store.SetAutoDistribution(ctx, true))
	require.NoError(t, store.EnsureDefaults(ctx))
	on, err = store.AutoDistribution(ctx)
	require.NoError(t, err)
	assert.True(t, on, "defaults never overwrite an existing file")
}

func TestFileStoreToggle(t *testing.T) {
	ctx := context.Background()
	store := settings.NewFileStore(filepath.Join(t.TempDir(), "settings.yaml"))

	on, err := store.ToggleAutoDistribution(ctx)
	require.NoError(t, err)
	assert.True(t, on)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.ToggleAutoDistribution(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	on, err = store.AutoDistribution(ctx)
	require.NoError(t, err)
	assert.True(t, on, "even number of toggles keeps the value")
}

func TestFileStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auto_distribute: ["), 0o600))

	_, err := settings.NewFileStore(path).AutoDistribution(context.Background())
	assert.Error(t, err)
}
