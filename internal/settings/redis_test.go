package settings_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	redisinfra "github.com/tokarboss/manager-ya/internal/infra/redis"
	"github.com/tokarboss/manager-ya/internal/settings"
)

func TestRedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping container tests in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client, err := redisinfra.NewClient(ctx, fmt.Sprintf("redis://%s:%s/0", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := settings.NewRedisStore(client, "test:auto_distribute")

	on, err := store.AutoDistribution(ctx)
	require.NoError(t, err)
	assert.False(t, on, "missing key reads as disabled")

	require.NoError(t, store.EnsureDefaults(ctx))
	require.NoError(t, store.SetAutoDistribution(ctx, true))
	require.NoError(t, store.EnsureDefaults(ctx))
	on, err = store.AutoDistribution(ctx)
	require.NoError(t, err)
	assert.True(t, on, "defaults never overwrite an existing key")

	on, err = store.ToggleAutoDistribution(ctx)
	require.NoError(t, err)
	assert.False(t, on)

	var wg sync.WaitGroup
	for i := 0; i < 9; i++ {
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
	assert.True(t, on, "odd number of toggles flips the flag")
}

func TestRedisClientRejectsBadURL(t *testing.T) {
	_, err := redisinfra.NewClient(context.Background(), "not a url")
	assert.Error(t, err)
}
