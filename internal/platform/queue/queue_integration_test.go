package queue_test

import (
	"context"
	"testing"
	"time"

	"hackathon_hub/internal/common"
	"hackathon_hub/internal/platform/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

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

	addr, err := container.PortEndpoint(ctx, "6379/tcp", "")
	require.NoError(t, err)
	return addr
}

func TestLocker(t *testing.T) {
	addr := setupRedis(t)
	ctx := context.Background()

	client, err := queue.ConnectRedis(ctx, queue.Options{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(queue.CloseRedis)

	locker := queue.NewLocker(client, "test:relay", time.Second)

	first, err := locker.Acquire(ctx)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx)
	assert.ErrorIs(t, err, common.ErrLockNotAcquired, "second holder must wait")

	require.NoError(t, first.Refresh(ctx))
	require.NoError(t, first.Release(ctx))

	second, err := locker.Acquire(ctx)
	require.NoError(t, err)

	assert.ErrorIs(t, first.Refresh(ctx), common.ErrLockNotAcquired, "a released lease cannot be refreshed")
	require.NoError(t, first.Release(ctx))
	_, err = locker.Acquire(ctx)
	assert.ErrorIs(t, err, common.ErrLockNotAcquired, "stale release must not free another holder's lease")

	require.NoError(t, second.Release(ctx))
}

func TestLockExpires(t *testing.T) {
	addr := setupRedis(t)
	ctx := context.Background()

	client, err := queue.ConnectRedis(ctx, queue.Options{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(queue.CloseRedis)

	_, err = queue.AcquireLock(ctx, client, "test:expiring", 100*time.Millisecond)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := queue.AcquireLock(ctx, client, "test:expiring", time.Second)
		return err == nil
	}, 2*time.Second, 50*time.Millisecond)
}
