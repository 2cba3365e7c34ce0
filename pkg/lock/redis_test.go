package lock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("redis not reachable at %s: %v", addr, err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisLocker_AcquireRelease(t *testing.T) {
	client := newTestClient(t)
	locker := NewRedisLocker(client)
	ctx := context.Background()
	key := "test-" + uuid.NewString()

	release, err := locker.Acquire(ctx, key, 5*time.Second)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, key, 5*time.Second)
	assert.ErrorIs(t, err, ErrNotAcquired)

	require.NoError(t, release(ctx))

	release, err = locker.Acquire(ctx, key, 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, release(ctx))
}

func TestRedisLocker_StaleReleaseKeepsNewHolder(t *testing.T) {
	client := newTestClient(t)
	locker := NewRedisLocker(client)
	ctx := context.Background()
	key := "test-" + uuid.NewString()

	stale, err := locker.Acquire(ctx, key, 50*time.Millisecond)
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)

	current, err := locker.Acquire(ctx, key, 5*time.Second)
	require.NoError(t, err)

	require.NoError(t, stale(ctx))
	_, err = locker.Acquire(ctx, key, 5*time.Second)
	assert.ErrorIs(t, err, ErrNotAcquired)

	require.NoError(t, current(ctx))
}
