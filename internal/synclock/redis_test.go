package synclock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLocker(client, time.Minute)
	l.wait = time.Millisecond
	return l, mr
}

func TestRedisLockerAcquireAndRelease(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestRedisLocker(t)

	lease, err := l.Acquire(ctx, "products")
	require.NoError(t, err)
	assert.True(t, mr.Exists(keyPrefix+"products"))
	assert.Equal(t, time.Minute, mr.TTL(keyPrefix+"products"))

	require.NoError(t, lease.Release(ctx))
	assert.False(t, mr.Exists(keyPrefix+"products"))

	again, err := l.Acquire(ctx, "products")
	require.NoError(t, err)
	assert.NoError(t, again.Release(ctx))
}

func TestRedisLockerContendedAcquire(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestRedisLocker(t)

	lease, err := l.Acquire(ctx, "orders")
	require.NoError(t, err)
	defer lease.Release(ctx)

	_, err = l.Acquire(ctx, "orders")
	assert.ErrorIs(t, err, ErrLocked)

	other, err := l.Acquire(ctx, "categories")
	require.NoError(t, err)
	assert.NoError(t, other.Release(ctx))
}

func TestRedisLeaseDoesNotReleaseAnotherHoldersLock(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestRedisLocker(t)
	key := keyPrefix + "products"

	lease, err := l.Acquire(ctx, "products")
	require.NoError(t, err)

	// The lease expired and another instance took the lock.
	mr.FastForward(2 * time.Minute)
	require.False(t, mr.Exists(key))
	require.NoError(t, mr.Set(key, "someone-else"))

	require.NoError(t, lease.Release(ctx))

	got, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}
