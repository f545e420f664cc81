package synclock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker(t *testing.T) {
	ctx := context.Background()
	l := NewLocalLocker()

	lease, err := l.Acquire(ctx, "products")
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "products")
	assert.ErrorIs(t, err, ErrLocked)

	other, err := l.Acquire(ctx, "orders")
	require.NoError(t, err)
	require.NoError(t, other.Release(ctx))

	require.NoError(t, lease.Release(ctx))
	require.NoError(t, lease.Release(ctx))

	again, err := l.Acquire(ctx, "products")
	require.NoError(t, err)
	assert.NoError(t, again.Release(ctx))
}
