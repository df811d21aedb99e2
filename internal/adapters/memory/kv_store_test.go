package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ticketdesk/admin-console/internal/ports"
)

func TestKVStore_SetGetDelete(t *testing.T) {
	store := NewKVStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", "1", 0))
	require.NoError(t, store.Set(ctx, "b", "2", time.Hour))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	require.NoError(t, store.Delete(ctx, "a", "b", "missing"))
	assert.Equal(t, 0, store.Len())

	_, err = store.Get(ctx, "b")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestKVStore_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewKVStoreWithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))

	now = now.Add(59 * time.Second)
	_, err := store.Get(ctx, "k")
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestKVStore_InvalidInput(t *testing.T) {
	store := NewKVStore()
	ctx := context.Background()

	assert.Error(t, store.Set(ctx, "", "v", 0))
	assert.Error(t, store.Set(ctx, "k", "v", -time.Second))
}
