package dao

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSessionStore(t *testing.T) {
	s := miniredis.RunT(t)
	store, err := NewRedisSessionStore("redis://"+s.Addr(), "")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", 60))
	assert.True(t, s.Exists(DefaultSessionPrefix+"jti-1"))

	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	s.FastForward(61 * time.Second)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisSessionStoreBadURL(t *testing.T) {
	_, err := NewRedisSessionStore("not a url", "x:")
	assert.Error(t, err)
}

func TestMemorySessionStore(t *testing.T) {
	now := time.Unix(1000, 0)
	store := NewMemorySessionStore()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "a", 10))
	require.NoError(t, store.Revoke(ctx, "b", 100))
	require.NoError(t, store.Revoke(ctx, "c", 0))

	revoked, _ := store.IsRevoked(ctx, "a")
	assert.True(t, revoked)
	revoked, _ = store.IsRevoked(ctx, "c")
	assert.False(t, revoked)

	now = now.Add(50 * time.Second)
	revoked, _ = store.IsRevoked(ctx, "a")
	assert.False(t, revoked)
	assert.Equal(t, 0, store.Sweep())

	now = now.Add(100 * time.Second)
	assert.Equal(t, 1, store.Sweep())
}
