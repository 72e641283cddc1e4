package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Revenue float64 `json:"revenue"`
	Count   int     `json:"count"`
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c := NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	var got snapshot
	found, err := c.Get(ctx, "dashboard", "stats:2024-05-01:all", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "dashboard", "stats:2024-05-01:all", snapshot{Revenue: 150, Count: 2}, time.Minute))

	found, err = c.Get(ctx, "dashboard", "stats:2024-05-01:all", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, snapshot{Revenue: 150, Count: 2}, got)
}

func TestRedisCache_Expires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "dashboard", "k", snapshot{Count: 1}, 30*time.Second))
	mr.FastForward(31 * time.Second)

	var got snapshot
	found, err := c.Get(ctx, "dashboard", "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_InvalidateNamespace(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "dashboard", "a", snapshot{Count: 1}, time.Minute))
	require.NoError(t, c.Set(ctx, "dashboard", "b", snapshot{Count: 2}, time.Minute))
	require.NoError(t, c.Set(ctx, "other", "a", snapshot{Count: 3}, time.Minute))

	require.NoError(t, c.Invalidate(ctx, "dashboard"))

	assert.False(t, mr.Exists("garage:dashboard:a"))
	assert.False(t, mr.Exists("garage:dashboard:b"))
	assert.False(t, mr.Exists("garage:ns:dashboard"))
	assert.True(t, mr.Exists("garage:other:a"))

	// invalidating an empty namespace is fine
	require.NoError(t, c.Invalidate(ctx, "dashboard"))
}

func TestRedisCache_ZeroTTLIsNotCached(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	for _, ttl := range []time.Duration{0, -time.Second} {
		require.NoError(t, c.Set(ctx, "dashboard", "stats", snapshot{Count: 1}, ttl))
		require.NoError(t, c.Invalidate(ctx, "dashboard"))

		var got snapshot
		found, err := c.Get(ctx, "dashboard", "stats", &got)
		require.NoError(t, err)
		assert.False(t, found, "ttl %s", ttl)
	}
	assert.False(t, mr.Exists("garage:dashboard:stats"))
	assert.False(t, mr.Exists("garage:ns:dashboard"))

	// a positive ttl alongside still indexes and invalidates
	require.NoError(t, c.Set(ctx, "dashboard", "stats", snapshot{Count: 2}, time.Minute))
	assert.Greater(t, mr.TTL("garage:ns:dashboard"), time.Duration(0))
	require.NoError(t, c.Invalidate(ctx, "dashboard"))
	assert.False(t, mr.Exists("garage:dashboard:stats"))
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	found, err := c.Get(context.Background(), "x", "y", &snapshot{})
	assert.NoError(t, err)
	assert.False(t, found)
}
