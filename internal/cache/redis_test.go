package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type page struct {
	IDs []string `json:"ids"`
}

func newTestCache(t *testing.T) (*RedisFeedCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisFeedCacheFromClient(client, time.Minute), mr
}

func TestRedisFeedCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	var got page
	ok, err := c.Get(ctx, "posts:first", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "posts:first", page{IDs: []string{"a", "b"}}))
	ok, err = c.Get(ctx, "posts:first", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got.IDs)
}

func TestRedisFeedCacheInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "posts:first", page{IDs: []string{"a"}}))
	require.NoError(t, c.Invalidate(ctx))

	var got page
	ok, err := c.Get(ctx, "posts:first", &got)
	require.NoError(t, err)
	assert.False(t, ok, "pages written before invalidation must not be served")
}

func TestRedisFeedCacheExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "posts:first", page{IDs: []string{"a"}}))
	mr.FastForward(2 * time.Minute)

	var got page
	ok, err := c.Get(ctx, "posts:first", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}
