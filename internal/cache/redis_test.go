package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires Redis on localhost:6379; skipped otherwise.
const testRedisAddr = "localhost:6379"

func setupRedis(t *testing.T) *Redis {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}

	c := NewRedisFromClient(client, "stridelog-test:", time.Minute)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRedis_RoundTrip(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()
	defer c.Delete(ctx, "goal:g-1:progress")

	require.NoError(t, c.Set(ctx, "goal:g-1:progress", 42.0))

	var got float64
	found, err := c.Get(ctx, "goal:g-1:progress", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 42.0, got)

	require.NoError(t, c.Delete(ctx, "goal:g-1:progress"))
	found, err = c.Get(ctx, "goal:g-1:progress", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedis_Incr(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()
	require.NoError(t, c.Delete(ctx, "goal:g-1:gen"))
	defer c.Delete(ctx, "goal:g-1:gen")

	n, err := c.Incr(ctx, "goal:g-1:gen")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var got int64
	found, err := c.Get(ctx, "goal:g-1:gen", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(1), got)
	assert.NoError(t, c.Ping(ctx))
}
