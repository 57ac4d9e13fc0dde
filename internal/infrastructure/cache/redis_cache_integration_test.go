//go:build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c := NewRedisCache(startRedis(t), "test:")
	defer c.Close()

	t.Run("json round trip", func(t *testing.T) {
		require.NoError(t, c.SetJSON(ctx, "stats", cachedStats{Organisations: 2, Revenue: "99.90"}, time.Minute))

		var got cachedStats
		found, err := c.GetJSON(ctx, "stats", &got)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 2, got.Organisations)

		exists, err := c.Client().Exists(ctx, "test:stats").Result()
		require.NoError(t, err)
		assert.Equal(t, int64(1), exists)
	})

	t.Run("miss and delete", func(t *testing.T) {
		require.NoError(t, c.SetJSON(ctx, "gone", 1, time.Minute))
		require.NoError(t, c.Delete(ctx, "gone"))

		var got int
		found, err := c.GetJSON(ctx, "gone", &got)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("increment keeps the first expiry", func(t *testing.T) {
		n, err := c.Increment(ctx, "hits", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		n, err = c.Increment(ctx, "hits", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		ttl, err := c.Client().TTL(ctx, "test:hits").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})
}
