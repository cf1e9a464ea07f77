package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eupolar/eupolar-server/internal/domain"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	logger, _ := test.NewNullLogger()

	c, err := NewRedisCache(logger, domain.CacheConfig{
		RedisURL:   "redis://" + mr.Addr(),
		DefaultTTL: time.Hour,
		PoolSize:   2,
	})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)

	_, ok, err := c.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, testChart("user-1", 30)))
	assert.True(t, mr.Exists("eupolar:lifechart:user-1"))
	assert.Equal(t, time.Hour, mr.TTL("eupolar:lifechart:user-1"))

	got, ok, err := c.Get(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, testChart("user-1", 30).Data, got.Data)

	require.NoError(t, c.Invalidate(ctx, "user-1"))
	_, ok, err = c.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)

	require.NoError(t, c.Set(ctx, testChart("user-1", 30)))
	mr.FastForward(2 * time.Hour)

	_, ok, err := c.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)

	require.NoError(t, mr.Set("eupolar:lifechart:user-1", "{not json"))

	_, ok, err := c.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("eupolar:lifechart:user-1"), "corrupt entry is removed")
}

func TestRedisCache_BreakerOpens(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	logger, hook := test.NewNullLogger()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	c := NewRedisCacheWithClient(logger, client, time.Hour)
	defer c.Close()

	mr.Close()
	for i := 0; i < breakerFailureThreshold; i++ {
		_, _, err := c.Get(ctx, "user-1")
		assert.Error(t, err)
	}

	assert.Equal(t, gobreaker.StateOpen, c.State())
	_, _, err := c.Get(ctx, "user-1")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.NotNil(t, hook.LastEntry())
}

func TestNewRedisCache_Errors(t *testing.T) {
	logger, _ := test.NewNullLogger()

	_, err := NewRedisCache(logger, domain.CacheConfig{RedisURL: "not a url"})
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	_, err = NewRedisCache(logger, domain.CacheConfig{RedisURL: "redis://" + addr, MaxRetries: -1})
	assert.Error(t, err)
}
