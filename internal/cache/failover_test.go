package cache

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailoverCacheSwitchesToFallback(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := zerolog.New(io.Discard)
	failover := NewFailoverCache(NewRedisCache(client), NewMemoryCache(), &logger)
	ctx := context.Background()

	require.NoError(t, failover.Set(ctx, "k", []byte("primary"), time.Hour))

	val, err := failover.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("primary"), val)

	// Redis goes away; the cache degrades instead of failing
	s.Close()

	require.NoError(t, failover.Set(ctx, "k2", []byte("fallback"), time.Hour))

	val, err = failover.Get(ctx, "k2")
	require.NoError(t, err)
	assert.Equal(t, []byte("fallback"), val)

	allowed, err := failover.CheckRateLimit(ctx, "u", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestFailoverCacheInvalidatesBothTiers(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := zerolog.New(io.Discard)
	primary := NewRedisCache(client)
	fallback := NewMemoryCache()
	failover := NewFailoverCache(primary, fallback, &logger)
	ctx := context.Background()

	// Seed the fallback directly, as if written while degraded
	require.NoError(t, fallback.Set(ctx, "search:plaza:a:b", []byte("stale"), time.Hour))
	require.NoError(t, primary.Set(ctx, "search:plaza:a:b", []byte("fresh"), time.Hour))

	require.NoError(t, failover.DeletePattern(ctx, SearchPattern))

	val, err := primary.Get(ctx, "search:plaza:a:b")
	require.NoError(t, err)
	assert.Nil(t, val)

	val, err = fallback.Get(ctx, "search:plaza:a:b")
	require.NoError(t, err)
	assert.Nil(t, val)
}
