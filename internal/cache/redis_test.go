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

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisCache(client), s
}

func TestRedisCache(t *testing.T) {
	c, s := newTestRedisCache(t)
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "hotel_info:1", []byte(`{"id":1}`), time.Hour))

		val, err := c.Get(ctx, "hotel_info:1")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"id":1}`), val)
	})

	t.Run("MissIsNotAnError", func(t *testing.T) {
		val, err := c.Get(ctx, "hotel_info:404")
		require.NoError(t, err)
		assert.Nil(t, val)
	})

	t.Run("TTLExpires", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "short", []byte("x"), time.Second))
		s.FastForward(2 * time.Second)

		val, err := c.Get(ctx, "short")
		require.NoError(t, err)
		assert.Nil(t, val)
	})

	t.Run("DeletePattern", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "hotel_rooms:1:2030-01-01:2030-01-05", []byte("a"), time.Hour))
		require.NoError(t, c.Set(ctx, "hotel_rooms:1:2030-02-01:2030-02-05", []byte("b"), time.Hour))
		require.NoError(t, c.Set(ctx, "hotel_rooms:2:2030-01-01:2030-01-05", []byte("c"), time.Hour))

		require.NoError(t, c.DeletePattern(ctx, HotelRoomsPattern(1)))

		val, err := c.Get(ctx, "hotel_rooms:1:2030-01-01:2030-01-05")
		require.NoError(t, err)
		assert.Nil(t, val)

		// Other hotel's entries survive
		val, err = c.Get(ctx, "hotel_rooms:2:2030-01-01:2030-01-05")
		require.NoError(t, err)
		assert.Equal(t, []byte("c"), val)
	})

	t.Run("RateLimit", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			allowed, err := c.CheckRateLimit(ctx, "client-a", 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed)
		}

		allowed, err := c.CheckRateLimit(ctx, "client-a", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)

		// The window resets
		s.FastForward(2 * time.Minute)
		allowed, err = c.CheckRateLimit(ctx, "client-a", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestRedisCacheNilClient(t *testing.T) {
	c := NewRedisCache(nil)
	ctx := context.Background()

	_, err := c.Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, c.Set(ctx, "k", nil, 0))
	assert.Error(t, c.DeletePattern(ctx, "*"))
}
