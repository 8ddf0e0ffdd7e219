package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "search:plaza:2030-01-01:2030-01-05", []byte("data"), time.Hour))

		val, err := c.Get(ctx, "search:plaza:2030-01-01:2030-01-05")
		require.NoError(t, err)
		assert.Equal(t, []byte("data"), val)
	})

	t.Run("MissIsNil", func(t *testing.T) {
		val, err := c.Get(ctx, "absent")
		require.NoError(t, err)
		assert.Nil(t, val)
	})

	t.Run("ExpiredEntryIsDropped", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "ephemeral", []byte("x"), -time.Second))

		val, err := c.Get(ctx, "ephemeral")
		require.NoError(t, err)
		assert.Nil(t, val)
	})

	t.Run("DeletePattern", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "hotel_rooms:7:2030-01-01:2030-01-05", []byte("a"), time.Hour))
		require.NoError(t, c.Set(ctx, "hotel_rooms:8:2030-01-01:2030-01-05", []byte("b"), time.Hour))

		require.NoError(t, c.DeletePattern(ctx, HotelRoomsPattern(7)))

		val, _ := c.Get(ctx, "hotel_rooms:7:2030-01-01:2030-01-05")
		assert.Nil(t, val)
		val, _ = c.Get(ctx, "hotel_rooms:8:2030-01-01:2030-01-05")
		assert.Equal(t, []byte("b"), val)
	})
}

func TestMemoryCacheRateLimit(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		allowed, err := c.CheckRateLimit(ctx, "user-1", 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := c.CheckRateLimit(ctx, "user-1", 5, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	// Another key has its own window
	allowed, err = c.CheckRateLimit(ctx, "user-2", 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}
