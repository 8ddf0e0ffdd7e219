package cache

import (
	"context"
	"sync/atomic"
	"time"

	"innkeep/internal/domain"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverCache serves from the primary (Redis) until it fails, then runs on
// the in-memory fallback and probes the primary once a minute. Entries
// written while degraded are lost on recovery, which only costs extra
// database reads.
type FailoverCache struct {
	primary   domain.Cache
	fallback  domain.Cache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverCache(primary, fallback domain.Cache, logger *zerolog.Logger) *FailoverCache {
	return &FailoverCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (c *FailoverCache) markDown(err error) {
	c.logger.Error().Err(err).Msg("Primary cache failed, falling back to memory")
	c.isDown.Store(true)
	c.lastCheck.Store(time.Now().UnixNano())
}

// usePrimary reports whether the next call should try the primary.
func (c *FailoverCache) usePrimary() bool {
	if !c.isDown.Load() {
		return true
	}
	last := time.Unix(0, c.lastCheck.Load())
	if time.Since(last) > recoveryInterval {
		c.lastCheck.Store(time.Now().UnixNano())
		return true
	}
	return false
}

func (c *FailoverCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.usePrimary() {
		val, err := c.primary.Get(ctx, key)
		if err == nil {
			c.isDown.Store(false)
			return val, nil
		}
		c.markDown(err)
	}
	return c.fallback.Get(ctx, key)
}

func (c *FailoverCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.usePrimary() {
		err := c.primary.Set(ctx, key, value, ttl)
		if err == nil {
			c.isDown.Store(false)
			return nil
		}
		c.markDown(err)
	}
	return c.fallback.Set(ctx, key, value, ttl)
}

func (c *FailoverCache) DeletePattern(ctx context.Context, pattern string) error {
	// Invalidation goes to both tiers so a stale entry can never resurface
	// after recovery.
	var primaryErr error
	if c.usePrimary() {
		primaryErr = c.primary.DeletePattern(ctx, pattern)
		if primaryErr == nil {
			c.isDown.Store(false)
		} else {
			c.markDown(primaryErr)
		}
	}
	return c.fallback.DeletePattern(ctx, pattern)
}

func (c *FailoverCache) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if c.usePrimary() {
		allowed, err := c.primary.CheckRateLimit(ctx, key, limit, window)
		if err == nil {
			c.isDown.Store(false)
			return allowed, nil
		}
		c.markDown(err)
	}
	return c.fallback.CheckRateLimit(ctx, key, limit, window)
}
