package cache

import (
	"context"
	"path"
	"sync"
	"time"
)

// MemoryCache is the in-process fallback used when Redis is unreachable or
// not configured. Expired entries are dropped lazily on read.
type MemoryCache struct {
	entries    sync.Map
	rateLimits sync.Map
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	val, ok := c.entries.Load(key)
	if !ok {
		return nil, nil
	}
	entry := val.(*memoryEntry)
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.entries.Delete(key)
		return nil, nil
	}
	return entry.value, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := &memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	c.entries.Store(key, entry)
	return nil
}

func (c *MemoryCache) DeletePattern(_ context.Context, pattern string) error {
	c.entries.Range(func(key, _ any) bool {
		if ok, _ := path.Match(pattern, key.(string)); ok {
			c.entries.Delete(key)
		}
		return true
	})
	return nil
}

type rateLimitEntry struct {
	mu        sync.Mutex
	count     int
	expiresAt time.Time
}

func (c *MemoryCache) CheckRateLimit(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	val, _ := c.rateLimits.LoadOrStore(key, &rateLimitEntry{})
	entry := val.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if now.After(entry.expiresAt) {
		entry.count = 0
		entry.expiresAt = now.Add(window)
	}
	entry.count++

	return entry.count <= limit, nil
}
