package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is an in-process LRU used when no redis address is
// configured. maxTTL bounds every entry; Set may ask for a shorter one.
type MemoryCache struct {
	lru      *expirable.LRU[string, memoryEntry]
	clockNow func() time.Time
}

func NewMemory(size int, maxTTL time.Duration) *MemoryCache {
	if size <= 0 {
		size = 1
	}
	return &MemoryCache{
		lru:      expirable.NewLRU[string, memoryEntry](size, nil, maxTTL),
		clockNow: time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	e, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && !c.clockNow().Before(e.expiresAt) {
		c.lru.Remove(key)
		return nil, false
	}
	return e.value, true
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = c.clockNow().Add(ttl)
	}
	c.lru.Add(key, e)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

func (c *MemoryCache) Close() error {
	c.lru.Purge()
	return nil
}
