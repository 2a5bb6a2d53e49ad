package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps responses in process memory.
// Expired entries are invisible to Get immediately; the janitor reclaims
// their memory every cleanupInterval.
type MemoryCache struct {
	items *gocache.Cache
	ttl   time.Duration
}

// NewMemoryCache creates an in-process cache with the given TTL.
// ttl <= 0 falls back to DefaultTTL. cleanupInterval <= 0 uses the TTL.
func NewMemoryCache(ttl, cleanupInterval time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if cleanupInterval <= 0 {
		cleanupInterval = ttl
	}

	return &MemoryCache{
		items: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Get never fails.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	value, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}
	return value, true, nil
}

// Set never fails. The value is copied so later writes to the caller's
// buffer do not leak into the cache.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	c.items.Set(key, valueCopy, gocache.DefaultExpiration)
	return nil
}

// TTL returns the expiry window applied by Set.
func (c *MemoryCache) TTL() time.Duration {
	return c.ttl
}

// Len returns the number of items held, including expired ones not yet purged.
func (c *MemoryCache) Len() int {
	return c.items.ItemCount()
}
