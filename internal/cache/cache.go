// Package cache provides a typed in-memory TTL cache on top of
// patrickmn/go-cache.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache holds values of one type with per-entry expiry.
type Cache[V any] struct {
	store *gocache.Cache
}

// New creates a new cache. cleanupInterval is how often expired items are
// removed from memory.
func New[V any](cleanupInterval time.Duration) *Cache[V] {
	return &Cache[V]{
		store: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

// Get returns the value stored under key if it has not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	v, ok := c.store.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(V)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Set stores value until ttl elapses. A non-positive ttl removes key
// instead, so nothing that is already stale is ever served.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		c.store.Delete(key)
		return
	}
	c.store.Set(key, value, ttl)
}

// Delete removes a value from the cache.
func (c *Cache[V]) Delete(key string) {
	c.store.Delete(key)
}

// Clear removes all items from the cache.
func (c *Cache[V]) Clear() {
	c.store.Flush()
}

// OnEvicted registers fn to run when an item expires or is deleted.
func (c *Cache[V]) OnEvicted(fn func(key string, value V)) {
	c.store.OnEvicted(func(key string, v any) {
		if typed, ok := v.(V); ok {
			fn(key, typed)
		}
	})
}

// Stats returns cache statistics.
type Stats struct {
	ItemCount int `json:"item_count"`
}

// GetStats returns current cache statistics.
func (c *Cache[V]) GetStats() Stats {
	return Stats{
		ItemCount: c.store.ItemCount(),
	}
}
