// file: internal/cache/cache.go
// version: 1.1.0
// guid: 5b7d9f1a-3c5e-4f7b-8d0c-6e8f0a2b4c6d

package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Cache is a generic TTL cache safe for concurrent use. Expired entries
// are dropped lazily on read and swept on write.
type Cache[T any] struct {
	mu         sync.RWMutex
	items      map[string]entry[T]
	defaultTTL time.Duration
}

// New creates a cache with the given default TTL.
func New[T any](defaultTTL time.Duration) *Cache[T] {
	return &Cache[T]{
		items:      make(map[string]entry[T]),
		defaultTTL: defaultTTL,
	}
}

// Get retrieves a value if it exists and hasn't expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		var zero T
		return zero, false
	}
	if time.Now().After(e.expiresAt) {
		c.evictIfUnchanged(key, e.expiresAt)
		var zero T
		return zero, false
	}
	return e.value, true
}

// evictIfUnchanged removes key only while it still holds the entry the
// caller saw expire. A Set racing between the read lock and this write
// lock keeps its fresh entry.
func (c *Cache[T]) evictIfUnchanged(key string, seenExpiry time.Time) {
	c.mu.Lock()
	if cur, ok := c.items[key]; ok && cur.expiresAt.Equal(seenExpiry) {
		delete(c.items, key)
	}
	c.mu.Unlock()
}

// Set stores a value with the default TTL.
func (c *Cache[T]) Set(key string, value T) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores a value with a specific TTL, sweeping any entries that
// have already expired.
func (c *Cache[T]) SetWithTTL(key string, value T, ttl time.Duration) {
	now := time.Now()
	c.mu.Lock()
	for k, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, k)
		}
	}
	c.items[key] = entry[T]{value: value, expiresAt: now.Add(ttl)}
	c.mu.Unlock()
}

// Len reports the number of entries, expired or not.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Invalidate removes a single key.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// InvalidateAll removes all entries.
func (c *Cache[T]) InvalidateAll() {
	c.mu.Lock()
	c.items = make(map[string]entry[T])
	c.mu.Unlock()
}
