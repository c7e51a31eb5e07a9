package resilience

import (
	"sync"
	"time"
)

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is an in-process TTL cache. Entries expire lazily on read and
// can be reaped in bulk with Sweep.
type Cache[V any] struct {
	mu  sync.RWMutex
	ttl time.Duration
	now func() time.Time

	entries map[string]cacheEntry[V]
}

func NewCache[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry[V]),
	}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		if cur, still := c.entries[key]; still && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		var zero V
		return zero, false
	}
	return entry.value, true
}

func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	c.entries[key] = cacheEntry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Sweep removes every expired entry and returns how many were dropped.
func (c *Cache[V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	dropped := 0
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
			dropped++
		}
	}
	return dropped
}

func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
