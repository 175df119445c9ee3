// Package cache provides a small in-memory TTL cache.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a type-safe expiring key-value map.
//
// Entries carry an absolute expiry timestamp computed at Set time. Expiry is
// checked lazily on Get: an expired entry is evicted by the read that
// discovers it; there is no background sweeper. The cache is safe for
// concurrent use via an RWMutex. Two goroutines racing to populate the same
// key both succeed and the last write wins, which is acceptable because
// equivalent keys always carry equivalent values.
//
// Keys are compared structurally, so callers must normalize (lowercase, trim,
// sort) before use: logically identical keys must map to the same entry.
type TTLCache[K comparable, V any] struct {
	mu  sync.RWMutex
	m   map[K]entry[V]
	ttl time.Duration
	now func() time.Time
}

// New creates a cache whose entries live for ttl after each Set.
func New[K comparable, V any](ttl time.Duration) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		m:   make(map[K]entry[V]),
		ttl: ttl,
		now: time.Now,
	}
}

// WithClock replaces the cache's time source. Tests use this to control
// expiry deterministically.
func (c *TTLCache[K, V]) WithClock(now func() time.Time) *TTLCache[K, V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

// Get returns the live value for key. The ok result is false for a missing
// or just-expired key; a stale value is never returned.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.m[key]
	now := c.now()
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if e.expiresAt.Before(now) {
		c.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have
		// refreshed the entry since the read above.
		if cur, still := c.m[key]; still && cur.expiresAt.Before(c.now()) {
			delete(c.m, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with expiry now + ttl.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
}

// Clear drops all entries.
func (c *TTLCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[K]entry[V])
}

// Stats returns the current entry count and the configured TTL.
// The count may include entries that have expired but not yet been evicted.
func (c *TTLCache[K, V]) Stats() (int, time.Duration) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m), c.ttl
}
