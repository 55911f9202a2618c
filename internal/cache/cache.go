package cache

import (
	"strings"
	"sync"
	"time"
)

type entry[T any] struct {
	timestamp time.Time
	payload   T
}

// Cache is a concurrency-safe in-memory cache with per-entry TTL expiry.
// Expiry is lazy: stale entries are evicted when read, there is no background
// sweep. Growth is unbounded beyond TTL, which is fine for a session-lived
// cache keyed by a small set of city names.
type Cache[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry[T]
}

// New creates a Cache whose entries expire ttl after they were set.
func New[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		ttl:     ttl,
		entries: make(map[string]entry[T]),
	}
}

// NormalizeKey canonicalizes a free-text location name into a cache key.
func NormalizeKey(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}

// Get returns the cached payload for key. A stale entry is evicted and
// reported as a miss.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	if time.Since(e.timestamp) > c.ttl {
		delete(c.entries, key)
		var zero T
		return zero, false
	}
	return e.payload, true
}

// Set stores payload under key, unconditionally overwriting any previous
// entry and restarting its TTL window.
func (c *Cache[T]) Set(key string, payload T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[T]{timestamp: time.Now(), payload: payload}
}

// Len reports the number of stored entries, including any not yet evicted.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
