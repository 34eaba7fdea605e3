package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Entry holds a cached value with expiration
type Entry[V any] struct {
	Value     V
	ExpiresAt time.Time
	FetchedAt time.Time
}

// IsExpired returns true if the entry has expired
func (e *Entry[V]) IsExpired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Age returns how long ago the entry was fetched
func (e *Entry[V]) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}

// Cache provides thread-safe TTL-based caching of read cycle results,
// keyed by device path.
type Cache[V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*Entry[V]
	flight  singleflight.Group
}

// New creates a cache whose entries live for ttl
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*Entry[V]),
	}
}

// Get retrieves an unexpired value
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || entry.IsExpired(c.now()) {
		var zero V
		return zero, false
	}
	return entry.Value, true
}

// GetEntry retrieves the full entry even if expired
func (c *Cache[V]) GetEntry(key string) *Entry[V] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[key]
}

// Set stores a value with the cache TTL
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[key] = &Entry[V]{
		Value:     value,
		ExpiresAt: now.Add(c.ttl),
		FetchedAt: now,
	}
}

// GetOrFetch returns the cached value for key, calling fetch when it is
// missing or expired. Concurrent misses on the same key share a single
// fetch. Fetch errors are returned and nothing is stored.
func (c *Cache[V]) GetOrFetch(key string, fetch func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	res, err, _ := c.flight.Do(key, func() (interface{}, error) {
		// another caller may have stored it while we waited for the flight
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := fetch()
		if err != nil {
			return nil, err
		}
		c.Set(key, v)
		return v, nil
	})
	v, _ := res.(V)
	return v, err
}

// Delete removes an entry from cache
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
