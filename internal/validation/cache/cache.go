// Package cache provides the process-local validation result cache shared by
// the user and course validators. Entries expire after a fixed TTL and a
// background sweep removes stale entries so memory stays bounded even without
// read traffic.
package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     bool
	expiresAt time.Time
}

// Cache is a concurrency-safe key -> bool cache with absolute expiry.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry

	ttl           time.Duration
	sweepInterval time.Duration
	now           func() time.Time
}

// Option configures the Cache.
type Option func(*Cache)

// WithClock substitutes the time source. Tests use a fake clock to exercise
// expiry deterministically.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a cache with the given TTL and sweep interval.
func New(ttl, sweepInterval time.Duration, opts ...Option) *Cache {
	c := &Cache{
		entries:       make(map[string]entry),
		ttl:           ttl,
		sweepInterval: sweepInterval,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value for key. The second return is false when the
// key is absent or past its expiry. Misses are not failures.
func (c *Cache) Get(key string) (bool, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.expiresAt) {
		return false, false
	}
	return e.value, true
}

// Put stores value under key with the configured TTL, overwriting any
// existing entry.
func (c *Cache) Put(key string, value bool) {
	expiresAt := c.now().Add(c.ttl)
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: expiresAt}
	c.mu.Unlock()
}

// Len reports the number of entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Run sweeps expired entries on a fixed interval until ctx is cancelled.
// It runs independently of read traffic.
func (c *Cache) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Sweep()
		}
	}
}

// Sweep removes all expired entries.
func (c *Cache) Sweep() {
	now := c.now()
	c.mu.Lock()
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}
