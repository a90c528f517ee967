package cache

import (
	"context"
	"sync"
	"time"

	"cardtrack/internal/pricing"
)

// Memory is an in-process quote cache keyed by card signature.
// Entries expire TTL after they were written; reads never extend that.
type Memory struct {
	TTL      time.Duration
	MaxItems int

	now   func() time.Time
	mu    sync.RWMutex
	items map[string]pricing.Entry
}

// NewMemory returns an empty cache. ttl <= 0 means pricing.DefaultTTL;
// maxItems <= 0 leaves the cache unbounded.
func NewMemory(ttl time.Duration, maxItems int) *Memory {
	if ttl <= 0 {
		ttl = pricing.DefaultTTL
	}
	return &Memory{
		TTL:      ttl,
		MaxItems: maxItems,
		now:      time.Now,
		items:    make(map[string]pricing.Entry),
	}
}

// WithClock replaces the time source, for tests.
func (c *Memory) WithClock(now func() time.Time) *Memory {
	c.now = now
	return c
}

// Get returns the entry for sig unless it is missing or expired.
func (c *Memory) Get(_ context.Context, sig string) (pricing.Entry, bool) {
	c.mu.RLock()
	e, ok := c.items[sig]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.ExpiresAt) {
		return pricing.Entry{}, false
	}
	return e, true
}

// Set overwrites the entry for sig and restarts its TTL.
func (c *Memory) Set(_ context.Context, sig string, e pricing.Entry) {
	now := c.now()
	e.ExpiresAt = now.Add(c.TTL)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[sig] = e
	if c.MaxItems > 0 && len(c.items) > c.MaxItems {
		c.evict(now)
	}
}

// Len counts stored entries, expired ones included.
func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// evict drops expired entries, then the oldest observations, until the
// cache fits MaxItems. Callers hold mu.
func (c *Memory) evict(now time.Time) {
	for k, v := range c.items {
		if !now.Before(v.ExpiresAt) {
			delete(c.items, k)
		}
	}
	for len(c.items) > c.MaxItems {
		var oldest string
		var oldestAt time.Time
		for k, v := range c.items {
			if oldest == "" || v.ObservedAt.Before(oldestAt) {
				oldest, oldestAt = k, v.ObservedAt
			}
		}
		delete(c.items, oldest)
	}
}
