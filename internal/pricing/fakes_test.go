package pricing

import (
	"context"
	"sync"
	"time"
)

// clock is a settable time source.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// mapCache is a minimal Cache honoring the TTL contract.
type mapCache struct {
	mu    sync.Mutex
	now   func() time.Time
	ttl   time.Duration
	items map[string]Entry
	sets  int
}

func newMapCache(now func() time.Time) *mapCache {
	return &mapCache{now: now, ttl: DefaultTTL, items: map[string]Entry{}}
}

func (c *mapCache) Get(_ context.Context, sig string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[sig]
	if !ok || !e.ExpiresAt.After(c.now()) {
		return Entry{}, false
	}
	return e, true
}

func (c *mapCache) Set(_ context.Context, sig string, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e.ExpiresAt = c.now().Add(c.ttl)
	c.items[sig] = e
	c.sets++
}

// put stores an entry verbatim, bypassing Set's stamping.
func (c *mapCache) put(sig string, e Entry) {
	c.mu.Lock()
	c.items[sig] = e
	c.mu.Unlock()
}
