package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Pacer enforces a minimum time between marked calls.
// Wait blocks until Interval has elapsed since the last Mark, or returns
// early if the context is canceled. The first Wait never blocks.
type Pacer struct {
	Interval time.Duration

	mu   sync.Mutex
	last time.Time
}

func NewPacer(interval time.Duration) *Pacer { return &Pacer{Interval: interval} }

func (p *Pacer) Wait(ctx context.Context) error {
	if p.Interval <= 0 {
		return nil
	}
	p.mu.Lock()
	last := p.last
	p.mu.Unlock()
	if last.IsZero() {
		return nil
	}
	wait := time.Until(last.Add(p.Interval))
	if wait <= 0 {
		return nil
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Mark records a completed call.
func (p *Pacer) Mark() {
	if p.Interval <= 0 {
		return
	}
	p.mu.Lock()
	p.last = time.Now()
	p.mu.Unlock()
}
