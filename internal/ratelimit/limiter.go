package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter gates outbound calls shared by every request in the process.
// A nil *Limiter never blocks.
type Limiter struct {
	l *rate.Limiter
}

// PerMinute builds a limiter allowing rpm calls per minute with the given
// burst. rpm <= 0 disables limiting and returns nil.
func PerMinute(rpm, burst int) *Limiter {
	if rpm <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{l: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst)}
}

// Wait blocks until a call is allowed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.l == nil {
		return nil
	}
	return l.l.Wait(ctx)
}
