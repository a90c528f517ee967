package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cardtrack/internal/card"
	"cardtrack/internal/ratelimit"

	"go.uber.org/zap"
)

// DefaultDelay separates successive upstream calls within one batch.
const DefaultDelay = time.Second

// MaxBatchItems caps a single batch request.
const MaxBatchItems = 100

var (
	ErrEmptyBatch    = errors.New("items required")
	ErrBatchTooLarge = fmt.Errorf("too many items (max %d)", MaxBatchItems)
	ErrMissingName   = errors.New("name is required")
)

// BatchResult holds one quote per input item, in input order.
type BatchResult struct {
	Quotes  []Quote `json:"quotes"`
	Limited bool    `json:"limited,omitempty"`
}

// Batcher resolves lists of queries, one resolution per distinct signature.
type Batcher struct {
	resolver *Resolver
	delay    time.Duration
	log      *zap.Logger
}

// NewBatcher builds a Batcher. A negative delay means DefaultDelay.
func NewBatcher(r *Resolver, delay time.Duration, log *zap.Logger) *Batcher {
	if delay < 0 {
		delay = DefaultDelay
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Batcher{resolver: r, delay: delay, log: log}
}

type group struct {
	primary card.Query
	indices []int
}

// Validate checks a batch before any pricing work happens.
func Validate(items []card.Query) error {
	if len(items) == 0 {
		return ErrEmptyBatch
	}
	if len(items) > MaxBatchItems {
		return ErrBatchTooLarge
	}
	for i, it := range items {
		if !it.HasName() {
			return fmt.Errorf("items[%d]: %w", i, ErrMissingName)
		}
	}
	return nil
}

// Resolve prices items. Groups are resolved sequentially in first-seen
// order; the quote of a group is fanned out to all of its members. Once
// any group reports upstream throttling, later groups skip the upstream.
// Only validation errors are returned.
func (b *Batcher) Resolve(ctx context.Context, items []card.Query, opts Options) (BatchResult, error) {
	if err := Validate(items); err != nil {
		return BatchResult{}, err
	}

	order := make([]string, 0, len(items))
	groups := make(map[string]*group, len(items))
	for i, it := range items {
		sig := it.Signature()
		g, ok := groups[sig]
		if !ok {
			g = &group{primary: it}
			groups[sig] = g
			order = append(order, sig)
		}
		g.indices = append(g.indices, i)
	}

	pacer := ratelimit.NewPacer(b.delay)
	out := BatchResult{Quotes: make([]Quote, len(items))}
	for _, sig := range order {
		g := groups[sig]
		o := opts
		o.SkipExternal = o.SkipExternal || out.Limited

		external := !o.SkipExternal && b.resolver.ExternalBound(ctx, g.primary)
		if external {
			if err := pacer.Wait(ctx); err != nil {
				b.log.Debug("batch pacing interrupted", zap.Error(err))
				o.SkipExternal = true
			}
		}

		res := b.resolver.Resolve(ctx, g.primary, o)
		if res.External {
			pacer.Mark()
		}
		if res.Limited && !out.Limited {
			out.Limited = true
			b.log.Warn("upstream rate limited; remaining groups use fallback prices",
				zap.String("signature", sig),
				zap.Int("groups", len(order)),
			)
		}
		for _, idx := range g.indices {
			q := res.Quote
			q.ID = items[idx].ID
			out.Quotes[idx] = q
		}
	}
	return out, nil
}
