package pricing

import (
	"context"
	"time"

	"cardtrack/internal/aggregate"
	"cardtrack/internal/card"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Path records how a quote was produced.
type Path string

const (
	PathCacheHit       Path = "CACHE_HIT"
	PathExternalLookup Path = "EXTERNAL_LOOKUP"
	PathMockFallback   Path = "MOCK_FALLBACK"
)

// Options tune a single resolution.
type Options struct {
	// SkipExternal forces the mock fallback on a cache miss. Quotes produced
	// this way are not cached, so the next request tries the upstream again.
	SkipExternal bool
	// Debug attaches per-attempt diagnostics to the result.
	Debug bool
}

// Result is a resolved quote plus what it took to get it.
type Result struct {
	Quote Quote
	Path  Path
	// External is true when the upstream was actually called.
	External bool
	Limited  bool
	Meta     *Meta
}

// Meta is the optional debug payload.
type Meta struct {
	Cached   bool         `json:"cached"`
	Path     Path         `json:"path"`
	Keywords []string     `json:"keywords,omitempty"`
	Attempts []Diagnostic `json:"attempts,omitempty"`
}

// Resolver turns card queries into quotes: cache first, then the live
// source, then the deterministic mock. It never fails.
type Resolver struct {
	cache  Cache
	source PriceSource
	passes []card.Pass
	now    func() time.Time
	log    *zap.Logger

	sf singleflight.Group
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithSource sets the live price source. Without one every miss is mocked.
func WithSource(s PriceSource) ResolverOption {
	return func(r *Resolver) { r.source = s }
}

// WithPasses sets the keyword phrasings tried against the source.
func WithPasses(p []card.Pass) ResolverOption {
	return func(r *Resolver) {
		if len(p) > 0 {
			r.passes = p
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) { r.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// NewResolver builds a Resolver around an explicitly owned cache.
func NewResolver(c Cache, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		cache:  c,
		passes: card.DefaultPasses,
		now:    time.Now,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ExternalEnabled reports whether a live source is configured.
func (r *Resolver) ExternalEnabled() bool { return r.source != nil }

// Cached returns the fresh cache entry for q, if any.
func (r *Resolver) Cached(ctx context.Context, q card.Query) (Entry, bool) {
	e, ok := r.cache.Get(ctx, q.Signature())
	if !ok || !e.Valid() {
		return Entry{}, false
	}
	return e, true
}

// ExternalBound reports whether resolving q right now would call the source.
func (r *Resolver) ExternalBound(ctx context.Context, q card.Query) bool {
	if r.source == nil || len(q.Keywords(r.passes)) == 0 {
		return false
	}
	_, hit := r.Cached(ctx, q)
	return !hit
}

// Resolve produces a quote for q.
func (r *Resolver) Resolve(ctx context.Context, q card.Query, opts Options) Result {
	sig := q.Signature()

	if e, ok := r.Cached(ctx, q); ok {
		res := Result{Quote: e.Quote(q.ID), Path: PathCacheHit}
		if opts.Debug {
			res.Meta = &Meta{Cached: true, Path: PathCacheHit}
		}
		return res
	}

	key := sig
	if opts.SkipExternal {
		key += "|skip"
	}
	// Identical concurrent misses share one lookup. The shared flight is
	// detached from any single caller's cancellation.
	v, _, shared := r.sf.Do(key, func() (any, error) {
		return r.resolveMiss(context.WithoutCancel(ctx), q, sig, opts.SkipExternal), nil
	})
	res := v.(Result)
	res.Quote.ID = q.ID
	if shared {
		r.log.Debug("coalesced quote resolution", zap.String("signature", sig))
	}
	if !opts.Debug {
		res.Meta = nil
	}
	return res
}

func (r *Resolver) resolveMiss(ctx context.Context, q card.Query, sig string, skipExternal bool) Result {
	// Another flight may have filled the cache while this one queued.
	if e, ok := r.cache.Get(ctx, sig); ok && e.Valid() {
		return Result{Quote: e.Quote(""), Path: PathCacheHit, Meta: &Meta{Cached: true, Path: PathCacheHit}}
	}

	res := Result{Path: PathMockFallback}
	meta := &Meta{Path: PathMockFallback}
	entry := Entry{Source: SourceMock}

	keywords := q.Keywords(r.passes)
	meta.Keywords = keywords
	if r.source != nil && len(keywords) > 0 && !skipExternal {
		lk := r.source.Lookup(ctx, q, keywords)
		res.External = true
		res.Limited = lk.Limited
		meta.Attempts = lk.Attempts
		// A median that rounds to 0.00 is no price at all.
		if p := aggregate.Cents(lk.Price); lk.SampleCount > 0 && p.IsPositive() {
			entry.Price = p.InexactFloat64()
			entry.SampleCount = lk.SampleCount
			entry.Source = SourceExternal
			res.Path = PathExternalLookup
			meta.Path = PathExternalLookup
		}
		r.log.Debug("external lookup finished",
			zap.String("signature", sig),
			zap.Int("samples", lk.SampleCount),
			zap.Int("attempts", len(lk.Attempts)),
			zap.Bool("limited", lk.Limited),
		)
	}

	if entry.Source == SourceMock {
		entry.Price = MockPrice(sig)
		entry.SampleCount = 0
	}
	entry.ObservedAt = r.now().UTC()

	if skipExternal && r.source != nil {
		r.log.Debug("external lookup suppressed, mock quote not cached", zap.String("signature", sig))
	} else {
		r.cache.Set(ctx, sig, entry)
	}

	res.Quote = entry.Quote("")
	res.Meta = meta
	return res
}
