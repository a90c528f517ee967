package pricing

import (
	"context"
	"time"
)

// DefaultTTL is how long a resolved quote stays fresh, measured from creation.
const DefaultTTL = 10 * time.Minute

// Source tags where a quote's price came from.
type Source string

const (
	SourceExternal Source = "EXTERNAL"
	SourceMock     Source = "MOCK"
)

func (s Source) valid() bool { return s == SourceExternal || s == SourceMock }

// Quote is the response-facing view of a cache entry plus the caller's id.
type Quote struct {
	ID          string    `json:"id,omitempty"`
	Price       float64   `json:"price"`
	ObservedAt  time.Time `json:"observedAt"`
	Source      Source    `json:"source"`
	SampleCount int       `json:"sampleCount"`
}

// Entry is what the quote cache stores per signature.
type Entry struct {
	Price       float64   `json:"price"`
	ObservedAt  time.Time `json:"observedAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Source      Source    `json:"source"`
	SampleCount int       `json:"sampleCount"`
}

// Valid reports whether the entry is well formed. Malformed entries are
// treated as cache misses.
func (e Entry) Valid() bool {
	return e.Price > 0 && e.Source.valid() && !e.ObservedAt.IsZero() && e.SampleCount >= 0
}

// Quote renders the entry for a caller.
func (e Entry) Quote(id string) Quote {
	return Quote{
		ID:          id,
		Price:       e.Price,
		ObservedAt:  e.ObservedAt,
		Source:      e.Source,
		SampleCount: e.SampleCount,
	}
}

// Cache maps signatures to entries. Get must report absent for expired
// entries; Set overwrites unconditionally and stamps ExpiresAt itself.
type Cache interface {
	Get(ctx context.Context, signature string) (Entry, bool)
	Set(ctx context.Context, signature string, e Entry)
}
