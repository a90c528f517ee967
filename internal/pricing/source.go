package pricing

import (
	"context"

	"cardtrack/internal/card"

	"github.com/shopspring/decimal"
)

// PriceSource looks up live sold-listing prices for a card.
// keywords are the phrasings to try, most specific first.
// Implementations never fail: problems are reported through the
// returned diagnostics and a zero SampleCount.
//
//go:generate mockgen -package=pricing -destination=mock_source_test.go -source=source.go PriceSource
type PriceSource interface {
	Lookup(ctx context.Context, q card.Query, keywords []string) Lookup
}

// Lookup is the outcome of one external lookup.
type Lookup struct {
	// Price is the median sale price; meaningful only when SampleCount > 0.
	Price       decimal.Decimal
	SampleCount int
	// Limited is set when the upstream signalled throttling or quota exhaustion.
	Limited  bool
	Attempts []Diagnostic
}

// Diagnostic describes one keyword attempt against the upstream.
type Diagnostic struct {
	Keywords    string `json:"keywords"`
	HTTPStatus  int    `json:"httpStatus"`
	Message     string `json:"message,omitempty"`
	Limited     bool   `json:"limited,omitempty"`
	SampleCount int    `json:"sampleCount"`
}
