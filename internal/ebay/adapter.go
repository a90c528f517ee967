package ebay

import (
	"context"
	"errors"
	"net/http"

	"cardtrack/internal/aggregate"
	"cardtrack/internal/card"
	"cardtrack/internal/pricing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Searcher finds sold-listing prices for a keyword phrase.
//
//go:generate mockgen -package=ebay_test -destination=mock_searcher_test.go -source=adapter.go Searcher
type Searcher interface {
	SearchSold(ctx context.Context, keywords string) ([]decimal.Decimal, error)
}

// Adapter turns sold-listing searches into a pricing.PriceSource.
type Adapter struct {
	searcher Searcher
	log      *zap.Logger
}

var _ pricing.PriceSource = (*Adapter)(nil)

// NewAdapter wraps s.
func NewAdapter(s Searcher, log *zap.Logger) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{searcher: s, log: log}
}

// Lookup tries each keyword phrase in order and stops at the first one with
// at least one sale, or as soon as the upstream throttles. Failed attempts
// only show up in the diagnostics.
func (a *Adapter) Lookup(ctx context.Context, q card.Query, keywords []string) pricing.Lookup {
	var out pricing.Lookup
	for _, kw := range keywords {
		prices, err := a.searcher.SearchSold(ctx, kw)
		d := pricing.Diagnostic{Keywords: kw, HTTPStatus: http.StatusOK, SampleCount: len(prices)}
		if err != nil {
			d.HTTPStatus = statusOf(err)
			d.Message = err.Error()
			d.Limited = errors.Is(err, ErrRateLimited)
			d.SampleCount = 0
		}
		out.Attempts = append(out.Attempts, d)

		if d.Limited {
			out.Limited = true
			a.log.Warn("ebay rate limited", zap.String("keywords", kw), zap.Int("status", d.HTTPStatus))
			break
		}
		if err != nil {
			a.log.Info("ebay search failed", zap.String("keywords", kw), zap.Error(err))
			// Without a token or a live request context no later phrase can succeed.
			if errors.Is(err, ErrNoToken) || ctx.Err() != nil {
				break
			}
			continue
		}
		if m, ok := aggregate.Median(prices); ok {
			out.Price = m
			out.SampleCount = len(prices)
			break
		}
	}
	a.log.Debug("ebay lookup",
		zap.String("signature", q.Signature()),
		zap.Int("attempts", len(out.Attempts)),
		zap.Int("samples", out.SampleCount),
	)
	return out
}

func statusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
