package aggregate

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// ParsePrice converts a raw JSON price value into a decimal.
// Accepted shapes: numeric strings ("12.99"), JSON numbers (float64 or
// json.Number). Anything else, including negative, NaN and Inf values,
// is rejected.
func ParsePrice(v any) (decimal.Decimal, bool) {
	var (
		d   decimal.Decimal
		err error
	)
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return decimal.Zero, false
		}
		d, err = decimal.NewFromString(s)
	case json.Number:
		d, err = decimal.NewFromString(x.String())
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, false
		}
		d = decimal.NewFromFloat(x)
	default:
		return decimal.Zero, false
	}
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// Median returns the median of prices. For an even count it is the mean of
// the two middle values. ok is false for an empty input.
// The input slice is not modified.
func Median(prices []decimal.Decimal) (m decimal.Decimal, ok bool) {
	if len(prices) == 0 {
		return decimal.Zero, false
	}
	s := make([]decimal.Decimal, len(prices))
	copy(s, prices)
	sort.Slice(s, func(i, j int) bool { return s[i].LessThan(s[j]) })

	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid], true
	}
	return s[mid-1].Add(s[mid]).Div(two), true
}

// Cents rounds a price to two decimals.
func Cents(d decimal.Decimal) decimal.Decimal { return d.Round(2) }
