package pricing

import (
	"unicode/utf16"

	"github.com/shopspring/decimal"
)

var (
	mockMin = decimal.NewFromInt(1)
	mockMax = decimal.NewFromInt(200)
	ten     = decimal.NewFromInt(10)
)

// MockPrice derives a stable synthetic price in [1.00, 200.00] from a
// signature. It is a pure function of its input.
func MockPrice(signature string) float64 {
	var h int32
	for _, c := range signature {
		// Characters outside the BMP contribute their high surrogate only,
		// so prices stay stable across clients hashing UTF-16 strings.
		h = (h << 5) - h + int32(utf16.Encode([]rune{c})[0])
	}
	m := int64(h % 2000)
	if m < 0 {
		m = -m
	}
	p := decimal.NewFromInt(m).Div(ten).Add(mockMin)
	// abs(h%2000)/10+1 reaches 200.9; the range is capped at 200.
	if p.GreaterThan(mockMax) {
		p = mockMax
	}
	return p.Round(2).InexactFloat64()
}
