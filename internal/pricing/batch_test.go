package pricing

import (
	"errors"
	"testing"
	"time"

	"cardtrack/internal/card"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		items []card.Query
		want  error
	}{
		{name: "empty", items: nil, want: ErrEmptyBatch},
		{name: "too large", items: make([]card.Query, MaxBatchItems+1), want: ErrBatchTooLarge},
		{name: "missing name", items: []card.Query{{Name: "Mew"}, {Name: "  "}}, want: ErrMissingName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Validate(tt.items)
			require.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	require.NoError(t, Validate([]card.Query{{Name: "Mew"}}))
}

func TestValidate_ReportsIndex(t *testing.T) {
	t.Parallel()

	err := Validate([]card.Query{{Name: "Mew"}, {Name: "Mew"}, {Set: "Base"}})
	require.EqualError(t, err, "items[2]: name is required")
}

func TestBatch_FanOutBySignature(t *testing.T) {
	t.Parallel()

	// Arrange: two items that differ only by case and whitespace
	ctrl := gomock.NewController(t)
	src := NewMockPriceSource(ctrl)
	src.EXPECT().
		Lookup(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(Lookup{Price: decimal.RequireFromString("42.5"), SampleCount: 3}).
		Times(1)

	clk := newClock()
	r := NewResolver(newMapCache(clk.Now), WithSource(src), WithClock(clk.Now))
	b := NewBatcher(r, 0, nil)

	items := []card.Query{
		{ID: "a", Name: "Charizard", Set: "Base", Number: "4"},
		{ID: "b", Name: " charizard ", Set: "BASE", Number: "4", Condition: "raw"},
	}

	// Act
	out, err := b.Resolve(t.Context(), items, Options{})

	// Assert
	require.NoError(t, err)
	require.Len(t, out.Quotes, 2)
	require.Equal(t, "a", out.Quotes[0].ID)
	require.Equal(t, "b", out.Quotes[1].ID)
	require.InDelta(t, 42.5, out.Quotes[0].Price, 1e-9)
	require.Equal(t, out.Quotes[0].Price, out.Quotes[1].Price)
	require.Equal(t, out.Quotes[0].ObservedAt, out.Quotes[1].ObservedAt)
	require.Equal(t, SourceExternal, out.Quotes[1].Source)
	require.False(t, out.Limited)
}

func TestBatch_PreservesInputOrder(t *testing.T) {
	t.Parallel()

	clk := newClock()
	r := NewResolver(newMapCache(clk.Now), WithClock(clk.Now))
	b := NewBatcher(r, 0, nil)

	items := []card.Query{
		{ID: "1", Name: "Pikachu", Set: "Jungle", Number: "60"},
		{ID: "2", Name: "Mew", Number: "8"},
		{ID: "3", Name: "Pikachu", Set: "Jungle", Number: "60"},
		{ID: "4", Name: "Charizard", Set: "Base", Number: "4", Condition: "PSA 10"},
	}

	out, err := b.Resolve(t.Context(), items, Options{})
	require.NoError(t, err)
	require.Len(t, out.Quotes, len(items))
	for i, q := range out.Quotes {
		require.Equal(t, items[i].ID, q.ID)
		require.InDelta(t, MockPrice(items[i].Signature()), q.Price, 1e-9)
	}
	require.InDelta(t, 168.40, out.Quotes[0].Price, 1e-9)
	require.InDelta(t, 118.30, out.Quotes[1].Price, 1e-9)
	require.InDelta(t, 183.00, out.Quotes[3].Price, 1e-9)
}

func TestBatch_RateLimitStopsUpstreamCalls(t *testing.T) {
	t.Parallel()

	// Arrange: the first lookup is throttled
	ctrl := gomock.NewController(t)
	src := NewMockPriceSource(ctrl)
	src.EXPECT().
		Lookup(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(Lookup{Limited: true}).
		Times(1)

	clk := newClock()
	c := newMapCache(clk.Now)
	r := NewResolver(c, WithSource(src), WithClock(clk.Now))
	b := NewBatcher(r, 0, nil)

	items := []card.Query{
		{Name: "Charizard", Set: "Base", Number: "4"},
		{Name: "Blastoise", Set: "Base", Number: "2"},
		{Name: "Venusaur", Set: "Base", Number: "15"},
	}

	// Act
	out, err := b.Resolve(t.Context(), items, Options{})

	// Assert: every item still gets a quote, only the first was looked up
	require.NoError(t, err)
	require.True(t, out.Limited)
	require.Len(t, out.Quotes, 3)
	for i, q := range out.Quotes {
		require.Equal(t, SourceMock, q.Source)
		require.InDelta(t, MockPrice(items[i].Signature()), q.Price, 1e-9)
	}
	// only the throttled group's fallback was stored
	require.Equal(t, 1, c.sets)
}

func TestBatch_ValidationError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	src := NewMockPriceSource(ctrl)
	src.EXPECT().Lookup(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	clk := newClock()
	r := NewResolver(newMapCache(clk.Now), WithSource(src), WithClock(clk.Now))
	b := NewBatcher(r, 0, nil)

	_, err := b.Resolve(t.Context(), []card.Query{{Name: "Mew"}, {}}, Options{})
	require.ErrorIs(t, err, ErrMissingName)

	_, err = b.Resolve(t.Context(), nil, Options{})
	require.ErrorIs(t, err, ErrEmptyBatch)
}

func TestBatch_DelayBetweenExternalGroups(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	src := NewMockPriceSource(ctrl)
	src.EXPECT().
		Lookup(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(Lookup{Price: decimal.NewFromInt(5), SampleCount: 1}).
		Times(3)

	clk := newClock()
	r := NewResolver(newMapCache(clk.Now), WithSource(src), WithClock(clk.Now))
	b := NewBatcher(r, 30*time.Millisecond, nil)

	items := []card.Query{{Name: "A"}, {Name: "B"}, {Name: "C"}}

	start := time.Now()
	_, err := b.Resolve(t.Context(), items, Options{})
	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestBatch_CacheHitsAreNotPaced(t *testing.T) {
	t.Parallel()

	// Arrange: B is already cached; the pacing delay is far beyond the test timeout
	ctrl := gomock.NewController(t)
	src := NewMockPriceSource(ctrl)
	src.EXPECT().
		Lookup(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(Lookup{Price: decimal.NewFromInt(5), SampleCount: 1}).
		Times(2)

	clk := newClock()
	r := NewResolver(newMapCache(clk.Now), WithSource(src), WithClock(clk.Now))
	r.Resolve(t.Context(), card.Query{Name: "B"}, Options{})
	b := NewBatcher(r, time.Hour, nil)

	// Act
	out, err := b.Resolve(t.Context(), []card.Query{{Name: "A"}, {Name: "B"}, {Name: "A"}}, Options{})

	// Assert
	require.NoError(t, err)
	require.Len(t, out.Quotes, 3)
	require.Equal(t, SourceExternal, out.Quotes[1].Source)
}

func TestNewBatcher_NegativeDelayUsesDefault(t *testing.T) {
	t.Parallel()

	b := NewBatcher(NewResolver(newMapCache(time.Now)), -1, nil)
	require.Equal(t, DefaultDelay, b.delay)
}
