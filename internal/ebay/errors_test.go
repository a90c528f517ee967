package ebay_test

import (
	"fmt"
	"net/http"
	"testing"

	"cardtrack/internal/ebay"

	"github.com/stretchr/testify/require"
)

func TestIsRateLimited(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		body   string
		want   bool
	}{
		{http.StatusTooManyRequests, "", true},
		{http.StatusInternalServerError, "Rate limit reached", true},
		{http.StatusInternalServerError, "ratelimit", true},
		{http.StatusBadRequest, "RATE-LIMIT hit", true},
		{http.StatusForbidden, "call quota exhausted", true},
		{http.StatusServiceUnavailable, "throttling in effect", true},
		{http.StatusServiceUnavailable, "Too Many Requests", true},
		{http.StatusInternalServerError, "Call limit exceeded", true},
		{http.StatusInternalServerError, "internal error", false},
		{http.StatusBadRequest, "limit must be <= 200", false},
		{http.StatusOK, "quota", false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d %s", tt.status, tt.body), func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, ebay.IsRateLimited(tt.status, tt.body))
		})
	}
}

func TestStatusError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("wrapped: %w", &ebay.StatusError{Op: "search", StatusCode: 429})
	require.ErrorIs(t, err, ebay.ErrRateLimited)
	require.EqualError(t, err, "wrapped: search: status 429")

	err = &ebay.StatusError{Op: "search", StatusCode: 500, Body: "boom"}
	require.NotErrorIs(t, err, ebay.ErrRateLimited)
	require.EqualError(t, err, "search: status 500: boom")
}
