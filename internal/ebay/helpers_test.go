package ebay_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"cardtrack/internal/pricing"

	"github.com/stretchr/testify/require"
)

func jsonResponse(t *testing.T, status int, v any) *http.Response {
	t.Helper()

	buffer := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(buffer).Encode(v))
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(buffer),
	}
}

func textResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func tokenResponse(t *testing.T, token string, expiresIn int) *http.Response {
	return jsonResponse(t, http.StatusOK, map[string]any{
		"access_token": token,
		"expires_in":   expiresIn,
		"token_type":   "Application Access Token",
	})
}

func isTokenRequest(req *http.Request) bool {
	return req.URL.Path == "/identity/v1/oauth2/token"
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

const (
	testClientID     = "client-id"
	testClientSecret = "client-secret"
)

// mapCache is an unbounded pricing.Cache for pipeline tests.
type mapCache struct {
	mu    sync.Mutex
	items map[string]pricing.Entry
}

func newMapCache() *mapCache { return &mapCache{items: map[string]pricing.Entry{}} }

func (c *mapCache) Get(_ context.Context, sig string) (pricing.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[sig]
	return e, ok && time.Now().Before(e.ExpiresAt)
}

func (c *mapCache) Set(_ context.Context, sig string, e pricing.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e.ExpiresAt = time.Now().Add(pricing.DefaultTTL)
	c.items[sig] = e
}
