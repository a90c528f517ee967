package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// tokenSkew retires a token this long before eBay says it expires.
const tokenSkew = 15 * time.Second

// TokenSource obtains and caches the application access token
// (OAuth client credentials grant). Concurrent refreshes share one request.
type TokenSource struct {
	creds  Credentials
	client *Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time

	sf singleflight.Group
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Token returns a token valid for at least tokenSkew more.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	if tok, ok := ts.cached(); ok {
		return tok, nil
	}
	v, err, _ := ts.sf.Do("token", func() (any, error) {
		if tok, ok := ts.cached(); ok {
			return tok, nil
		}
		return ts.fetch(ctx)
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoToken, err)
	}
	return v.(string), nil
}

// Invalidate drops the cached token so the next call fetches a new one.
func (ts *TokenSource) Invalidate() {
	ts.mu.Lock()
	ts.token = ""
	ts.expiresAt = time.Time{}
	ts.mu.Unlock()
}

func (ts *TokenSource) cached() (string, bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.token == "" || !ts.client.now().Add(tokenSkew).Before(ts.expiresAt) {
		return "", false
	}
	return ts.token, true
}

func (ts *TokenSource) fetch(ctx context.Context) (string, error) {
	c := ts.client
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", ts.creds.Scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/identity/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.newHeader()
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(ts.creds.ClientID, ts.creds.ClientSecret)

	issued := c.now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", &StatusError{Op: "oauth", StatusCode: res.StatusCode, Body: hint(b)}
	}

	var body tokenResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decoding token: %w", ErrBadResponse, err)
	}
	if body.AccessToken == "" || body.ExpiresIn <= 0 {
		return "", fmt.Errorf("%w: token response without access_token or expires_in", ErrBadResponse)
	}

	ts.mu.Lock()
	ts.token = body.AccessToken
	ts.expiresAt = issued.Add(time.Duration(body.ExpiresIn) * time.Second)
	ts.mu.Unlock()
	return body.AccessToken, nil
}
