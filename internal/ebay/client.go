package ebay

import (
	"net/http"
	"strings"
	"time"

	"cardtrack/internal/ratelimit"
)

const (
	ProductionURL = "https://api.ebay.com"
	SandboxURL    = "https://api.sandbox.ebay.com"

	// DefaultScope grants the Marketplace Insights search.
	DefaultScope         = "https://api.ebay.com/oauth/api_scope https://api.ebay.com/oauth/api_scope/buy.marketplace.insights"
	DefaultMarketplaceID = "EBAY_US"
	DefaultSearchLimit   = 50
)

// BaseURL picks the API host for an environment name. Anything other than
// "sandbox" means production.
func BaseURL(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "sandbox") {
		return SandboxURL
	}
	return ProductionURL
}

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=ebay_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Credentials identify the application to the OAuth endpoint.
type Credentials struct {
	ClientID     string
	ClientSecret string
	// Scope is space separated; empty means DefaultScope.
	Scope string
}

// Complete reports whether both halves of the key pair are present.
func (c Credentials) Complete() bool {
	return strings.TrimSpace(c.ClientID) != "" && strings.TrimSpace(c.ClientSecret) != ""
}

// Client talks to the eBay Buy APIs with an application token.
type Client struct {
	// baseURL is the API host, without a trailing slash.
	baseURL string
	// httpClient performs requests.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header        http.Header
	marketplaceID string
	searchLimit   int
	// limiter gates search calls across the whole process. May be nil.
	limiter *ratelimit.Limiter
	now     func() time.Time

	tokens *TokenSource
}

// ClientOption is a configuration option for the eBay client.
type ClientOption func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// WithMarketplaceID sets the X-EBAY-C-MARKETPLACE-ID sent on searches.
func WithMarketplaceID(id string) ClientOption {
	return func(c *Client) {
		if id != "" {
			c.marketplaceID = id
		}
	}
}

// WithSearchLimit caps the number of sales returned per search.
func WithSearchLimit(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.searchLimit = n
		}
	}
}

// WithLimiter shares an outbound limiter with the client.
func WithLimiter(l *ratelimit.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithClock overrides time.Now for token expiry.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a new eBay API client. Both the client id and secret
// are required.
func NewClient(creds Credentials, options ...ClientOption) (*Client, error) {
	if !creds.Complete() {
		return nil, ErrMissingCredentials
	}
	if strings.TrimSpace(creds.Scope) == "" {
		creds.Scope = DefaultScope
	}
	var client = &Client{
		baseURL:       ProductionURL,
		httpClient:    http.DefaultClient,
		header:        http.Header{},
		marketplaceID: DefaultMarketplaceID,
		searchLimit:   DefaultSearchLimit,
		now:           time.Now,
	}
	for _, option := range options {
		option(client)
	}
	client.tokens = &TokenSource{creds: creds, client: client}
	return client, nil
}

// Tokens exposes the client's token cache.
func (c *Client) Tokens() *TokenSource { return c.tokens }

func (c *Client) newHeader() http.Header {
	return c.header.Clone()
}
