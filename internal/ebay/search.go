package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"cardtrack/internal/aggregate"

	"github.com/shopspring/decimal"
)

type amount struct {
	Value    any    `json:"value"`
	Currency string `json:"currency"`
}

type itemSale struct {
	Title         string  `json:"title"`
	LastSoldPrice *amount `json:"lastSoldPrice"`
	Price         *amount `json:"price"`
}

type searchResponse struct {
	Total        int        `json:"total"`
	ItemSales    []itemSale `json:"itemSales"`
	SalesHistory []itemSale `json:"salesHistory"`
}

// SearchSold returns the sale prices of recently sold listings matching
// keywords. Sales without a usable price are skipped, so the result may
// be empty on success.
func (c *Client) SearchSold(ctx context.Context, keywords string) ([]decimal.Decimal, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("q", keywords)
	query.Set("limit", strconv.Itoa(c.searchLimit))

	endpoint := fmt.Sprintf("%s/buy/marketplace_insights/v1_beta/item_sales/search?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.newHeader()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-EBAY-C-MARKETPLACE-ID", c.marketplaceID)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode >= 200 && res.StatusCode <= 299:
		break

	case res.StatusCode == http.StatusUnauthorized:
		// The token was revoked or expired early; fetch a new one next time.
		c.tokens.Invalidate()
		fallthrough

	default:
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &StatusError{Op: "search", StatusCode: res.StatusCode, Body: hint(b)}
	}

	var body searchResponse
	dec := json.NewDecoder(res.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding sales: %w", ErrBadResponse, err)
	}

	sales := body.ItemSales
	if len(sales) == 0 {
		sales = body.SalesHistory
	}
	prices := make([]decimal.Decimal, 0, len(sales))
	for _, s := range sales {
		if p, ok := salePrice(s); ok {
			prices = append(prices, p)
		}
	}
	return prices, nil
}

// salePrice prefers the last sold price and falls back to the listed price
// only when the former is absent.
func salePrice(s itemSale) (decimal.Decimal, bool) {
	switch {
	case s.LastSoldPrice != nil && s.LastSoldPrice.Value != nil:
		return aggregate.ParsePrice(s.LastSoldPrice.Value)
	case s.Price != nil:
		return aggregate.ParsePrice(s.Price.Value)
	}
	return decimal.Decimal{}, false
}
