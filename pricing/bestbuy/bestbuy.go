// Package bestbuy queries the Best Buy Products API for sale prices.
package bestbuy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"catalog-pricer/pricing"
)

var (
	// ErrMissingAPIKey is returned by New when no credential is given.
	ErrMissingAPIKey = errors.New("bestbuy: API key is required")
	// ErrUnexpectedStatusCode indicates a non-2xx response.
	ErrUnexpectedStatusCode = errors.New("bestbuy: unexpected status code")
	// ErrEmptyKeyword is returned when the search keyword has no terms.
	ErrEmptyKeyword = errors.New("bestbuy: empty search keyword")
)

const maxBodyBytes = 4 << 20

// Client is a pricing.Provider backed by the Best Buy Products API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	pageSize   int
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL points the client at another API root, e.g. a test server.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithPageSize sets how many products a search returns.
func WithPageSize(n int) Option {
	return func(c *Client) { c.pageSize = n }
}

// New creates a Client. timeout bounds every request.
func New(apiKey string, timeout time.Duration, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://api.bestbuy.com/v1",
		apiKey:     apiKey,
		pageSize:   10,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type productsResponse struct {
	Products []product `json:"products"`
}

type product struct {
	SKU       json.RawMessage `json:"sku"`
	Name      string          `json:"name"`
	SalePrice json.RawMessage `json:"salePrice"`
}

// Search returns the products matching keyword.
func (c *Client) Search(ctx context.Context, keyword string) ([]pricing.Item, error) {
	endpoint, err := c.searchURL(keyword)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("bestbuy: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "catalog-pricer/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bestbuy: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	var payload productsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("bestbuy: decode response: %w", err)
	}

	items := make([]pricing.Item, 0, len(payload.Products))
	for _, p := range payload.Products {
		items = append(items, pricing.Item{
			SKU:       strings.Trim(string(p.SKU), `"`),
			Name:      p.Name,
			SalePrice: parseSalePrice(p.SalePrice),
		})
	}
	return items, nil
}

// searchURL builds {base}/products((search=a&search=b))?format=json&...
// Terms without a letter or digit are dropped and the rest are query-escaped,
// so "&", "=" and parentheses never reach the filter syntax.
func (c *Client) searchURL(keyword string) (string, error) {
	var parts []string
	for _, t := range strings.Fields(keyword) {
		if !strings.ContainsFunc(t, isWordRune) {
			continue
		}
		parts = append(parts, "search="+url.QueryEscape(t))
	}
	if len(parts) == 0 {
		return "", ErrEmptyKeyword
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("apiKey", c.apiKey)
	q.Set("show", "sku,name,salePrice")
	q.Set("pageSize", strconv.Itoa(c.pageSize))

	return fmt.Sprintf("%s/products((%s))?%s", c.baseURL, strings.Join(parts, "&"), q.Encode()), nil
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// parseSalePrice accepts a JSON number only; null, strings and other shapes
// are treated as no price.
func parseSalePrice(raw json.RawMessage) *float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}
