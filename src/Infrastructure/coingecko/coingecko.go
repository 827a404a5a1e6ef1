// Package coingecko implements a small typed HTTP client for the CoinGecko
// public REST API.
//
// Coverage: simple price lookups (/simple/price).
//
// Notes:
// - Responses are a bare map of coin id -> {currency: price}, no envelope
// - An optional demo API key is sent as x-cg-demo-api-key
// - Every request carries Accept: application/json
package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Default HTTP timeouts tuned for server-side usage
var (
	DefaultHTTPClient = &http.Client{Timeout: 30 * time.Second}
)

var ErrPriceMissing = errors.New("price missing from response")

// NewClient constructs a new API client. base should be like "https://api.coingecko.com/api/v3".
func NewClient(baseUrl string, opts ...Option) (*Client, error) {
	if baseUrl == "" {
		return nil, errors.New("base url is required")
	}

	u, err := url.Parse(strings.TrimRight(baseUrl, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	c := &Client{
		BaseURL:   u,
		HTTP:      DefaultHTTPClient,
		UserAgent: "bridgeswap/1.0",
		Logger:    log.Logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Option functional options
type Option func(*Client)

func WithAPIKey(key string) Option         { return func(c *Client) { c.APIKey = key } }
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.HTTP = h } }
func WithUserAgent(ua string) Option       { return func(c *Client) { c.UserAgent = ua } }
func WithLogger(l zerolog.Logger) Option   { return func(c *Client) { c.Logger = l } }

type Client struct {
	BaseURL   *url.URL
	HTTP      *http.Client
	APIKey    string
	UserAgent string
	Logger    zerolog.Logger
}

// SimplePrice maps coin id -> vs currency -> price.
type SimplePrice map[string]map[string]float64

// GetSimplePrice fetches prices for the given coin ids in one vs currency.
func (c *Client) GetSimplePrice(ctx context.Context, ids []string, vsCurrency string) (SimplePrice, error) {
	if len(ids) == 0 {
		return nil, errors.New("at least one coin id is required")
	}
	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", vsCurrency)

	return doJSON[SimplePrice](c, ctx, http.MethodGet, "/simple/price", query)
}

// USDPrice returns the USD price of a single coin id.
func (c *Client) USDPrice(ctx context.Context, coinID string) (float64, error) {
	prices, err := c.GetSimplePrice(ctx, []string{coinID}, "usd")
	if err != nil {
		return 0, err
	}
	quote, ok := prices[coinID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrPriceMissing, coinID)
	}
	usd, ok := quote["usd"]
	if !ok {
		return 0, fmt.Errorf("%w: %s has no usd quote", ErrPriceMissing, coinID)
	}
	return usd, nil
}

func (c *Client) do(
	ctx context.Context,
	method, p string,
	q url.Values,
	out any,
) error {
	u := *c.BaseURL
	u.Path = path.Join(u.Path, p)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.APIKey)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	c.Logger.Debug().
		Str("method", method).
		Str("url", u.String()).
		Int("status", resp.StatusCode).
		Str("duration", time.Since(start).String()).
		Msg("http response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("http error %d: %s", resp.StatusCode, string(truncate(b, 512)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}
	return nil
}

func doJSON[T any](
	c *Client,
	ctx context.Context,
	method, path string,
	query url.Values,
) (T, error) {
	var out T
	err := c.do(ctx, method, path, query, &out)
	return out, err
}

func truncate(b []byte, max int) []byte {
	if len(b) > max {
		return b[:max]
	}
	return b
}
