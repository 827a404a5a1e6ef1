// Package bridgeswap implements a typed HTTP client for the bridgeswap API,
// used by the CLI commands.
//
// Coverage: token catalog, quotes, tracker lookups, 24h stats.
//
// Notes:
// - Errors come back as {"error": "..."} and are surfaced as *APIError
// - A tracker miss is a 404 with a normal body and is not an error
package bridgeswap

import (
	"bytes"
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

	quoteHD "github.com/MMN3003/bridgeswap/src/quote/delivery/http"
	statsHD "github.com/MMN3003/bridgeswap/src/stats/delivery/http"
	tokenHD "github.com/MMN3003/bridgeswap/src/token/delivery/http"
	transactionHD "github.com/MMN3003/bridgeswap/src/transaction/delivery/http"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Default HTTP timeouts tuned for interactive usage
var (
	DefaultHTTPClient = &http.Client{Timeout: 15 * time.Second}
)

type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// NewClient constructs a new API client. base should be like "http://localhost:8080".
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
		UserAgent: "bridgeswap-cli/1.0",
		Logger:    log.Logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Option functional options
type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.HTTP = h } }
func WithUserAgent(ua string) Option       { return func(c *Client) { c.UserAgent = ua } }
func WithLogger(l zerolog.Logger) Option   { return func(c *Client) { c.Logger = l } }

type Client struct {
	BaseURL   *url.URL
	HTTP      *http.Client
	UserAgent string
	Logger    zerolog.Logger
}

// ---------- ENDPOINTS ----------

func (c *Client) ListTokens(ctx context.Context) ([]tokenHD.TokenResponse, error) {
	var out tokenHD.ListTokensResponse
	if _, err := c.do(ctx, http.MethodGet, "/tokens", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Tokens, nil
}

func (c *Client) CreateQuote(ctx context.Context, req quoteHD.CreateQuoteRequestBody) (*quoteHD.QuoteResponse, error) {
	var out quoteHD.QuoteResponse
	if _, err := c.do(ctx, http.MethodPost, "/quotes", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Track looks a tracker id up. A miss returns a response with state
// not_found and a nil error.
func (c *Client) Track(ctx context.Context, trackerID string) (*transactionHD.TrackResponse, error) {
	var out transactionHD.TrackResponse
	status, err := c.do(ctx, http.MethodGet, "/track/"+url.PathEscape(trackerID), nil, nil, &out)
	if err != nil && status != http.StatusNotFound {
		return nil, err
	}
	if out.State == "" {
		out.State = "not_found"
	}
	return &out, nil
}

func (c *Client) Progress(ctx context.Context, id string) (*transactionHD.ProgressResponse, error) {
	var out transactionHD.ProgressResponse
	if _, err := c.do(ctx, http.MethodGet, "/transactions/"+url.PathEscape(id)+"/progress", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Stats(ctx context.Context) (*statsHD.StatsResponse, error) {
	var out statsHD.StatsResponse
	if _, err := c.do(ctx, http.MethodGet, "/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---------- TRANSPORT ----------

// do decodes the body into out whenever it is JSON, even on error statuses,
// and returns the status code alongside any error.
func (c *Client) do(
	ctx context.Context,
	method, p string,
	q url.Values,
	body any,
	out any,
) (int, error) {
	u := *c.BaseURL
	u.Path = path.Join(u.Path, p)
	if q != nil {
		u.RawQuery = q.Encode()
	}

	var rdr io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal body: %w", err)
		}
		rdr = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return 0, fmt.Errorf("new request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read body: %w", err)
	}

	c.Logger.Debug().
		Str("method", method).
		Str("url", u.String()).
		Int("status", resp.StatusCode).
		Str("duration", time.Since(start).String()).
		Msg("http response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if out != nil {
			_ = json.Unmarshal(b, out)
		}
		var env struct {
			Error string `json:"error"`
		}
		msg := string(truncate(b, 512))
		if json.Unmarshal(b, &env) == nil && env.Error != "" {
			msg = env.Error
		}
		return resp.StatusCode, &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(b) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return resp.StatusCode, fmt.Errorf("unmarshal result: %w", err)
	}
	return resp.StatusCode, nil
}

func truncate(b []byte, max int) []byte {
	if len(b) > max {
		return b[:max]
	}
	return b
}
