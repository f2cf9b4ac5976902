// Package polymarket provides a client for the Polymarket data API
package polymarket

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

	"golang.org/x/time/rate"

	"github.com/bobmcallan/polyfolio/internal/common"
	"github.com/bobmcallan/polyfolio/internal/models"
)

const (
	DefaultBaseURL   = "https://data-api.polymarket.com"
	DefaultUserAgent = "Polyfolio/1.0"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second

	DefaultActivityLimit = 500
	DefaultMarketsLimit  = 100
	MaxLimit             = 1000
)

// Client implements interfaces.PolymarketClient
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a new data API client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewClientFromConfig builds a client from the [clients.polymarket] section
func NewClientFromConfig(cfg common.PolymarketConfig, logger *common.Logger) *Client {
	opts := []ClientOption{
		WithUserAgent(cfg.UserAgent),
		WithRateLimit(cfg.RateLimit),
		WithTimeout(cfg.GetTimeout()),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, WithBaseURL(cfg.BaseURL))
	}
	if logger != nil {
		opts = append(opts, WithLogger(logger))
	}
	return NewClient(opts...)
}

// APIError represents a non-200 response from the data API
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Polymarket API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// IsNotFound reports whether err is an upstream 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// get performs a rate-limited GET request and decodes the JSON body into
// result. Numbers are kept as json.Number.
func (c *Client) get(ctx context.Context, path string, params url.Values, result *any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Polymarket API request")

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    msg,
			Endpoint:   path,
		}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (c *Client) getList(ctx context.Context, path string, params url.Values) ([]models.Record, error) {
	var raw any
	if err := c.get(ctx, path, params, &raw); err != nil {
		return nil, err
	}
	return toRecords(raw), nil
}

func (c *Client) getRecord(ctx context.Context, path string) (models.Record, error) {
	var raw any
	if err := c.get(ctx, path, nil, &raw); err != nil {
		return nil, err
	}
	rec, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected response shape from %s: %T", path, raw)
	}
	return rec, nil
}

// toRecords accepts a JSON array of objects, an object wrapping one under
// "data", or a single object. Non-object elements are skipped.
func toRecords(raw any) []models.Record {
	switch v := raw.(type) {
	case []any:
		out := make([]models.Record, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case map[string]any:
		if inner, ok := v["data"].([]any); ok {
			return toRecords(inner)
		}
		return []models.Record{v}
	}
	return []models.Record{}
}

func userParams(user string) (url.Values, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return nil, fmt.Errorf("user address is required")
	}
	return url.Values{"user": {user}}, nil
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// GetActivity retrieves trade activity for a wallet
func (c *Client) GetActivity(ctx context.Context, user string, limit, offset int) ([]models.Record, error) {
	params, err := userParams(user)
	if err != nil {
		return nil, err
	}
	params.Set("limit", strconv.Itoa(clampLimit(limit, DefaultActivityLimit)))
	params.Set("offset", strconv.Itoa(max(offset, 0)))

	recs, err := c.getList(ctx, "/activity", params)
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return recs, nil
}

// GetPositions retrieves open positions for a wallet
func (c *Client) GetPositions(ctx context.Context, user string) ([]models.Record, error) {
	params, err := userParams(user)
	if err != nil {
		return nil, err
	}
	recs, err := c.getList(ctx, "/positions", params)
	if err != nil {
		return nil, fmt.Errorf("get positions: %w", err)
	}
	return recs, nil
}

// GetClosedPositions retrieves resolved or exited positions for a wallet
func (c *Client) GetClosedPositions(ctx context.Context, user string) ([]models.Record, error) {
	params, err := userParams(user)
	if err != nil {
		return nil, err
	}
	recs, err := c.getList(ctx, "/closed-positions", params)
	if err != nil {
		return nil, fmt.Errorf("get closed positions: %w", err)
	}
	return recs, nil
}

// GetValue retrieves the platform's valuation of a wallet's holdings
func (c *Client) GetValue(ctx context.Context, user string) ([]models.Record, error) {
	params, err := userParams(user)
	if err != nil {
		return nil, err
	}
	recs, err := c.getList(ctx, "/value", params)
	if err != nil {
		return nil, fmt.Errorf("get value: %w", err)
	}
	return recs, nil
}

// GetMarkets lists markets. A nil active leaves the filter off.
func (c *Client) GetMarkets(ctx context.Context, limit, offset int, active *bool) ([]models.Record, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(clampLimit(limit, DefaultMarketsLimit)))
	params.Set("offset", strconv.Itoa(max(offset, 0)))
	if active != nil {
		params.Set("active", strconv.FormatBool(*active))
	}

	recs, err := c.getList(ctx, "/markets", params)
	if err != nil {
		return nil, fmt.Errorf("get markets: %w", err)
	}
	return recs, nil
}

// GetMarket retrieves a single market
func (c *Client) GetMarket(ctx context.Context, marketID string) (models.Record, error) {
	if strings.TrimSpace(marketID) == "" {
		return nil, fmt.Errorf("market id is required")
	}
	rec, err := c.getRecord(ctx, "/markets/"+url.PathEscape(marketID))
	if err != nil {
		return nil, fmt.Errorf("get market %s: %w", marketID, err)
	}
	return rec, nil
}

// GetCondition retrieves a condition, falling back to the markets endpoint
// when the conditions endpoint fails.
func (c *Client) GetCondition(ctx context.Context, conditionID string) (models.Record, error) {
	if strings.TrimSpace(conditionID) == "" {
		return nil, fmt.Errorf("condition id is required")
	}

	rec, err := c.getRecord(ctx, "/conditions/"+url.PathEscape(conditionID))
	if err == nil {
		return rec, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	c.logger.Debug().
		Str("condition_id", conditionID).
		Err(err).
		Msg("Conditions endpoint failed, trying markets endpoint")

	return c.GetMarket(ctx, conditionID)
}
