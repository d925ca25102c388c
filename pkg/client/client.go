// Package client provides the core Canvas HTTP client with rate limiting,
// caching, and pagination. Every outbound API call passes through it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/canvastools/canvas-lms-client/pkg/cache"
	"github.com/canvastools/canvas-lms-client/pkg/pagination"
	"github.com/canvastools/canvas-lms-client/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for Canvas client operations.
var (
	canvasRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "canvas_requests_total",
		Help: "Total Canvas requests by endpoint and status",
	}, []string{"endpoint", "status"})

	canvasRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "canvas_request_duration_seconds",
		Help:    "Canvas request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	canvasPagesPerFetch = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "canvas_pages_per_fetch",
		Help:    "Pages traversed per collection fetch",
		Buckets: []float64{1, 2, 3, 5, 10, 20, 50},
	})
)

// Config holds the client configuration.
type Config struct {
	// BaseURL is the Canvas instance root, e.g. "https://school.instructure.com".
	BaseURL string

	// Token is the Canvas API access token, sent as a Bearer credential.
	Token string

	// APIPrefix is the versioned path prefix prepended to every endpoint.
	APIPrefix string

	// PageSize is the per_page value appended to collection requests that
	// do not set one.
	PageSize int

	// MaxWait is the ceiling for waiting on a rate-limit token. A call
	// that cannot acquire a token within MaxWait fails.
	MaxWait time.Duration

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// Rate limiting: burst capacity and sustained tokens per second.
	MaxTokens  float64
	RefillRate float64
}

// DefaultConfig returns a safe default configuration for a Canvas instance.
func DefaultConfig(baseURL, token string) Config {
	return Config{
		BaseURL:    baseURL,
		Token:      token,
		APIPrefix:  "/api/v1",
		PageSize:   100,
		MaxWait:    30 * time.Second,
		Timeout:    30 * time.Second,
		MaxTokens:  ratelimit.DefaultMaxTokens,
		RefillRate: ratelimit.DefaultRefillRate,
	}
}

// Client is the request orchestrator: it composes the rate limiter, the
// response cache and the pagination walker around authenticated HTTP calls.
type Client struct {
	httpClient *http.Client
	limiter    *ratelimit.Bucket
	cache      *cache.Store
	config     Config
	logger     zerolog.Logger
}

// Option customizes a Client at construction time.
type Option func(*Client)

// WithLimiter injects a shared rate limit bucket.
func WithLimiter(b *ratelimit.Bucket) Option {
	return func(c *Client) { c.limiter = b }
}

// WithCache injects a shared response cache.
func WithCache(s *cache.Store) Option {
	return func(c *Client) { c.cache = s }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// New creates a new Canvas client. A missing base URL or token is a
// configuration error, fatal here rather than on the first call.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("api token is required")
	}

	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = 30 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	for len(cfg.BaseURL) > 0 && cfg.BaseURL[len(cfg.BaseURL)-1] == '/' {
		cfg.BaseURL = cfg.BaseURL[:len(cfg.BaseURL)-1]
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		logger:     log.With().Str("component", "canvas-client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.limiter == nil {
		c.limiter = ratelimit.NewBucket(cfg.MaxTokens, cfg.RefillRate)
	}
	if c.cache == nil {
		c.cache = cache.NewStore(nil)
	}

	return c, nil
}

// buildURL joins base URL, API prefix, endpoint path and query parameters.
func (c *Client) buildURL(path string, params url.Values) string {
	u := c.config.BaseURL + c.config.APIPrefix + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// withPageSize returns a copy of params with the default per_page applied
// when the caller did not set one.
func (c *Client) withPageSize(params url.Values) url.Values {
	out := url.Values{}
	for name, values := range params {
		out[name] = values
	}
	if out.Get("per_page") == "" {
		out.Set("per_page", strconv.Itoa(c.config.PageSize))
	}
	return out
}

// do performs one rate-limited, authenticated HTTP request. It returns the
// response body and the parsed pagination links. Non-2xx responses become
// an *APIError carrying status code and upstream error body.
func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader) ([]byte, pagination.Links, error) {
	endpoint := endpointLabel(rawURL)
	op := method + " " + endpoint

	start := time.Now()
	defer func() {
		canvasRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	// Every request consumes exactly one token; pagination gets no bulk
	// exemption.
	if !c.limiter.Acquire(ctx, c.config.MaxWait) {
		canvasRequestsTotal.WithLabelValues(endpoint, "rate_limited").Inc()
		c.logger.Warn().Str("endpoint", endpoint).Msg("Request blocked by rate limiter")
		return nil, pagination.Links{}, fmt.Errorf("%s: %w after %s", op, ErrRateLimited, c.config.MaxWait)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, pagination.Links{}, fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", method).
		Msg("Executing Canvas request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		canvasRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, pagination.Links{}, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pagination.Links{}, fmt.Errorf("%s: read response body: %w", op, err)
	}

	canvasRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			Msg("Canvas request error")
		return nil, pagination.Links{}, &APIError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       string(bytes.TrimSpace(data)),
		}
	}

	return data, pagination.Parse(resp.Header.Get("Link")), nil
}

// GetObject fetches a single resource, consulting the cache under cacheKey
// first. An empty cacheKey disables caching. The response is decoded into
// out when out is non-nil.
func (c *Client) GetObject(ctx context.Context, path string, params url.Values, cacheKey string, out any) error {
	if cacheKey != "" {
		if raw, ok := cache.GetTyped[[]byte](c.cache, cacheKey); ok {
			c.logger.Debug().Str("key", cacheKey).Bool("cache_hit", true).Msg("Serving from cache")
			return decode(raw, out)
		}
	}

	data, _, err := c.do(ctx, http.MethodGet, c.buildURL(path, params), nil)
	if err != nil {
		return err
	}

	if cacheKey != "" {
		c.cache.Set(cacheKey, data, 0)
	}
	return decode(data, out)
}

// GetCollection fetches every page of a collection endpoint, following next
// relations until none remain, and caches the accumulated result under
// cacheKey. An empty cacheKey disables caching.
func (c *Client) GetCollection(ctx context.Context, path string, params url.Values, cacheKey string) ([]json.RawMessage, error) {
	if cacheKey != "" {
		if items, ok := cache.GetTyped[[]json.RawMessage](c.cache, cacheKey); ok {
			c.logger.Debug().Str("key", cacheKey).Bool("cache_hit", true).Msg("Serving collection from cache")
			return items, nil
		}
	}

	items, err := c.walk(ctx, c.buildURL(path, c.withPageSize(params)))
	if err != nil {
		return nil, err
	}

	if cacheKey != "" {
		c.cache.Set(cacheKey, items, 0)
	}
	return items, nil
}

// GetCollectionUncached fetches every page without touching the cache.
// Intended for search-style queries whose results should not be reused.
func (c *Client) GetCollectionUncached(ctx context.Context, path string, params url.Values) ([]json.RawMessage, error) {
	return c.walk(ctx, c.buildURL(path, c.withPageSize(params)))
}

// walk drives the pager until no next relation remains, accumulating the
// elements of each page in server-supplied order.
func (c *Client) walk(ctx context.Context, startURL string) ([]json.RawMessage, error) {
	pager := pagination.NewPager(startURL, func(ctx context.Context, pageURL string) (pagination.Page, error) {
		data, links, err := c.do(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return pagination.Page{}, err
		}
		return pagination.Page{Body: data, Links: links}, nil
	})

	var items []json.RawMessage
	pages := 0
	for {
		page, ok, err := pager.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		pages++

		var batch []json.RawMessage
		if err := json.Unmarshal(page.Body, &batch); err != nil {
			return nil, fmt.Errorf("decode page %d: %w", pages, err)
		}
		items = append(items, batch...)
	}

	canvasPagesPerFetch.Observe(float64(pages))
	c.logger.Debug().Int("pages", pages).Int("items", len(items)).Msg("Collection fetch complete")
	return items, nil
}

// Post issues a mutating POST. The cache is bypassed on the way in; on
// success every cached key matching invalidate is dropped so subsequent
// reads re-fetch. The response is decoded into out when out is non-nil.
func (c *Client) Post(ctx context.Context, path string, payload any, invalidate string, out any) error {
	return c.mutate(ctx, http.MethodPost, path, payload, invalidate, out)
}

// Put issues a mutating PUT; see Post for cache semantics.
func (c *Client) Put(ctx context.Context, path string, payload any, invalidate string, out any) error {
	return c.mutate(ctx, http.MethodPut, path, payload, invalidate, out)
}

// Delete issues a DELETE; see Post for cache semantics.
func (c *Client) Delete(ctx context.Context, path string, invalidate string, out any) error {
	return c.mutate(ctx, http.MethodDelete, path, nil, invalidate, out)
}

func (c *Client) mutate(ctx context.Context, method, path string, payload any, invalidate string, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%s %s: encode payload: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	data, _, err := c.do(ctx, method, c.buildURL(path, nil), body)
	if err != nil {
		return err
	}

	if invalidate != "" {
		removed := c.cache.Invalidate(invalidate)
		c.logger.Debug().
			Str("pattern", invalidate).
			Int("removed", removed).
			Msg("Invalidated cache after mutation")
	}

	return decode(data, out)
}

// GetRaw performs a single uncached GET and returns the raw body.
func (c *Client) GetRaw(ctx context.Context, path string, params url.Values) ([]byte, error) {
	data, _, err := c.do(ctx, http.MethodGet, c.buildURL(path, params), nil)
	return data, err
}

// ClearCache removes all cached responses.
func (c *Client) ClearCache() {
	c.cache.Clear()
}

// CacheStats sweeps expired entries and reports the live key set.
func (c *Client) CacheStats() cache.Stats {
	return c.cache.Stats()
}

// decode unmarshals data into out, tolerating a nil out and empty bodies.
func decode(data []byte, out any) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// endpointLabel bounds metric cardinality to the URL path.
func endpointLabel(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		return u.Path
	}
	return rawURL
}
