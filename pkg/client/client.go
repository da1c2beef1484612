// Package client provides the fetch-decode-cache pipeline used to read the
// upstream education APIs: one GET per cache miss, content decoding, JSON
// parsing, shape validation and a bounded time-limited payload cache.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Sternrassler/edu-api-proxy/pkg/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultCacheCapacity is the maximum number of cached payloads.
	DefaultCacheCapacity = 100

	// DefaultCacheTTL is how long a cached payload is served.
	DefaultCacheTTL = time.Hour

	// DefaultTimeout bounds a single upstream request.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBodyBytes caps both the raw and the decompressed body size.
	DefaultMaxBodyBytes int64 = 16 << 20

	// DefaultUserAgent is a browser-like identity; some upstreams reject bare clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/138.0.0.0 Safari/537.36"
)

// Prometheus metrics for upstream fetches.
var (
	upstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "edu_upstream_requests_total",
		Help: "Total upstream GET requests by HTTP status",
	}, []string{"status"})

	upstreamRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "edu_upstream_request_duration_seconds",
		Help:    "Upstream GET duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	fetchResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "edu_fetch_results_total",
		Help: "Total successful fetches by source (cache, upstream)",
	}, []string{"source"})

	fetchFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "edu_fetch_failures_total",
		Help: "Total fetches that produced no data by failure kind",
	}, []string{"kind"})
)

// Client fetches and caches upstream JSON payloads.
type Client struct {
	httpClient *http.Client
	store      cache.Store
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// User-Agent header sent upstream
	UserAgent string

	// Per-request timeout
	Timeout time.Duration

	// Caching
	CacheCapacity int
	CacheTTL      time.Duration

	// Upper bound for raw and decompressed bodies
	MaxBodyBytes int64

	// Optional Redis client; when set, payloads are also shared through Redis
	Redis *redis.Client

	// Optional store overriding the built-in cache
	Store cache.Store

	// Optional HTTP client (for testing)
	HTTPClient *http.Client
}

// DefaultConfig returns the standard configuration. An empty userAgent
// selects DefaultUserAgent.
func DefaultConfig(userAgent string) Config {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return Config{
		UserAgent:     userAgent,
		Timeout:       DefaultTimeout,
		CacheCapacity: DefaultCacheCapacity,
		CacheTTL:      DefaultCacheTTL,
		MaxBodyBytes:  DefaultMaxBodyBytes,
	}
}

// New creates a new client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive (got %s)", cfg.Timeout)
	}

	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive (got %s)", cfg.CacheTTL)
	}

	if cfg.MaxBodyBytes <= 0 {
		return nil, fmt.Errorf("max body bytes must be positive (got %d)", cfg.MaxBodyBytes)
	}

	store := cfg.Store
	if store == nil {
		if cfg.CacheCapacity <= 0 {
			return nil, fmt.Errorf("cache capacity must be positive (got %d)", cfg.CacheCapacity)
		}
		memory := cache.NewMemoryStore(cfg.CacheCapacity, cfg.CacheTTL)
		store = memory
		if cfg.Redis != nil {
			store = cache.NewLayeredStore(memory, cache.NewRedisStore(cfg.Redis))
		}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		// Timeout is applied per request via context
		httpClient = &http.Client{}
	}

	return &Client{
		httpClient: httpClient,
		store:      store,
		config:     cfg,
		logger:     log.With().Str("component", "edu-client").Logger(),
	}, nil
}

// Fetch returns the payload for url with the given query params.
//
// The result is served from cache when a live entry exists; otherwise one GET
// is made and the response is decoded, parsed and validated. Any failure
// yields (nil, false): transport errors, corrupt encodings, malformed JSON and
// payloads without a truthy "data" field are indistinguishable to callers.
// Failures are logged and counted, never cached.
func (c *Client) Fetch(ctx context.Context, url string, params Params) (Payload, bool) {
	key := cache.Key{URL: url, Params: params}

	entry, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		c.logger.Info().
			Str("url", url).
			Interface("params", params).
			Dur("age", entry.Age()).
			Msg("Cache hit")
		fetchResultsTotal.WithLabelValues("cache").Inc()
		return Payload(entry.Data), true
	case !errors.Is(err, cache.ErrCacheMiss):
		c.logger.Warn().Err(err).Str("url", url).Msg("Cache get error")
	}

	c.logger.Info().
		Str("url", url).
		Interface("params", params).
		Msg("Fetching from upstream")

	payload, err := c.load(ctx, url, params)
	if err != nil {
		c.logFailure(url, params, err)
		return nil, false
	}

	if err := c.store.Set(ctx, key, cache.NewEntry(payload, c.config.CacheTTL)); err != nil {
		c.logger.Warn().Err(err).Str("url", url).Msg("Failed to cache payload")
	}

	c.logger.Info().
		Str("url", url).
		Interface("params", params).
		Msg("Fetched upstream payload")
	fetchResultsTotal.WithLabelValues("upstream").Inc()

	return payload, true
}

// load runs the uncached pipeline stages for one request.
func (c *Client) load(ctx context.Context, url string, params Params) (Payload, error) {
	resp, err := c.request(ctx, url, params)
	if err != nil {
		return nil, err
	}

	body, err := decodeBody(resp.body, resp.contentEncoding, c.config.MaxBodyBytes)
	if err != nil {
		return nil, newFetchError(ErrorKindDecode, url, err)
	}

	if !isJSONContentType(resp.contentType) {
		if body, err = decodeText(body); err != nil {
			return nil, newFetchError(ErrorKindDecode, url, err)
		}
	}

	value, err := parseJSON(body)
	if err != nil {
		return nil, newFetchError(ErrorKindParse, url, err)
	}

	payload, err := validateShape(value)
	if err != nil {
		return nil, newFetchError(ErrorKindShape, url, err)
	}

	return payload, nil
}

// logFailure records a failed fetch. Shape failures are expected for empty
// result sets and are logged at a lower level.
func (c *Client) logFailure(url string, params Params, err error) {
	kind := kindOf(err)
	fetchFailuresTotal.WithLabelValues(string(kind)).Inc()

	event := c.logger.Error()
	if kind == ErrorKindShape {
		event = c.logger.Warn()
	}
	event.Err(err).
		Str("url", url).
		Interface("params", params).
		Str("kind", string(kind)).
		Msg("Fetch produced no data")
}

// CacheLen returns the number of cached payloads, or -1 when the store
// cannot report it.
func (c *Client) CacheLen() int {
	if counter, ok := c.store.(cache.Counter); ok {
		return counter.Len()
	}
	return -1
}

// Ping checks the shared cache tier. It returns nil when no shared tier is
// configured.
func (c *Client) Ping(ctx context.Context) error {
	pinger, ok := c.store.(interface{ Ping(context.Context) error })
	if !ok {
		return nil
	}
	return pinger.Ping(ctx)
}

// Config returns the client's configuration.
func (c *Client) Config() Config {
	return c.config
}
