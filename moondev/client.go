// Package moondev is a thin client for the Moon Dev market data API. Every
// method maps to one documented GET endpoint and returns the JSON body
// untouched; payload schemas are owned by the service, not by this package.
package moondev

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"moonflow/config"
	"moonflow/logger"
)

const (
	apiKeyEnvVar          = "MOONDEV_API_KEY"
	defaultTimeout        = 30 * time.Second
	defaultHyperliquidURL = "https://api.hyperliquid.xyz/info"
	userAgent             = "moonflow"
)

// Client issues authenticated GET requests against the data API. Calls are
// independent; the client keeps no session state beyond the transport's
// connection pool.
type Client struct {
	baseURL        string
	apiKey         string
	keyInQuery     bool
	hyperliquidURL string
	httpClient     *http.Client
	limiter        *rate.Limiter
	log            *logger.Log
}

// Option configures a Client.
type Option func(*Client)

// New creates a client. The API key comes from WithAPIKey or, when absent,
// from the MOONDEV_API_KEY environment variable; without a key construction
// fails with a *ConfigurationError.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:        config.DefaultBaseURL,
		hyperliquidURL: defaultHyperliquidURL,
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: userAgentTransport{agent: userAgent, base: http.DefaultTransport},
		},
		log: logger.GetLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.apiKey == "" {
		c.apiKey = strings.TrimSpace(os.Getenv(apiKeyEnvVar))
	}
	if c.apiKey == "" {
		return nil, &ConfigurationError{Reason: "no API key provided and " + apiKeyEnvVar + " is not set"}
	}

	return c, nil
}

// FromConfig builds a client from the application configuration, wiring the
// base URL, key placement, timeout and the optional throttle.
func FromConfig(cfg config.APIConfig) (*Client, error) {
	opts := []Option{
		WithBaseURL(cfg.BaseURL),
		WithTimeout(cfg.Timeout),
	}
	if cfg.Key != "" {
		opts = append(opts, WithAPIKey(cfg.Key))
	}
	if cfg.KeyInQuery {
		opts = append(opts, WithKeyInQuery())
	}
	if cfg.HyperliquidURL != "" {
		opts = append(opts, WithHyperliquidURL(cfg.HyperliquidURL))
	}
	if cfg.RateLimit.Enabled {
		opts = append(opts, WithThrottle(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst))
	}
	return New(opts...)
}

// WithAPIKey sets the API key explicitly.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// WithBaseURL overrides the fixed production host, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTimeout sets the per-request timeout, the only cancellation knob
// besides the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithKeyInQuery attaches the key as the api_key query parameter instead of
// the X-API-Key header.
func WithKeyInQuery() Option {
	return func(c *Client) {
		c.keyInQuery = true
	}
}

// WithHyperliquidURL overrides the Hyperliquid info endpoint used for the
// direct clearinghouse lookup.
func WithHyperliquidURL(u string) Option {
	return func(c *Client) {
		c.hyperliquidURL = u
	}
}

// WithThrottle enables proactive client-side pacing below the documented
// 3600 requests/minute service cap. Off by default: without it the client is
// purely reactive and 429 responses surface as *RateLimitError.
func WithThrottle(requestsPerMinute, burst int) Option {
	return func(c *Client) {
		if requestsPerMinute <= 0 {
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst)
	}
}

// Health checks service availability. The only endpoint that needs no key.
func (c *Client) Health(ctx context.Context) (Document, error) {
	return c.get(ctx, "/health", nil, false)
}

// userAgentTransport stamps every outgoing request with the client's
// User-Agent.
type userAgentTransport struct {
	agent string
	base  http.RoundTripper
}

func (t userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.agent)
	return t.base.RoundTrip(req)
}
