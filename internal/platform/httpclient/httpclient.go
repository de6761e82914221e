// Package httpclient provides the HTTP client shared by the passive sources,
// with retry, rate limiting, bounded reads and timeout support.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"subhound/internal/platform/errors"
	"subhound/internal/platform/logx"
)

// DefaultUserAgent is sent when Config.UserAgent is empty. Some providers
// (crt.sh in particular) throttle requests without a browser-like agent.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Client is an HTTP client with retry logic, rate limiting, and timeout support.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      logx.Logger
	config      Config
}

// Config holds the configuration for the HTTP client.
type Config struct {
	// Timeout is the per-attempt request timeout.
	// Default: 30 seconds
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts.
	// Default: 0 (single attempt)
	MaxRetries int

	// RetryBackoff is the initial backoff duration for retries.
	// Backoff increases exponentially with each retry.
	// Default: 1 second
	RetryBackoff time.Duration

	// MaxRetryBackoff is the maximum backoff duration between retries.
	// Default: 10 seconds
	MaxRetryBackoff time.Duration

	// UserAgent is the User-Agent header value.
	// Default: DefaultUserAgent
	UserAgent string

	// RateLimit is the maximum requests per second.
	// 0 means no rate limiting.
	RateLimit float64

	// RateLimitBurst is the burst size for rate limiting.
	// Default: 1
	RateLimitBurst int

	// MaxBodyBytes caps how much of a response body is read.
	// Default: 64 MiB
	MaxBodyBytes int64

	// Transport overrides the underlying round tripper (proxies, tests).
	Transport http.RoundTripper
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		MaxRetries:      0,
		RetryBackoff:    1 * time.Second,
		MaxRetryBackoff: 10 * time.Second,
		UserAgent:       DefaultUserAgent,
		RateLimit:       0,
		RateLimitBurst:  1,
		MaxBodyBytes:    64 << 20,
	}
}

// New creates a new HTTP client with the given configuration.
func New(config Config, logger logx.Logger) *Client {
	// Apply defaults for zero values
	def := DefaultConfig()
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.RetryBackoff <= 0 {
		config.RetryBackoff = def.RetryBackoff
	}
	if config.MaxRetryBackoff <= 0 {
		config.MaxRetryBackoff = def.MaxRetryBackoff
	}
	if config.UserAgent == "" {
		config.UserAgent = def.UserAgent
	}
	if config.RateLimitBurst <= 0 {
		config.RateLimitBurst = def.RateLimitBurst
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = def.MaxBodyBytes
	}

	httpClient := &http.Client{
		Timeout:   config.Timeout,
		Transport: config.Transport,
	}

	var rateLimiter *rate.Limiter
	if config.RateLimit > 0 {
		rateLimiter = rate.NewLimiter(rate.Limit(config.RateLimit), config.RateLimitBurst)
	}

	return &Client{
		httpClient:  httpClient,
		rateLimiter: rateLimiter,
		logger:      logger.With("component", "httpclient"),
		config:      config,
	}
}

// Get performs a GET request with retry logic and rate limiting.
// The caller owns the returned body.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if c.rateLimiter != nil {
			if err := c.rateLimiter.Wait(ctx); err != nil {
				return nil, errors.Classify(err)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInternal, "failed to create request for %s: %v", url, err)
		}

		req.Header.Set("User-Agent", c.config.UserAgent)
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		c.logger.Debug("HTTP request",
			"url", url,
			"attempt", attempt+1,
			"max_attempts", c.config.MaxRetries+1,
		)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		duration := time.Since(start)

		if err != nil {
			c.logger.Debug("HTTP request failed",
				"url", url,
				"attempt", attempt+1,
				"error", err.Error(),
				"duration_ms", duration.Milliseconds(),
			)
			lastErr = err

			if !c.shouldRetry(ctx, attempt, err, nil) {
				return nil, errors.Classify(err)
			}
			if err := c.backoff(ctx, attempt); err != nil {
				return nil, errors.Classify(err)
			}
			continue
		}

		c.logger.Debug("HTTP response received",
			"url", url,
			"status", resp.StatusCode,
			"duration_ms", duration.Milliseconds(),
		)

		if !c.shouldRetry(ctx, attempt, nil, resp) {
			return resp, nil
		}

		resp.Body.Close()
		lastErr = CheckStatus(resp)

		if err := c.backoff(ctx, attempt); err != nil {
			return nil, errors.Classify(err)
		}
	}

	return nil, errors.Classify(lastErr)
}

// isRetryableStatus checks if an HTTP status code should trigger a retry.
func isRetryableStatus(resp *http.Response) bool {
	if resp == nil {
		return false
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusBadGateway:
		return true
	default:
		return false
	}
}

// shouldRetry determines if a request should be retried based on the attempt
// number, error, and response status code.
func (c *Client) shouldRetry(ctx context.Context, attempt int, err error, resp *http.Response) bool {
	if attempt >= c.config.MaxRetries || ctx.Err() != nil {
		return false
	}
	if err != nil {
		return true
	}
	return isRetryableStatus(resp)
}

// backoff implements exponential backoff.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	backoff := c.config.RetryBackoff * time.Duration(math.Pow(2, float64(attempt)))
	if backoff > c.config.MaxRetryBackoff {
		backoff = c.config.MaxRetryBackoff
	}

	c.logger.Debug("Backing off before retry",
		"attempt", attempt+1,
		"backoff_ms", backoff.Milliseconds(),
	)

	timer := time.NewTimer(backoff)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SetRateLimit updates the rate limit dynamically.
func (c *Client) SetRateLimit(rps float64, burst int) {
	if rps <= 0 {
		c.rateLimiter = nil
		return
	}
	if burst <= 0 {
		burst = 1
	}

	if c.rateLimiter == nil {
		c.rateLimiter = rate.NewLimiter(rate.Limit(rps), burst)
	} else {
		c.rateLimiter.SetLimit(rate.Limit(rps))
		c.rateLimiter.SetBurst(burst)
	}
	c.config.RateLimit = rps
	c.config.RateLimitBurst = burst
}

// CheckStatus validates the HTTP status code and returns an error if it's not successful.
func CheckStatus(resp *http.Response) error {
	if resp == nil {
		return errors.Wrap(errors.ErrInvalidResponse, "response is nil")
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return errors.Wrapf(errors.ErrRateLimit, "HTTP %d", resp.StatusCode)
	case http.StatusNotFound:
		return errors.Wrapf(errors.ErrNotFound, "HTTP %d", resp.StatusCode)
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.Wrapf(errors.ErrUnauthorized, "HTTP %d", resp.StatusCode)
	default:
		return errors.Wrapf(errors.ErrServiceUnavailable, "HTTP %d", resp.StatusCode)
	}
}

// ReadBody reads at most limit bytes of the response body and closes it.
func ReadBody(resp *http.Response, limit int64) ([]byte, error) {
	if resp == nil {
		return nil, errors.Wrap(errors.ErrInvalidResponse, "response is nil")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, errors.Classify(err)
	}
	return body, nil
}

// Fetch performs a GET request and returns the body of a 2xx response.
// Any other status is mapped onto the errors sentinels.
func (c *Client) Fetch(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	resp, err := c.Get(ctx, url, headers)
	if err != nil {
		return nil, err
	}

	if err := CheckStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return ReadBody(resp, c.config.MaxBodyBytes)
}

// FetchJSON is Fetch with an Accept: application/json header.
func (c *Client) FetchJSON(ctx context.Context, url string) ([]byte, error) {
	return c.Fetch(ctx, url, map[string]string{"Accept": "application/json"})
}

// String returns a human-readable representation of the client configuration.
func (c *Client) String() string {
	return fmt.Sprintf("HTTPClient{timeout=%s, max_retries=%d, rate_limit=%.1f/s}",
		c.config.Timeout,
		c.config.MaxRetries,
		c.config.RateLimit,
	)
}
