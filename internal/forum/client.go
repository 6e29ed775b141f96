package forum

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/harborweb/discontent/internal/core/domain"
	"github.com/harborweb/discontent/internal/core/ports/driven"
	"github.com/harborweb/discontent/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxRetries is the maximum number of retries for transient errors.
	MaxRetries = 3

	// RetryDelay is the initial delay between retries.
	RetryDelay = time.Second

	// ProactiveRate is the proactive throttle rate in requests per
	// second, kept below typical forum API limits.
	ProactiveRate = 2.0
)

// Ensure Client implements the interface.
var _ driven.ForumAPI = (*Client)(nil)

// Client talks to a forum installation through its JSON API.
type Client struct {
	baseURL     string
	apiKey      string
	apiUsername string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxRetries  int
}

// Option configures a Client.
type Option func(*Client)

// WithCredentials sets the API key and username pair used for
// protected categories and topics.
func WithCredentials(apiKey, apiUsername string) Option {
	return func(c *Client) {
		c.apiKey = apiKey
		c.apiUsername = apiUsername
	}
}

// WithHTTPClient replaces the underlying HTTP client. Useful for
// testing against a local server.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRateLimit overrides the proactive throttle rate.
func WithRateLimit(requestsPerSecond float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
}

// WithMaxRetries overrides how many times transient errors are retried.
func WithMaxRetries(retries int) Option {
	return func(c *Client) {
		c.maxRetries = retries
	}
}

// New creates a forum API client. Credentials must come as a pair:
// an API key without a username (or the reverse) is a configuration
// error, reported before any request is made.
func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    trimBaseURL(baseURL),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(ProactiveRate), 1),
		maxRetries: MaxRetries,
	}
	for _, opt := range opts {
		opt(c)
	}

	if (c.apiKey == "") != (c.apiUsername == "") {
		return nil, fmt.Errorf("api key and api username must be configured together: %w", domain.ErrAuthRequired)
	}
	return c, nil
}

func trimBaseURL(baseURL string) string {
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	return baseURL
}

// getJSON performs a GET against an API path and decodes the response,
// retrying transient failures with exponential backoff.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := RetryDelay << (attempt - 1)
			logger.Debug("retrying %s in %s (attempt %d/%d)", path, delay, attempt, c.maxRetries)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}

		retryable, err := c.doRequest(ctx, path, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
	}
	return lastErr
}

// doRequest performs one request. The bool reports whether the failure
// is worth retrying.
func (c *Client) doRequest(ctx context.Context, path string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Api-Key", c.apiKey)
		req.Header.Set("Api-Username", c.apiUsername)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, fmt.Errorf("get %s: %v: %w", path, err, domain.ErrUpstreamFetch)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, fmt.Errorf("decode %s: %v: %w", path, err, domain.ErrUpstreamFetch)
		}
		return false, nil

	case resp.StatusCode == http.StatusNotFound:
		return false, fmt.Errorf("get %s: %w", path, domain.ErrNotFound)

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return false, fmt.Errorf("get %s: status %d: %w", path, resp.StatusCode, domain.ErrAuthRequired)

	case resp.StatusCode == http.StatusTooManyRequests:
		if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && seconds > 0 {
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(time.Duration(seconds) * time.Second):
			}
		}
		return true, fmt.Errorf("get %s: %w", path, domain.ErrRateLimited)

	case resp.StatusCode >= 500:
		return true, fmt.Errorf("get %s: status %d: %w", path, resp.StatusCode, domain.ErrUpstreamFetch)

	default:
		return false, fmt.Errorf("get %s: status %d: %w", path, resp.StatusCode, domain.ErrUpstreamFetch)
	}
}
