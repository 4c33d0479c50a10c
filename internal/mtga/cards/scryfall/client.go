package scryfall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public Scryfall API root.
	DefaultBaseURL = "https://api.scryfall.com"

	rateLimitDelay = 100 * time.Millisecond // 100ms between requests (10 req/sec)
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 16 * time.Second
)

// Client represents a Scryfall API client with rate limiting.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
	baseURL     string
	backoff     time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithRateInterval sets the minimum gap between requests.
func WithRateInterval(d time.Duration) Option {
	return func(c *Client) { c.rateLimiter = rate.NewLimiter(rate.Every(d), 1) }
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient creates a new Scryfall API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		// Rate limiter: 1 request per 100ms = 10 req/sec
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		userAgent:   "mtg-manabase/1.0",
		baseURL:     DefaultBaseURL,
		backoff:     initialBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetCardByName retrieves a card by its exact name.
func (c *Client) GetCardByName(ctx context.Context, name string) (*Card, error) {
	u := fmt.Sprintf("%s/cards/named?exact=%s", c.baseURL, url.QueryEscape(name))

	var card Card
	if err := c.doRequest(ctx, http.MethodGet, u, nil, &card); err != nil {
		return nil, fmt.Errorf("failed to get card %q: %w", name, err)
	}

	return &card, nil
}

// doRequest performs an HTTP request with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, method, url string, payload []byte, result any) error {
	var lastErr error
	backoff := c.backoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		// Wait for rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)

			// Retry on network errors
			if attempt < maxRetries {
				if err := sleep(ctx, backoff); err != nil {
					return err
				}
				backoff = min(backoff*2, maxBackoff)
				continue
			}
			return lastErr
		}

		retry, wait, err := c.handleResponse(resp, url, result)
		if !retry {
			return err
		}

		lastErr = err
		if attempt < maxRetries {
			if wait == 0 {
				wait = backoff
			}
			if err := sleep(ctx, wait); err != nil {
				return err
			}
			backoff = min(backoff*2, maxBackoff)
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// handleResponse decodes resp into result. It reports whether the request
// should be retried and, for 429s, how long Retry-After asked to wait.
func (c *Client) handleResponse(resp *http.Response, url string, result any) (bool, time.Duration, error) {
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return false, 0, fmt.Errorf("failed to read response body: %w", err)
		}
		if err := json.Unmarshal(body, result); err != nil {
			return false, 0, fmt.Errorf("failed to parse JSON response: %w", err)
		}
		return false, 0, nil

	case http.StatusTooManyRequests:
		var wait time.Duration
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if d, err := time.ParseDuration(retryAfter + "s"); err == nil {
				wait = d
			}
		}
		return true, wait, fmt.Errorf("rate limited (HTTP 429)")

	case http.StatusNotFound:
		return false, 0, &NotFoundError{URL: url}

	default:
		body, _ := io.ReadAll(resp.Body)

		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Details != "" {
			return false, 0, &apiErr
		}
		return false, 0, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
