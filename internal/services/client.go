package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/likeshift/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultRetryAttempts = 3
	defaultBaseDelay     = 5 * time.Second
	defaultRateLimit     = 5.0
)

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Body       []byte
}

// RequestClient issues single authenticated HTTP calls with bounded retries,
// exponential backoff on rate-limit statuses, and a requests-per-second gate.
//
// Failure classification:
//   - 2xx and 409 (already exists) are success
//   - 403/429 retry with backoff baseDelay*2^attempt; exhausting the budget
//     returns [shared.ErrQuotaExceeded] so the caller can trip its breaker
//   - any other non-2xx returns [shared.ErrRequestFailed] without retrying
//   - network errors retry with the fixed base delay
type RequestClient struct {
	httpClient *http.Client
	tokens     oauth2.TokenSource
	limiter    *rate.Limiter
	attempts   int
	baseDelay  time.Duration
	logger     *log.Logger
}

// RequestClientOpts contains configuration options for creating a RequestClient.
type RequestClientOpts struct {
	HTTPClient *http.Client
	Tokens     oauth2.TokenSource
	Attempts   int           // Retry budget (default 3)
	BaseDelay  time.Duration // Base backoff delay (default 5s)
	RateLimit  float64       // Requests per second (default 5)
	Logger     *log.Logger
}

// NewRequestClient creates a new RequestClient with the provided options.
func NewRequestClient(opts RequestClientOpts) *RequestClient {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Attempts <= 0 {
		opts.Attempts = defaultRetryAttempts
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = defaultBaseDelay
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	return &RequestClient{
		httpClient: opts.HTTPClient,
		tokens:     opts.Tokens,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		attempts:   opts.Attempts,
		baseDelay:  opts.BaseDelay,
		logger:     opts.Logger,
	}
}

// Do performs an authenticated request against the given URL, retrying per the classification rules.
//
// The body, when non-nil, is marshaled to JSON once and replayed on each attempt.
func (c *RequestClient) Do(ctx context.Context, method, rawURL string, query url.Values, body any) (*APIResponse, error) {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = data
	}

	if len(query) > 0 {
		rawURL = rawURL + "?" + query.Encode()
	}

	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}

		resp, err := c.doAttempt(ctx, method, rawURL, payload)
		if err != nil {
			// Network-level failure: retry with the fixed base delay.
			lastErr = err
			c.logger.Error("network error during request", "url", rawURL, "attempt", attempt+1, "error", err)
			if attempt < c.attempts-1 {
				if err := sleepContext(ctx, c.baseDelay); err != nil {
					return nil, err
				}
			}
			continue
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil

		case resp.StatusCode == http.StatusConflict:
			// Already exists: the insert is idempotent, treat as success.
			return resp, nil

		case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
			if attempt == c.attempts-1 {
				return resp, fmt.Errorf("%w: status %d after %d attempts", shared.ErrQuotaExceeded, resp.StatusCode, c.attempts)
			}
			wait := c.baseDelay * (1 << attempt)
			c.logger.Warn("rate limit hit, backing off", "url", rawURL, "status", resp.StatusCode, "wait", wait)
			if err := sleepContext(ctx, wait); err != nil {
				return nil, err
			}

		default:
			return resp, fmt.Errorf("%w: status %d: %s", shared.ErrRequestFailed, resp.StatusCode, truncate(resp.Body, 200))
		}
	}

	if lastErr != nil {
		if errors.Is(lastErr, shared.ErrTokenExpired) {
			return nil, lastErr
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrRequestFailed, lastErr)
	}
	return nil, fmt.Errorf("%w: retry budget exhausted", shared.ErrRequestFailed)
}

// doAttempt issues exactly one HTTP request with a freshly supplied bearer token.
func (c *RequestClient) doAttempt(ctx context.Context, method, rawURL string, payload []byte) (*APIResponse, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrTokenExpired, err)
		}
		token.SetAuthHeader(req)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &APIResponse{StatusCode: resp.StatusCode, Body: data}, nil
}

// sleepContext sleeps for the given duration or until the context is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
