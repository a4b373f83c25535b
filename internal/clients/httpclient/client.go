// Package httpclient provides the shared outbound transport: bounded
// retry-with-backoff on transient failures and a per-request timeout.
package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"data-processor/internal/observability"

	"github.com/cenkalti/backoff/v4"
)

const userAgent = "DataProcessor/1.0"

// Responses are read fully so the connection can be reused; cap how much.
const maxResponseBytes = 1 << 20

// ErrTimeout marks a call that exceeded the configured timeout, as opposed
// to one that completed with an HTTP error status.
var ErrTimeout = errors.New("request timed out")

// Statuses worth retrying: rate limiting and transient upstream failures.
var retryStatuses = map[int]struct{}{
	http.StatusTooManyRequests:     {},
	http.StatusInternalServerError: {},
	http.StatusBadGateway:          {},
	http.StatusServiceUnavailable:  {},
	http.StatusGatewayTimeout:      {},
}

// Config holds transport settings
type Config struct {
	Timeout       time.Duration
	MaxRetries    int
	BackoffFactor time.Duration
}

// Response is the terminal result of a request that received an HTTP
// response, whatever its status.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client is a retrying HTTP client safe for concurrent use
type Client struct {
	httpClient    *http.Client
	maxRetries    int
	backoffFactor time.Duration
	logger        *observability.Logger
}

// New creates a Client. Zero Timeout and BackoffFactor fall back to 10s and
// 500ms; MaxRetries of 0 means a single attempt.
func New(cfg Config, logger *observability.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.BackoffFactor <= 0 {
		cfg.BackoffFactor = 500 * time.Millisecond
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		maxRetries:    cfg.MaxRetries,
		backoffFactor: cfg.BackoffFactor,
		logger:        logger,
	}
}

// PostJSON posts body to url, retrying transient transport failures and the
// retry-eligible statuses with exponential backoff. Any other status is
// returned immediately as a Response; retry exhaustion and transport
// failures return an error. A fresh request is built per attempt.
func (c *Client) PostJSON(ctx context.Context, url string, body []byte, headers http.Header) (*Response, error) {
	var result *Response
	attempts := 0

	operation := func() error {
		attempts++
		resp, err := c.post(ctx, url, body, headers)
		if err != nil {
			return err
		}
		if _, retryable := retryStatuses[resp.StatusCode]; retryable {
			return &statusError{status: resp.StatusCode}
		}
		result = resp
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.backoffFactor
	bo.Multiplier = 2
	bo.MaxElapsedTime = 0 // bounded by attempt count, not wall clock
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.maxRetries)), ctx)

	notify := func(err error, wait time.Duration) {
		c.logger.Warn(observability.WithFields(ctx,
			observability.Field{Key: "url", Value: url},
			observability.Field{Key: "wait", Value: wait.String()},
			observability.Field{Key: "reason", Value: err.Error()},
		), "retrying outbound request")
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, fmt.Errorf("request failed after %d attempts: %w", attempts, err)
	}
	return result, nil
}

// post performs a single attempt
func (c *Client) post(ctx context.Context, url string, body []byte, headers http.Header) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	for key, values := range headers {
		req.Header.Del(key)
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("received retryable status %d", e.status)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
