// Package transport provides the HTTP round tripper shared by the GitHub and Anthropic clients.
package transport

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// DefaultMaxRetries bounds how often a rate-limited request is replayed
const DefaultMaxRetries = 3

// RateLimitedTransport waits out 429 responses that carry a retry-after header
type RateLimitedTransport struct {
	base       http.RoundTripper
	logger     *zap.Logger
	maxRetries int
	maxWait    time.Duration
}

func WithRateLimiting(base http.RoundTripper, logger *zap.Logger) *RateLimitedTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimitedTransport{
		base:       base,
		logger:     logger,
		maxRetries: DefaultMaxRetries,
		maxWait:    2 * time.Minute,
	}
}

// Client wraps the transport in an http.Client
func (t *RateLimitedTransport) Client() *http.Client {
	return &http.Client{Transport: t}
}

func (t *RateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Keep the body so the request can be replayed
	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		err = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to close request body: %w", err)
		}
	}

	for attempt := 0; ; attempt++ {
		if bodyBytes != nil {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		resp, err := t.base.RoundTrip(req)
		if err != nil {
			return resp, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= t.maxRetries {
			return resp, nil
		}

		wait := retryAfter(resp.Header.Get("retry-after"))
		if wait <= 0 || wait > t.maxWait {
			return resp, nil
		}

		err = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to close response body: %w", err)
		}

		t.logger.Info("rate limited, waiting",
			zap.String("host", req.URL.Host),
			zap.Duration("wait", wait),
			zap.Int("attempt", attempt+1))
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(wait):
		}
	}
}

// retryAfter parses a retry-after header given either in seconds or as an HTTP date
func retryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		return time.Until(at)
	}
	return 0
}
