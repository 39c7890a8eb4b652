package source

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// retryTransport retries idempotent requests on 429 and 5xx responses with
// exponential backoff.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	baseDelay  time.Duration
}

// RoundTrip implements http.RoundTripper.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return t.base.RoundTrip(req)
	}

	for attempt := 0; ; attempt++ {
		resp, err := t.base.RoundTrip(req)
		if err != nil {
			return nil, fmt.Errorf("round trip: %w", err)
		}

		if !shouldRetry(resp.StatusCode) || attempt >= t.maxRetries {
			return resp, nil
		}

		_ = resp.Body.Close()

		delay := t.baseDelay << attempt //nolint:gosec // attempt is bounded by maxRetries
		slog.Debug("retrying item source", "url", req.URL.Redacted(), "status", resp.StatusCode, "delay", delay)

		select {
		case <-req.Context().Done():
			return nil, fmt.Errorf("retry wait: %w", req.Context().Err())
		case <-time.After(delay):
		}
	}
}

func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		(statusCode >= http.StatusInternalServerError && statusCode <= http.StatusGatewayTimeout)
}

// loggingTransport logs each request and its outcome at debug level.
type loggingTransport struct {
	base http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	slog.Debug("http request", "method", req.Method, "url", req.URL.Redacted())

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		slog.Debug("http error", "url", req.URL.Redacted(), "error", err, "duration", time.Since(start))

		return nil, err
	}

	slog.Debug("http response",
		"url", req.URL.Redacted(),
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	return resp, nil
}
