package apiclient

import (
	"log/slog"
	"net/http"
	"time"
)

type loggingTransport struct {
	logger *slog.Logger
	next   http.RoundTripper
}

// NewLoggingTransport wraps next so each outbound request is logged with method, path, status and duration.
// Request and response bodies and headers are never logged.
func NewLoggingTransport(logger *slog.Logger, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{logger: logger, next: next}
}

func (t *loggingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(r)
	duration := time.Since(start)
	if err != nil {
		t.logger.WarnContext(r.Context(), "outbound request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", duration.Milliseconds(),
			"err", err,
		)
		return nil, err
	}
	t.logger.InfoContext(r.Context(), "outbound request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", duration.Milliseconds(),
	)
	return resp, nil
}
