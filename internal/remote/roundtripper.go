package remote

import (
	"log/slog"
	"net/http"
	"time"
)

// loggingTransport logs every outgoing request with its outcome and duration.
type loggingTransport struct {
	next        http.RoundTripper
	logger      *slog.Logger
	destination string
}

func newLoggingTransport(next http.RoundTripper, logger *slog.Logger, destination string) *loggingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next, logger: logger, destination: destination}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	res, err := t.next.RoundTrip(req)

	attrs := []any{
		"label", "outgoing-request",
		"destination", t.destination,
		"method", req.Method,
		"url", req.URL.Redacted(),
		"duration_ms", float64(time.Since(start).Milliseconds()),
	}
	if err != nil {
		t.logger.Warn("request failed", append(attrs, "code", 0, "err", err)...)
		return nil, err
	}
	t.logger.Info("request", append(attrs, "code", res.StatusCode)...)
	return res, nil
}
