package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	return entry
}

func TestNewWithWriter_LevelByEnv(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, "production").Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected debug suppressed in production, got %s", buf.String())
	}
	NewWithWriter(&buf, "dev").Debug("shown")
	if buf.Len() == 0 {
		t.Fatalf("expected debug output in dev")
	}
	entry := decodeLine(t, &buf)
	if entry["service"] != Service || entry["env"] != "dev" {
		t.Fatalf("expected service and env attrs, got %v", entry)
	}
}

func TestFromFallsBackToDefault(t *testing.T) {
	if From(context.Background()) == nil {
		t.Fatalf("expected default logger")
	}
}

func TestMiddleware_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "local")

	r := gin.New()
	r.Use(Middleware(l))
	r.GET("/ping", func(c *gin.Context) {
		if FromGin(c) != From(c.Request.Context()) {
			t.Errorf("gin and request context loggers differ")
		}
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "rid-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get(HeaderRequestID); got != "rid-1" {
		t.Fatalf("expected request id echoed, got %q", got)
	}

	entry := decodeLine(t, &buf)
	if entry["request_id"] != "rid-1" || entry["path"] != "/ping" || entry["status"] != float64(204) {
		t.Fatalf("unexpected log entry: %v", entry)
	}
	if entry["level"] != "INFO" || entry["client_ip"] == nil {
		t.Fatalf("unexpected log entry: %v", entry)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Header().Get(HeaderRequestID) == "" {
		t.Fatalf("expected generated request id")
	}
}

func TestMiddleware_LevelByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "production")

	r := gin.New()
	r.Use(Middleware(l))
	r.POST("/features/:name/trigger", func(c *gin.Context) {
		_ = c.Error(http.ErrHandlerTimeout)
		c.Status(http.StatusBadGateway)
	})
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		method, path string
		level        string
	}{
		{http.MethodPost, "/features/notices/trigger", "ERROR"},
		{http.MethodGet, "/missing", "WARN"},
	}
	for _, tc := range cases {
		buf.Reset()
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tc.method, tc.path, nil))
		entry := decodeLine(t, &buf)
		if entry["level"] != tc.level {
			t.Fatalf("%s: expected level %s, got %v", tc.path, tc.level, entry)
		}
		if tc.level == "ERROR" && (entry["feature"] != "notices" || entry["errors"] == nil) {
			t.Fatalf("expected feature and errors attrs, got %v", entry)
		}
	}

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if buf.Len() != 0 {
		t.Fatalf("expected health check summary below info, got %s", buf.String())
	}
}
