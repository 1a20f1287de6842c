package trace

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fintrack/internal/log"
)

func TestMiddleware_AssignsRequestID(t *testing.T) {
	m := NewMiddleware(nil, nil)

	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.HasPrefix(seen, "req_") {
		t.Fatalf("request id = %q", seen)
	}
	if rec.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("response header %q does not match context id %q", rec.Header().Get(RequestIDHeader), seen)
	}
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
	if total, inFlight := m.Stats(); total != 1 || inFlight != 0 {
		t.Fatalf("Stats() = %d, %d", total, inFlight)
	}
}

func TestGenerateRequestID_Unique(t *testing.T) {
	if GenerateRequestID() == GenerateRequestID() {
		t.Fatal("request ids should differ")
	}
}

func TestMiddleware_ContextLoggerCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{
		Component: log.ComponentHTTP,
		Handler:   slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
	m := NewMiddleware(logger, func(*http.Request) string { return "203.0.113.9" })

	var id string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id = GetRequestID(r.Context())
		log.FromContext(r.Context()).InfoContext(r.Context(), "handler ran")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected start, handler and end records, got %d:\n%s", len(lines), buf.String())
	}
	for _, line := range lines {
		if !strings.Contains(line, log.FieldRequestID+"="+id) {
			t.Errorf("record missing request id %q: %s", id, line)
		}
	}
	if !strings.Contains(lines[0], "203.0.113.9") {
		t.Errorf("start record missing client ip: %s", lines[0])
	}
}
