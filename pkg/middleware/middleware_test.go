package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"storefront/pkg/logger"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.New(logger.Config{
		Level:   logger.DEBUG,
		Format:  logger.JSON,
		Output:  buf,
		Service: "test",
	})
}

func TestRequestLogging_AssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	var seen string
	h := RequestLogging(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/banners", nil))

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected uuid request id in context, got %q", seen)
	}
	if got := w.Header().Get(RequestIDHeader); got != seen {
		t.Errorf("response header %s = %q, want %q", RequestIDHeader, got, seen)
	}
	if !strings.Contains(buf.String(), `"status":418`) {
		t.Errorf("expected completed log with status, got %q", buf.String())
	}
}

func TestRequestLogging_KeepsIncomingRequestID(t *testing.T) {
	var buf bytes.Buffer
	incoming := uuid.NewString()
	var seen string
	h := RequestLogging(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen != incoming {
		t.Errorf("request id = %q, want %q", seen, incoming)
	}
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	h := Recovery(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(buf.String(), "Panic recovered") {
		t.Errorf("expected panic to be logged, got %q", buf.String())
	}
}

func TestRequestTimeout(t *testing.T) {
	h := RequestTimeout(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
	if !strings.Contains(w.Body.String(), "Request timeout") {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestRequestTimeout_FastHandler(t *testing.T) {
	h := RequestTimeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
}

func TestClientRateLimiter(t *testing.T) {
	var buf bytes.Buffer
	limiter := NewClientRateLimiter(2, time.Minute, nil, newTestLogger(&buf))
	defer limiter.Stop()

	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	if !limiter.Allow("10.0.0.1") || !limiter.Allow("10.0.0.1") {
		t.Fatalf("first two requests should be allowed")
	}
	if limiter.Allow("10.0.0.1") {
		t.Errorf("third request inside the window should be rejected")
	}
	if !limiter.Allow("10.0.0.2") {
		t.Errorf("other clients should not be affected")
	}

	current = current.Add(time.Minute + time.Second)
	if !limiter.Allow("10.0.0.1") {
		t.Errorf("request after the window should be allowed")
	}
}

func TestRateLimit_Middleware(t *testing.T) {
	var buf bytes.Buffer
	limiter := NewClientRateLimiter(1, time.Minute, nil, newTestLogger(&buf))
	defer limiter.Stop()

	h := RateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	codes := []int{}
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/banners/refresh", nil)
		req.RemoteAddr = "192.0.2.7:5555"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusAccepted || codes[1] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [202 429]", codes)
	}
}

func TestClientKeyExtractor(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		forwarded  string
		want       string
	}{
		{name: "peer address", trustProxy: false, want: "192.0.2.7"},
		{name: "forwarded header ignored by default", trustProxy: false, forwarded: "203.0.113.9, 10.0.0.1", want: "192.0.2.7"},
		{name: "forwarded header behind trusted proxy", trustProxy: true, forwarded: "203.0.113.9, 10.0.0.1", want: "203.0.113.9"},
		{name: "trusted proxy without header", trustProxy: true, want: "192.0.2.7"},
		{name: "trusted proxy with blank first hop", trustProxy: true, forwarded: " , 10.0.0.1", want: "192.0.2.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "192.0.2.7:5555"
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}

			if got := ClientKeyExtractor(tt.trustProxy)(req); got != tt.want {
				t.Errorf("ClientKeyExtractor(%v)() = %q, want %q", tt.trustProxy, got, tt.want)
			}
		})
	}
}

func TestRateLimit_IgnoresSpoofedForwardedFor(t *testing.T) {
	limiter := NewClientRateLimiter(1, time.Minute, ClientIP, newTestLogger(&bytes.Buffer{}))
	defer limiter.Stop()

	h := RateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	codes := []int{}
	for _, fwd := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/banners/refresh", nil)
		req.RemoteAddr = "192.0.2.7:5555"
		req.Header.Set("X-Forwarded-For", fwd)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusAccepted || codes[1] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [202 429]", codes)
	}
}
