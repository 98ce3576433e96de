package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/allinone-plumbing/internal/infra/logging"
	"github.com/xavierca1/allinone-plumbing/internal/infra/ratelimit"
)

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("connection refused")
}

type recordingLimiter struct {
	keys []string
}

func (l *recordingLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.keys = append(l.keys, key)
	return true, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitRejectsOverBudget(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(2, time.Minute)
	defer limiter.Close()
	handler := RateLimit(limiter, 1, logging.New("error"))(okHandler())

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/quote", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.9")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusOK, send().Code)
	assert.Equal(t, http.StatusOK, send().Code)

	rr := send()
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Too many requests. Please try again later.", body["message"])
}

func TestRateLimitFailsOpen(t *testing.T) {
	handler := RateLimit(failingLimiter{}, 0, logging.New("error"))(okHandler())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/quote", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimitKeysOnSocketPeerWithoutProxyHeaders(t *testing.T) {
	limiter := &recordingLimiter{}
	handler := RateLimit(limiter, 0, nil)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/quote", nil)
	req.RemoteAddr = "192.0.2.10:54321"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, []string{"192.0.2.10"}, limiter.keys)
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	for _, hops := range []int{0, 1} {
		t.Run(fmt.Sprintf("%d trusted hops", hops), func(t *testing.T) {
			limiter := ratelimit.NewMemoryLimiter(2, time.Minute)
			defer limiter.Close()
			handler := RateLimit(limiter, hops, logging.New("error"))(okHandler())

			codes := make([]int, 0, 4)
			for i := 0; i < 4; i++ {
				req := httptest.NewRequest(http.MethodPost, "/api/quote", nil)
				req.RemoteAddr = "192.0.2.10:54321"
				// a fresh client-written entry each time, then what the proxy appended
				spoofed := fmt.Sprintf("198.51.100.%d", i+1)
				if hops > 0 {
					req.Header.Set("X-Forwarded-For", spoofed+", 203.0.113.9")
				} else {
					req.Header.Set("X-Forwarded-For", spoofed)
					req.Header.Set("X-Real-IP", spoofed)
				}
				rr := httptest.NewRecorder()
				handler.ServeHTTP(rr, req)
				codes = append(codes, rr.Code)
			}

			assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
		})
	}
}

func TestRateLimitKey(t *testing.T) {
	tests := []struct {
		name string
		hops int
		xff  []string
		want string
	}{
		{"no proxy ignores headers", 0, []string{"203.0.113.9"}, "192.0.2.10"},
		{"one proxy takes last entry", 1, []string{"198.51.100.1, 203.0.113.9"}, "203.0.113.9"},
		{"two proxies", 2, []string{"198.51.100.1, 203.0.113.9, 10.0.0.2"}, "203.0.113.9"},
		{"repeated headers are one list", 1, []string{"198.51.100.1", "203.0.113.9"}, "203.0.113.9"},
		{"chain shorter than hops", 2, []string{"203.0.113.9"}, "192.0.2.10"},
		{"no header", 1, nil, "192.0.2.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/quote", nil)
			req.RemoteAddr = "192.0.2.10:54321"
			for _, v := range tt.xff {
				req.Header.Add("X-Forwarded-For", v)
			}
			assert.Equal(t, tt.want, RateLimitKey(req, tt.hops))
		})
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, "203.0.113.9"},
		{"forwarded single", map[string]string{"X-Forwarded-For": "203.0.113.9"}, "203.0.113.9"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.7"}, "198.51.100.7"},
		{"forwarded wins", map[string]string{"X-Forwarded-For": "203.0.113.9", "X-Real-IP": "198.51.100.7"}, "203.0.113.9"},
		{"nothing", nil, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/quote", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(req))
		})
	}
}

func TestMetricsExposesQuoteCounters(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Post("/api/quote", func(w http.ResponseWriter, r *http.Request) {
		RecordQuoteSubmission(OutcomeDelivered)
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/quote", nil))
	RecordIntegrationError("mail")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `quote_submissions_total{outcome="delivered"}`)
	assert.Contains(t, body, `integration_errors_total{service="mail"}`)
	assert.Contains(t, body, `http_requests_total{method="POST",path="/api/quote",status="200"}`)
}
