package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/allinone-plumbing/internal/infra/http/handlers"
	"github.com/xavierca1/allinone-plumbing/internal/infra/logging"
	"github.com/xavierca1/allinone-plumbing/internal/infra/mail"
	"github.com/xavierca1/allinone-plumbing/internal/infra/ratelimit"
	"github.com/xavierca1/allinone-plumbing/internal/usecase"
)

type capturingSender struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (s *capturingSender) Send(_ context.Context, msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

func (s *capturingSender) messages() []mail.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mail.Message(nil), s.sent...)
}

func newTestServer(t *testing.T, limit int) (*httptest.Server, *capturingSender) {
	t.Helper()

	logger := logging.New("error")
	sender := &capturingSender{}
	limiter := ratelimit.NewMemoryLimiter(limit, time.Minute)
	t.Cleanup(limiter.Close)

	uc := usecase.NewSubmitQuoteUseCase(sender, nil, nil, "", "", logger)
	srv := httptest.NewServer(newRouter(routerConfig{
		QuoteHandler:   handlers.NewQuoteHandler(uc, logger),
		HealthHandler:  handlers.NewHealthHandler("stub", nil, nil),
		Limiter:        limiter,
		AllowedOrigins: []string{"https://allinone-plumbing.com"},
		Logger:         logger,
	}))
	t.Cleanup(srv.Close)

	return srv, sender
}

const quoteBody = `{"name":"John Doe","phone":"5551234567","zip":"33101","service":"drain-cleaning","preferredTime":"morning","website":"","utm_source":"","utm_campaign":"","gclid":"","timeToComplete":4200,"timestamp":"2026-03-14T15:09:26.535Z"}`

func postQuote(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Post(url+"/api/quote", "application/json", strings.NewReader(quoteBody))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestQuoteEndToEnd(t *testing.T) {
	srv, sender := newTestServer(t, 10)

	resp := postQuote(t, srv.URL)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Quote request submitted successfully", body["message"])

	sent := sender.messages()
	require.Len(t, sent, 1)
	msg := sent[0]
	assert.Equal(t, "New Quote Request - John Doe (drain-cleaning)", msg.Subject)
	assert.Equal(t, []string{"info@allinone-plumbing.com"}, msg.To)
	assert.Equal(t, "Website Quote <quotes@allinone-plumbing.com>", msg.From)
	assert.Contains(t, msg.Text, "Description: No additional details provided")
	assert.Contains(t, msg.Text, "UTM Source: Direct")
	assert.Contains(t, msg.Text, "Google Click ID: N/A")
}

func TestQuoteRateLimited(t *testing.T) {
	srv, sender := newTestServer(t, 1)

	assert.Equal(t, http.StatusOK, postQuote(t, srv.URL).StatusCode)

	resp := postQuote(t, srv.URL)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Too many requests. Please try again later.", body["message"])

	assert.Len(t, sender.messages(), 1)
}

func TestQuoteRateLimitIgnoresSpoofedForwardingHeaders(t *testing.T) {
	srv, sender := newTestServer(t, 1)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/quote", strings.NewReader(quoteBody))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		spoofed := fmt.Sprintf("198.51.100.%d", i+1)
		req.Header.Set("X-Forwarded-For", spoofed)
		req.Header.Set("X-Real-IP", spoofed)
		req.Header.Set("True-Client-IP", spoofed)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
	assert.Len(t, sender.messages(), 1)
}

func TestQuoteCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t, 10)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/quote", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://allinone-plumbing.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "https://allinone-plumbing.com", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	srv, _ := newTestServer(t, 10)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	metrics, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer metrics.Body.Close()
	assert.Equal(t, http.StatusOK, metrics.StatusCode)
}

func TestQuoteRejectsOtherMethods(t *testing.T) {
	srv, _ := newTestServer(t, 10)

	resp, err := http.Get(srv.URL + "/api/quote")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
