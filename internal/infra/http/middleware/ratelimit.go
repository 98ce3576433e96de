package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/xavierca1/allinone-plumbing/internal/infra/logging"
	"github.com/xavierca1/allinone-plumbing/internal/infra/ratelimit"
)

const (
	rateLimitedMessage = "Too many requests. Please try again later."
	unknownClient      = "unknown"
)

type rateLimitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RateLimit rejects callers over the limiter's budget with 429. A failing
// store lets the request through. trustedHops is the number of proxies in
// front of the service that append to X-Forwarded-For; zero keys on the
// socket peer.
func RateLimit(limiter ratelimit.Limiter, trustedHops int, logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := RateLimitKey(r, trustedHops)

			allowed, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				RecordIntegrationError("ratelimit")
				logger.Warn("rate limit store unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				RecordQuoteSubmission(OutcomeRateLimited)
				logger.Warn("rate limit exceeded", "client_ip", ip, "path", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(rateLimitResponse{
					Success: false,
					Message: rateLimitedMessage,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitKey picks the address the limiter counts against. Entries a
// client can write itself are never used: with trustedHops proxies the key is
// the entry the outermost trusted proxy appended, otherwise the socket peer.
func RateLimitKey(r *http.Request, trustedHops int) string {
	if trustedHops <= 0 {
		return RemoteIP(r)
	}

	var hops []string
	for _, v := range r.Header.Values("X-Forwarded-For") {
		for _, hop := range strings.Split(v, ",") {
			hops = append(hops, strings.TrimSpace(hop))
		}
	}
	if len(hops) < trustedHops {
		return RemoteIP(r)
	}
	if hop := hops[len(hops)-trustedHops]; hop != "" {
		return hop
	}
	return RemoteIP(r)
}

// ClientIP is the visitor address as the headers report it, for display in
// the lead email: first X-Forwarded-For entry, then X-Real-IP, then
// "unknown". The client controls these headers.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	return unknownClient
}

// RemoteIP is the socket peer without its port.
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
