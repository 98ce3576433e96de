package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/allinone-plumbing/internal/infra/http/handlers"
	"github.com/xavierca1/allinone-plumbing/internal/infra/http/middleware"
	"github.com/xavierca1/allinone-plumbing/internal/infra/logging"
	"github.com/xavierca1/allinone-plumbing/internal/infra/ratelimit"
)

type routerConfig struct {
	QuoteHandler     *handlers.QuoteHandler
	HealthHandler    *handlers.HealthHandler
	Limiter          ratelimit.Limiter
	TrustedProxyHops int
	AllowedOrigins   []string
	Logger           *logging.Logger
}

func newRouter(cfg routerConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)

	r.Get("/health", cfg.HealthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{"POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         600,
		}))

		r.With(middleware.RateLimit(cfg.Limiter, cfg.TrustedProxyHops, cfg.Logger)).Post("/quote", cfg.QuoteHandler.SubmitQuote)
	})

	return r
}
