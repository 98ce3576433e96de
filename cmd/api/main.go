package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"

	"github.com/xavierca1/allinone-plumbing/internal/config"
	"github.com/xavierca1/allinone-plumbing/internal/infra/http/handlers"
	"github.com/xavierca1/allinone-plumbing/internal/infra/logging"
	"github.com/xavierca1/allinone-plumbing/internal/infra/mail"
	"github.com/xavierca1/allinone-plumbing/internal/infra/queue"
	"github.com/xavierca1/allinone-plumbing/internal/infra/ratelimit"
	"github.com/xavierca1/allinone-plumbing/internal/usecase"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := logging.NewWithOptions(logging.Options{
		Level:       cfg.LogLevel,
		SentryDSN:   cfg.SentryDSN,
		Environment: cfg.Env,
	})
	defer sentry.Flush(2 * time.Second)

	ctx := context.Background()

	// 1. Mail
	sender, provider, err := mail.NewSender(ctx, cfg.Mail(), logger)
	if err != nil {
		logger.Error("failed to configure mail provider", "provider", provider, "error", err)
		os.Exit(1)
	}
	if provider == mail.ProviderStub && cfg.IsProduction() {
		logger.Warn("no mail provider configured, quote requests will only be logged")
	}

	// 2. Lead events (optional)
	var (
		events usecase.LeadEventPublisher
		broker handlers.BrokerChecker
	)
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			logger.Warn("lead events disabled", "error", err)
		} else {
			defer rabbitMQ.Close()
			events = queue.NewProducer(rabbitMQ.Ch)
			broker = rabbitMQ
		}
	}

	// 3. Rate limit store
	var (
		limiter ratelimit.Limiter
		store   handlers.StoreChecker
	)
	if cfg.RedisURL != "" {
		client, err := ratelimit.Open(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, falling back to in-memory rate limit", "error", err)
		} else {
			defer client.Close()
			redisLimiter := ratelimit.NewRedisLimiter(client, cfg.QuoteRateLimit, cfg.QuoteRateWindow)
			limiter = redisLimiter
			store = redisLimiter
		}
	}
	if limiter == nil {
		memLimiter := ratelimit.NewMemoryLimiter(cfg.QuoteRateLimit, cfg.QuoteRateWindow)
		defer memLimiter.Close()
		limiter = memLimiter
	}

	// 4. Use case
	var serverGate *usecase.BotGate
	if cfg.QuoteServerBotCheck {
		gate := usecase.NewBotGate(cfg.QuoteMinFillTime)
		serverGate = &gate
	}
	submitQuoteUC := usecase.NewSubmitQuoteUseCase(sender, events, serverGate, cfg.MailFrom, cfg.OrgEmail, logger)

	// 5. Router
	r := newRouter(routerConfig{
		QuoteHandler:     handlers.NewQuoteHandler(submitQuoteUC, logger),
		HealthHandler:    handlers.NewHealthHandler(provider, broker, store),
		Limiter:          limiter,
		TrustedProxyHops: cfg.QuoteTrustedProxyHops,
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		Logger:           logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "mail_provider", provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}
