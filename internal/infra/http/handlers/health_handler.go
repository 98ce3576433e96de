package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// BrokerChecker reports whether the lead event broker connection is up.
type BrokerChecker interface {
	Healthy() bool
}

// StoreChecker pings the shared rate limit store.
type StoreChecker interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	MailProvider string
	RabbitMQ     BrokerChecker
	Redis        StoreChecker
	StartTime    time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

// NewHealthHandler accepts nil checkers for dependencies that are not
// configured.
func NewHealthHandler(mailProvider string, rabbitMQ BrokerChecker, redis StoreChecker) *HealthHandler {
	return &HealthHandler{
		MailProvider: mailProvider,
		RabbitMQ:     rabbitMQ,
		Redis:        redis,
		StartTime:    time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	if h.MailProvider != "" {
		deps["mail"] = "configured (" + h.MailProvider + ")"
	} else {
		deps["mail"] = "not configured"
	}

	if h.RabbitMQ != nil {
		if h.RabbitMQ.Healthy() {
			deps["rabbitmq"] = "healthy"
		} else {
			deps["rabbitmq"] = "unhealthy: connection closed"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	if h.Redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.Redis.Ping(ctx); err != nil {
			deps["redis"] = fmt.Sprintf("unhealthy: %v", err)
		} else {
			deps["redis"] = "healthy"
		}
	} else {
		deps["redis"] = "not configured"
	}

	status := "healthy"
	for name, v := range deps {
		if name != "mail" && v != "healthy" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	response := HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}

	w.Header().Set("Content-Type", "application/json")
	if status == "degraded" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}
