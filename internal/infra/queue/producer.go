package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/allinone-plumbing/internal/entity"
)

// LeadSubmittedEvent is the analytics view of a delivered lead. It carries no
// contact details: name, phone and description stay in the email only.
type LeadSubmittedEvent struct {
	ID               string    `json:"id"`
	Service          string    `json:"service"`
	Zip              string    `json:"zip"`
	PreferredTime    string    `json:"preferred_time"`
	UTMSource        string    `json:"utm_source"`
	UTMCampaign      string    `json:"utm_campaign"`
	GCLID            string    `json:"gclid"`
	TimeToCompleteMS int64     `json:"time_to_complete_ms"`
	SubmittedAt      string    `json:"submitted_at"`
	ReceivedAt       time.Time `json:"received_at"`
}

func NewLeadSubmittedEvent(req entity.QuoteRequest, receivedAt time.Time) LeadSubmittedEvent {
	event := LeadSubmittedEvent{
		ID:            uuid.New().String(),
		Service:       req.Service,
		Zip:           req.Zip,
		PreferredTime: req.PreferredTime,
		UTMSource:     req.UTMSource,
		UTMCampaign:   req.UTMCampaign,
		GCLID:         req.GCLID,
		SubmittedAt:   req.Timestamp,
		ReceivedAt:    receivedAt.UTC(),
	}
	if req.TimeToComplete != nil {
		event.TimeToCompleteMS = int64(*req.TimeToComplete)
	}
	return event
}

// publisher is the part of *amqp.Channel the producer needs.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch publisher
}

func NewProducer(ch publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishLeadSubmitted(ctx context.Context, event LeadSubmittedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode lead event: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.ID,
			Timestamp:    event.ReceivedAt,
			Type:         RoutingKey,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish lead event: %w", err)
	}

	return nil
}
