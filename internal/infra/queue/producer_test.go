package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/allinone-plumbing/internal/entity"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	calls    int
	err      error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.calls++
	f.exchange = exchange
	f.key = key
	f.msg = msg
	return f.err
}

func sampleRequest() entity.QuoteRequest {
	ttc := 4200.0
	return entity.QuoteRequest{
		Name:          "John Doe",
		Phone:         "5551234567",
		Zip:           "33101",
		Service:       "drain-cleaning",
		PreferredTime: "morning",
		Description:   "kitchen sink backs up",
		Tracking: entity.Tracking{
			UTMSource:      "google",
			UTMCampaign:    "spring",
			GCLID:          "abc123",
			TimeToComplete: &ttc,
			Timestamp:      "2026-10-16T12:00:00.000Z",
		},
	}
}

func TestNewLeadSubmittedEvent(t *testing.T) {
	received := time.Date(2026, 10, 16, 12, 0, 1, 0, time.UTC)
	event := NewLeadSubmittedEvent(sampleRequest(), received)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "drain-cleaning", event.Service)
	assert.Equal(t, "33101", event.Zip)
	assert.Equal(t, "morning", event.PreferredTime)
	assert.Equal(t, "google", event.UTMSource)
	assert.Equal(t, "spring", event.UTMCampaign)
	assert.Equal(t, "abc123", event.GCLID)
	assert.Equal(t, int64(4200), event.TimeToCompleteMS)
	assert.Equal(t, "2026-10-16T12:00:00.000Z", event.SubmittedAt)
	assert.Equal(t, received, event.ReceivedAt)
}

func TestLeadSubmittedEventCarriesNoContactDetails(t *testing.T) {
	body, err := json.Marshal(NewLeadSubmittedEvent(sampleRequest(), time.Now()))
	require.NoError(t, err)

	var data map[string]any
	require.NoError(t, json.Unmarshal(body, &data))

	for _, field := range []string{"name", "phone", "description", "website"} {
		assert.NotContains(t, data, field)
	}
	assert.NotContains(t, string(body), "John Doe")
	assert.NotContains(t, string(body), "5551234567")
}

func TestPublishLeadSubmitted(t *testing.T) {
	ch := &fakeChannel{}
	producer := NewProducer(ch)
	event := NewLeadSubmittedEvent(sampleRequest(), time.Now())

	err := producer.PublishLeadSubmitted(context.Background(), event)
	require.NoError(t, err)

	assert.Equal(t, 1, ch.calls)
	assert.Equal(t, ExchangeName, ch.exchange)
	assert.Equal(t, RoutingKey, ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.EqualValues(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, event.ID, ch.msg.MessageId)

	var received LeadSubmittedEvent
	require.NoError(t, json.Unmarshal(ch.msg.Body, &received))
	assert.Equal(t, event.ID, received.ID)
	assert.Equal(t, event.Service, received.Service)
}

func TestPublishLeadSubmittedError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	producer := NewProducer(ch)

	err := producer.PublishLeadSubmitted(context.Background(), NewLeadSubmittedEvent(sampleRequest(), time.Now()))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")
}

func TestRabbitMQHealthyNil(t *testing.T) {
	var r *RabbitMQ
	assert.False(t, r.Healthy())
	r.Close()
}
