package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/allinone-plumbing/internal/infra/logging"
	"github.com/xavierca1/allinone-plumbing/internal/infra/mail"
	"github.com/xavierca1/allinone-plumbing/internal/infra/queue"
)

const (
	DefaultQuoteSender    = "Website Quote <quotes@allinone-plumbing.com>"
	DefaultQuoteRecipient = "info@allinone-plumbing.com"
)

type SubmitQuoteUseCase struct {
	Mailer EmailService
	Events LeadEventPublisher // optional

	// ServerGate re-runs the bot heuristic on the server. Nil leaves the
	// heuristic to the browser form only.
	ServerGate *BotGate

	From      string
	Recipient string
	Logger    *logging.Logger
	Now       func() time.Time
}

func NewSubmitQuoteUseCase(
	mailer EmailService,
	events LeadEventPublisher,
	serverGate *BotGate,
	from, recipient string,
	logger *logging.Logger,
) *SubmitQuoteUseCase {
	if from == "" {
		from = DefaultQuoteSender
	}
	if recipient == "" {
		recipient = DefaultQuoteRecipient
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SubmitQuoteUseCase{
		Mailer:     mailer,
		Events:     events,
		ServerGate: serverGate,
		From:       from,
		Recipient:  recipient,
		Logger:     logger,
		Now:        time.Now,
	}
}

// Execute validates one lead and hands exactly one notification to the
// mailer. Nothing is kept once it returns.
func (uc *SubmitQuoteUseCase) Execute(ctx context.Context, input SubmitQuoteInput) (*SubmitQuoteOutput, error) {
	req, err := ParseQuoteRequest(input.Request)
	if err != nil {
		return nil, err
	}

	if uc.ServerGate != nil {
		var elapsed time.Duration
		if req.TimeToComplete != nil {
			elapsed = time.Duration(*req.TimeToComplete * float64(time.Millisecond))
		}
		if decision := uc.ServerGate.Check(req.Website, elapsed); decision != GateAllow {
			uc.Logger.Warn("quote request suppressed by bot check",
				"reason", decision.String(),
				"client_ip", input.ClientIP,
			)
			return &SubmitQuoteOutput{Suppressed: true}, nil
		}
	}

	now := uc.Now()
	notification, err := BuildNotification(req, input.ClientIP, now)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDeliveryFailed, Message: "failed to build notification", Err: err}
	}

	msg := mail.Message{
		From:    uc.From,
		To:      []string{uc.Recipient},
		Subject: notification.Subject,
		Text:    notification.Text,
		HTML:    notification.HTML,
	}
	if err := uc.Mailer.Send(ctx, msg); err != nil {
		return nil, &TechnicalError{Code: CodeDeliveryFailed, Message: "failed to deliver quote notification", Err: err}
	}

	uc.Logger.Info("quote request submitted",
		"service", req.Service,
		"zip", req.Zip,
		"source", req.UTMSource,
		"timestamp", req.Timestamp,
	)

	if uc.Events != nil {
		event := queue.NewLeadSubmittedEvent(req, now)
		if err := uc.Events.PublishLeadSubmitted(ctx, event); err != nil {
			uc.Logger.Warn("failed to publish lead event", "event_id", event.ID, "error", err)
		}
	}

	return &SubmitQuoteOutput{Subject: notification.Subject}, nil
}
