package usecase

import (
	"context"

	"github.com/xavierca1/allinone-plumbing/internal/infra/mail"
	"github.com/xavierca1/allinone-plumbing/internal/infra/queue"
)

type EmailService interface {
	Send(ctx context.Context, msg mail.Message) error
}

type LeadEventPublisher interface {
	PublishLeadSubmitted(ctx context.Context, event queue.LeadSubmittedEvent) error
}
