package mail

import (
	"context"

	"github.com/xavierca1/allinone-plumbing/internal/infra/logging"
)

// StubSender logs instead of sending. Used when no provider is configured.
type StubSender struct {
	logger *logging.Logger
}

func NewStubSender(logger *logging.Logger) *StubSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubSender{logger: logger}
}

func (s *StubSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipient
	}
	s.logger.Info("stub mail sender: would send email", "to", msg.To, "subject", msg.Subject)
	return nil
}
