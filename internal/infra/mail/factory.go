package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/xavierca1/allinone-plumbing/internal/infra/logging"
)

const (
	ProviderResend   = "resend"
	ProviderSMTP     = "smtp"
	ProviderSendGrid = "sendgrid"
	ProviderSES      = "ses"
	ProviderStub     = "stub"
)

type Config struct {
	Provider string

	ResendAPIKey   string
	SendGridAPIKey string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string

	AWSRegion string
}

// ResolveProvider picks the configured provider. Without an explicit choice
// Resend is used when its key is present, otherwise the stub.
func (c Config) ResolveProvider() string {
	provider := strings.ToLower(strings.TrimSpace(c.Provider))
	if provider != "" && provider != "auto" {
		return provider
	}
	if c.ResendAPIKey != "" {
		return ProviderResend
	}
	return ProviderStub
}

// NewSender builds the delivery adapter once at startup. Credentials come
// from cfg only.
func NewSender(ctx context.Context, cfg Config, logger *logging.Logger) (Sender, string, error) {
	provider := cfg.ResolveProvider()

	var (
		sender Sender
		err    error
	)
	switch provider {
	case ProviderResend:
		sender, err = NewResendSender(cfg.ResendAPIKey)
	case ProviderSendGrid:
		sender, err = NewSendGridSender(cfg.SendGridAPIKey)
	case ProviderSES:
		sender, err = NewSESSender(ctx, cfg.AWSRegion)
	case ProviderSMTP:
		if cfg.SMTPHost == "" {
			return nil, provider, fmt.Errorf("smtp: %w: missing host", ErrNotConfigured)
		}
		sender = NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	case ProviderStub:
		sender = NewStubSender(logger)
	default:
		return nil, provider, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	if err != nil {
		return nil, provider, err
	}

	return sender, provider, nil
}
