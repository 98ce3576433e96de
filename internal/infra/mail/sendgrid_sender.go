package mail

import (
	"context"
	"fmt"
	netmail "net/mail"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridSender struct {
	client *sendgrid.Client
}

func NewSendGridSender(apiKey string) (*SendGridSender, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("sendgrid: %w: missing API key", ErrNotConfigured)
	}
	return &SendGridSender{client: sendgrid.NewSendClient(apiKey)}, nil
}

// buildSendGridMessage splits "Name <addr>" senders into SendGrid's two
// fields and puts every recipient on a single personalization.
func buildSendGridMessage(msg Message) (*sgmail.SGMailV3, error) {
	if len(msg.To) == 0 {
		return nil, ErrNoRecipient
	}

	fromAddr, err := netmail.ParseAddress(msg.From)
	if err != nil {
		return nil, fmt.Errorf("sendgrid: invalid sender %q: %w", msg.From, err)
	}

	from := sgmail.NewEmail(fromAddr.Name, fromAddr.Address)
	message := sgmail.NewSingleEmail(from, msg.Subject, sgmail.NewEmail("", msg.To[0]), msg.Text, msg.HTML)
	for _, to := range msg.To[1:] {
		message.Personalizations[0].AddTos(sgmail.NewEmail("", to))
	}
	return message, nil
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	message, err := buildSendGridMessage(msg)
	if err != nil {
		return err
	}

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: provider returned status %d", response.StatusCode)
	}

	return nil
}
