package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type smtpDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender delivers through a plain SMTP relay.
type SMTPSender struct {
	Host   string
	Port   int
	User   string
	dialer smtpDialer
}

func NewSMTPSender(host string, port int, user, password string) *SMTPSender {
	return &SMTPSender{
		Host:   host,
		Port:   port,
		User:   user,
		dialer: gomail.NewDialer(host, port, user, password),
	}
}

func buildSMTPMessage(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}
	return m
}

// Send ignores ctx: gomail has no cancellation hook once the dial starts.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return ErrNoRecipient
	}

	if err := s.dialer.DialAndSend(buildSMTPMessage(msg)); err != nil {
		return fmt.Errorf("smtp: failed to send email: %w", err)
	}

	return nil
}
