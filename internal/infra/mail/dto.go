package mail

import "context"

// Message is one fully rendered email.
type Message struct {
	From    string
	To      []string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a message through one provider. Provider-side failures are
// returned, never swallowed.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
