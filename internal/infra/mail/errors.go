package mail

import "errors"

var (
	ErrNoRecipient     = errors.New("email must have at least one recipient")
	ErrNotConfigured   = errors.New("mail provider not configured")
	ErrUnknownProvider = errors.New("unknown mail provider")
)
