package usecase

import "github.com/xavierca1/allinone-plumbing/internal/entity"

type SubmitQuoteInput struct {
	Request  entity.QuoteRequest
	ClientIP string
}

type SubmitQuoteOutput struct {
	// Suppressed is set when the server-side bot check swallowed the lead.
	// The caller answers exactly as if it had been delivered.
	Suppressed bool
	Subject    string
}
