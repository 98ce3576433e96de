package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xavierca1/allinone-plumbing/internal/entity"
)

const (
	minNameLength  = 2
	minPhoneLength = 10
	minZipLength   = 5
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors holds one entry per failing field, in field order.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ByField returns the messages keyed by field name, the shape the form uses
// to render inline errors.
func (errs ValidationErrors) ByField() map[string]string {
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		out[e.Field] = e.Message
	}
	return out
}

// ValidateQuoteRequest runs the quote form rules. The browser form and the
// intake endpoint both call it, so the two can never disagree.
func ValidateQuoteRequest(input entity.QuoteRequest) ValidationErrors {
	var errors ValidationErrors

	if utf8.RuneCountInString(input.Name) < minNameLength {
		errors = append(errors, ValidationError{"name", "Name must be at least 2 characters"})
	}

	if utf8.RuneCountInString(input.Phone) < minPhoneLength {
		errors = append(errors, ValidationError{"phone", "Please enter a valid phone number"})
	}

	if utf8.RuneCountInString(input.Zip) < minZipLength {
		errors = append(errors, ValidationError{"zip", "Please enter a valid ZIP code"})
	}

	if input.Service == "" {
		errors = append(errors, ValidationError{"service", "Please select a service"})
	}

	if input.PreferredTime == "" {
		errors = append(errors, ValidationError{"preferredTime", "Please select a preferred time"})
	}

	return errors
}

// ParseQuoteRequest returns the request ready for delivery, or a
// ValidationErrors naming every field that failed.
func ParseQuoteRequest(input entity.QuoteRequest) (entity.QuoteRequest, error) {
	if errs := ValidateQuoteRequest(input); len(errs) > 0 {
		return entity.QuoteRequest{}, errs
	}
	return input, nil
}
