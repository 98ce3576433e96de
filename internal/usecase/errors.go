package usecase

import "errors"

// TechnicalError wraps failures of the infrastructure behind a use case,
// for instance the mail provider refusing a message.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var target *TechnicalError
	return errors.As(err, &target)
}

func IsValidationError(err error) bool {
	var target ValidationErrors
	return errors.As(err, &target)
}

const CodeDeliveryFailed = "DELIVERY_FAILED"
