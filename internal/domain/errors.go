package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
)

// ValidationError marks failures the customer can fix by changing their input.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string { return e.Message }

func NewValidationError(msg string) error {
	return ValidationError{Message: msg}
}

// IsValidation helps callers distinguish between business and infrastructure failures.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}
