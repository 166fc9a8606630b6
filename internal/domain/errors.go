package domain

import "errors"

var (
	ErrLeadNotFound    = errors.New("lead not found")
	ErrClientNotFound  = errors.New("client not found")
	ErrForbiddenTenant = errors.New("resource belongs to another client")
	ErrInvalidInput    = errors.New("invalid input")
)

// ValidationError is a field-level validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
