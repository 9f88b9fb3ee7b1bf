// Package faults carries the categorized error type shared by every layer of
// connectorctl. Categories drive CLI exit codes; messages stay user facing.
package faults

import "errors"

type ErrorCategory string

const (
	ValidationError ErrorCategory = "ValidationError"
	NotFoundError   ErrorCategory = "NotFoundError"
	ConflictError   ErrorCategory = "ConflictError"
	AuthError       ErrorCategory = "AuthError"
	TransportError  ErrorCategory = "TransportError"
	InternalError   ErrorCategory = "InternalError"
)

type TypedError struct {
	Category ErrorCategory
	Message  string
	Cause    error
}

func (e *TypedError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return string(e.Category)
}

func (e *TypedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewTypedError(category ErrorCategory, message string, cause error) *TypedError {
	return &TypedError{
		Category: category,
		Message:  message,
		Cause:    cause,
	}
}

func NewValidationError(message string, cause error) error {
	return NewTypedError(ValidationError, message, cause)
}

func NewNotFoundError(message string, cause error) error {
	return NewTypedError(NotFoundError, message, cause)
}

func NewInternalError(message string, cause error) error {
	return NewTypedError(InternalError, message, cause)
}

// CategoryOf returns the category of the outermost TypedError in the chain.
func CategoryOf(err error) (ErrorCategory, bool) {
	if err == nil {
		return "", false
	}

	var typedErr *TypedError
	if !errors.As(err, &typedErr) {
		return "", false
	}
	return typedErr.Category, true
}

func IsCategory(err error, category ErrorCategory) bool {
	current, ok := CategoryOf(err)
	return ok && current == category
}
