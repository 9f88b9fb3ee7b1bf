package api

import (
	"errors"
	"fmt"
)

// Error is a request the control plane answered with a non-success status.
type Error struct {
	Operation  Operation
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Body == "" {
		return fmt.Sprintf("%s failed with status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s failed with status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// StatusCode returns the HTTP status of the first *Error in the chain, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr == nil {
		return 0
	}
	return apiErr.StatusCode
}
