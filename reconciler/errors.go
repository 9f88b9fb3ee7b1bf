package reconciler

import (
	"errors"
	"fmt"

	"github.com/crmarques/connectorctl/faults"
	"github.com/crmarques/connectorctl/resource"
)

// DuplicateResourceError reports that more than one remote resource matches
// the same workspace, definition and name. The remote state must be fixed by
// hand; retrying cannot help.
type DuplicateResourceError struct {
	Kind    resource.Kind
	Name    string
	Matches int
	err     error
}

func (e *DuplicateResourceError) Error() string {
	if e == nil || e.err == nil {
		return "<nil>"
	}
	return e.err.Error()
}

func (e *DuplicateResourceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

func newDuplicateResourceError(kind resource.Kind, name string, matches int) error {
	return &DuplicateResourceError{
		Kind:    kind,
		Name:    name,
		Matches: matches,
		err: faults.NewTypedError(
			faults.ConflictError,
			fmt.Sprintf("two or more resources exist with the same name: %d %ss named %q", matches, kind, name),
			nil,
		),
	}
}

// InvalidConfigurationError is returned when the control plane rejects a
// payload as unprocessable (HTTP 422).
type InvalidConfigurationError struct {
	Kind resource.Kind
	Name string
	err  error
}

func (e *InvalidConfigurationError) Error() string {
	if e == nil || e.err == nil {
		return "<nil>"
	}
	return e.err.Error()
}

func (e *InvalidConfigurationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

func newInvalidConfigurationError(kind resource.Kind, name string, cause error) error {
	return &InvalidConfigurationError{
		Kind: kind,
		Name: name,
		err: faults.NewTypedError(
			faults.ValidationError,
			fmt.Sprintf("%s %q: your configuration is invalid, please make sure it complies with the connector definitions", kind, name),
			cause,
		),
	}
}

// AttributeError is returned by Attribute for names that are neither modeled
// fields nor keys of the resource file.
type AttributeError struct {
	Kind resource.Kind
	Name string
}

func (e *AttributeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s.%s is invalid", e.Kind.Title(), e.Name)
}

func (e *AttributeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return faults.NewTypedError(faults.ValidationError, e.Error(), nil)
}

func IsDuplicateResource(err error) bool {
	var target *DuplicateResourceError
	return errors.As(err, &target)
}

func IsInvalidConfiguration(err error) bool {
	var target *InvalidConfigurationError
	return errors.As(err, &target)
}

func IsAttributeNotFound(err error) bool {
	var target *AttributeError
	return errors.As(err, &target)
}

func validationError(message string, cause error) error {
	return faults.NewValidationError(message, cause)
}
