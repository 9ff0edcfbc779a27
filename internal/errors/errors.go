package errors

import (
	"errors"
	"fmt"
)

// Application-specific errors
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrServiceUnavailable    = errors.New("service unavailable")
	ErrTimeout               = errors.New("operation timeout")
	ErrCatalogEmpty          = errors.New("catalog is empty")
	ErrClassifierUnavailable = errors.New("classifier unavailable")
	ErrClassifierSaturated   = errors.New("classifier saturated")
	ErrTrackingDisabled      = errors.New("behavior tracking disabled")
)

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target
func As(err error, target any) bool { return errors.As(err, target) }

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

func (e ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error `json:"errors"`
}

func (e MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", e.Errors[0].Error(), len(e.Errors)-1)
}

// Add adds an error to the MultiError
func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if there are any errors
func (e *MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ErrOrNil returns the MultiError as an error, or nil when it holds nothing
func (e *MultiError) ErrOrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return *e
}

// DatabaseError represents a database-related error
type DatabaseError struct {
	Operation string
	Err       error
}

func (e DatabaseError) Error() string {
	return fmt.Sprintf("database error during %s: %v", e.Operation, e.Err)
}

func (e DatabaseError) Unwrap() error {
	return e.Err
}

// ClassifierError wraps a failure of the primary classification collaborator
type ClassifierError struct {
	Stage string
	Err   error
}

func (e ClassifierError) Error() string {
	return fmt.Sprintf("classifier error at stage %s: %v", e.Stage, e.Err)
}

func (e ClassifierError) Unwrap() error {
	return e.Err
}

// CatalogError reports a catalog entry that cannot be used
type CatalogError struct {
	Kind string
	ID   string
	Err  error
}

func (e CatalogError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("catalog %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("catalog %s %q: %v", e.Kind, e.ID, e.Err)
}

func (e CatalogError) Unwrap() error {
	return e.Err
}
