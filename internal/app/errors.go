package app

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("app: validation failed")
	// ErrReadOnly is returned for writes to subscription events.
	ErrReadOnly = errors.New("app: event is read-only")
	// ErrNotFound is returned when an ID is not in the cached snapshot.
	ErrNotFound = errors.New("app: not found")
)

// ValidationError names the field that failed local validation. It is
// raised before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("app: invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func required(field string) error {
	return &ValidationError{Field: field, Reason: "required"}
}
