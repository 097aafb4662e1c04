package api

import (
	"errors"
	"fmt"
)

// ErrRejected matches every *RejectedError via errors.Is.
var ErrRejected = errors.New("api: request rejected by backend")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s %s: status %d: %s", e.Method, e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("api: %s %s: status %d", e.Method, e.Path, e.Code)
}

// RejectedError is returned when a 2xx response carries success=false.
type RejectedError struct {
	Method  string
	Path    string
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %s %s: rejected", e.Method, e.Path)
	}
	return fmt.Sprintf("api: %s %s: rejected: %s", e.Method, e.Path, e.Message)
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}
