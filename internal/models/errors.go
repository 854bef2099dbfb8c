package models

import (
	"errors"
	"fmt"
)

// Common error types
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrConflict      = errors.New("operation conflicts with current state")
)

// AppError represents an application-level error with context
type AppError struct {
	Code    string
	Message string
	Err     error
	// Fields carries the per-field error list for VALIDATION_FAILED errors
	// so the HTTP layer can surface it verbatim to the form UI.
	Fields ValidationErrors
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrInvalidInput creates a validation error
func ErrInvalidInput(message string) error {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
	}
}

// ErrValidationFailed creates an error carrying field-level validation errors
func ErrValidationFailed(fields ValidationErrors) error {
	return &AppError{
		Code:    "VALIDATION_FAILED",
		Message: "one or more fields are invalid",
		Fields:  fields,
	}
}

// ErrNotFoundWithMsg creates a not found error with custom message
func ErrNotFoundWithMsg(message string) error {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: message,
		Err:     ErrNotFound,
	}
}

// ErrConflictWithMsg creates a conflict error with custom message
func ErrConflictWithMsg(message string) error {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Err:     ErrConflict,
	}
}

// ErrStaleRecord creates the optimistic-concurrency conflict error: the
// stored record changed since the client last read it. The caller must
// re-fetch and resubmit; there is no retry.
func ErrStaleRecord(message string) error {
	return &AppError{
		Code:    "STALE_RECORD",
		Message: message,
		Err:     ErrConflict,
	}
}
