package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")

	ErrQualityOutOfRange = errors.New("quality out of range")
	ErrScheduleFailed    = errors.New("schedule failed")
	ErrQueueBuildFailed  = errors.New("queue build failed")
)

// ErrorCode identifies a scheduling engine failure.
type ErrorCode string

const (
	CodeQualityOutOfRange ErrorCode = "QUALITY_OUT_OF_RANGE"
	CodeScheduleFailed    ErrorCode = "SCHEDULE_FAILED"
	CodeQueueBuildFailed  ErrorCode = "QUEUE_BUILD_FAILED"
)

func (c ErrorCode) String() string { return string(c) }

// sentinel returns the sentinel error matching the code.
func (c ErrorCode) sentinel() error {
	switch c {
	case CodeQualityOutOfRange:
		return ErrQualityOutOfRange
	case CodeScheduleFailed:
		return ErrScheduleFailed
	case CodeQueueBuildFailed:
		return ErrQueueBuildFailed
	}
	return nil
}

// EngineError is the {code, message} error returned by the scheduling engine.
// errors.Is matches both the code's sentinel and the wrapped cause.
type EngineError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *EngineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *EngineError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Code.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewEngineError creates an EngineError with an optional cause.
func NewEngineError(code ErrorCode, message string, cause error) *EngineError {
	return &EngineError{Code: code, Message: message, Err: cause}
}

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s — %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
