// Package errors provides structured error types for pocheck with error
// categories, stable codes, and context propagation. Validation findings are
// never expressed as errors; this package covers the faults that abort or
// degrade a run (configuration, I/O, internal).
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	// ErrorTypeConfig marks caller errors detected pre-flight, before any
	// entry is processed. Config errors are fatal to the run.
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeIO marks corpus read/write failures.
	ErrorTypeIO ErrorType = "io"
	// ErrorTypeValidation marks malformed external input that is not a
	// finding (e.g. an unparseable corpus file).
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeInternal marks unexpected internal failures.
	ErrorTypeInternal ErrorType = "internal"
)

// CheckError is a structured error type with category, code and context.
type CheckError struct {
	Type    ErrorType
	Code    string
	Message string
	Cause   error
	Context map[string]interface{}
	// Recoverable indicates the run may continue past this error
	Recoverable bool
}

// Error implements the error interface.
func (e *CheckError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *CheckError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison by type and code.
func (e *CheckError) Is(target error) bool {
	var t *CheckError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *CheckError) WithContext(key string, value interface{}) *CheckError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// NewConfigError creates a configuration error. Configuration errors are
// caller errors: they are detected before any entry is processed and abort
// the run.
func NewConfigError(code, message string) *CheckError {
	return &CheckError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *CheckError {
	return &CheckError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewValidationError creates a validation error for malformed external input.
func NewValidationError(code, message string) *CheckError {
	return &CheckError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *CheckError {
	return &CheckError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// Wrap wraps an error with additional context, creating a CheckError if the
// input is not already one.
func Wrap(err error, errType ErrorType, code, message string) *CheckError {
	if err == nil {
		return nil
	}

	var ce *CheckError
	if errors.As(err, &ce) {
		return &CheckError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       ce,
			Context:     ce.Context,
			Recoverable: ce.Recoverable,
		}
	}

	return &CheckError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation,
	}
}

// IsConfigError reports whether err is (or wraps) a configuration error.
func IsConfigError(err error) bool {
	var ce *CheckError
	if errors.As(err, &ce) {
		return ce.Type == ErrorTypeConfig
	}

	return false
}

// IsRecoverable reports whether processing may continue past err.
func IsRecoverable(err error) bool {
	var ce *CheckError
	if errors.As(err, &ce) {
		return ce.Recoverable
	}

	return false
}
