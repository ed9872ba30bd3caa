// Package errors provides structured error types for stackplot.
//
// Every package in the module reports failures through [*Error], which carries
// a machine-readable [Code] next to a human-readable message. This enables:
//   - Consistent error handling across the core, the CLI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Template, conversion or input validation failures
//   - *_NOT_FOUND: Missing columns or files
//   - UNINITIALIZED_*: Accessors used before construction completed
//   - INTERNAL_*: Unexpected internal errors
//
// None of these errors are transient: they signal misconfiguration and are
// never retried.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConversion, "unsupported conversion %q", code)
//	if errors.Is(err, errors.ErrCodeInvalidConversion) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidSource, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Core errors
	ErrCodeInvalidConversion    Code = "INVALID_CONVERSION_CODE"
	ErrCodeInvalidColorScale    Code = "INVALID_COLOR_SCALE"
	ErrCodeInvalidPlotType      Code = "INVALID_PLOT_TYPE"
	ErrCodeUninitializedHeatmap Code = "UNINITIALIZED_HEATMAP"

	// Template and input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidTemplate Code = "INVALID_TEMPLATE"
	ErrCodeInvalidAxisType Code = "INVALID_AXIS_TYPE"
	ErrCodeInvalidLevel    Code = "INVALID_LEVEL"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidSource   Code = "INVALID_SOURCE"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeColumnNotFound Code = "COLUMN_NOT_FOUND"
	ErrCodeFileNotFound   Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsValidation reports whether err was caused by bad input rather than an
// internal failure. The HTTP API maps these to 400 responses.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidConversion, ErrCodeInvalidColorScale, ErrCodeInvalidPlotType,
		ErrCodeInvalidInput, ErrCodeInvalidTemplate, ErrCodeInvalidAxisType,
		ErrCodeInvalidLevel, ErrCodeInvalidFormat, ErrCodeInvalidSource,
		ErrCodeInvalidPath, ErrCodeColumnNotFound:
		return true
	}
	return false
}
