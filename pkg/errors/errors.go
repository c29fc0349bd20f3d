// Package errors provides structured error types for funkyheatmap.
//
// Two kinds of problems are distinguished:
//   - Configuration errors are fatal. They abort construction of a heatmap and
//     are returned as *Error values carrying one of the configuration codes.
//   - Validation warnings are not fatal. They are recorded in a [Diagnostics]
//     collector, the affected feature falls back to a safe default, and the
//     render continues.
//
// # Error Codes
//
// Codes are upper-case identifiers. Configuration codes name what is wrong
// with the heatmap specification (MISSING_ID, UNKNOWN_PALETTE, ...); the
// remaining codes describe input, format and internal failures.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownPalette, "palette %q not defined", name)
//	if errors.IsConfiguration(err) {
//	    // abort the render
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Configuration errors. These are fatal and abort the build.
const (
	ErrCodeMissingID      Code = "MISSING_ID"
	ErrCodeUnknownField   Code = "UNKNOWN_FIELD"
	ErrCodeMissingWidth   Code = "MISSING_WIDTH"
	ErrCodeUnknownPalette Code = "UNKNOWN_PALETTE"
	ErrCodeUnknownGeom    Code = "UNKNOWN_GEOM"
	ErrCodeUnknownGroup   Code = "UNKNOWN_GROUP"
	ErrCodeInvalidLegend  Code = "INVALID_LEGEND"
)

// Input, output and internal errors.
const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeSuperseded    Code = "SUPERSEDED"
	ErrCodeInternal      Code = "INTERNAL_ERROR"
	ErrCodeUnsupported   Code = "UNSUPPORTED"
)

var configurationCodes = map[Code]bool{
	ErrCodeMissingID:      true,
	ErrCodeUnknownField:   true,
	ErrCodeMissingWidth:   true,
	ErrCodeUnknownPalette: true,
	ErrCodeUnknownGeom:    true,
	ErrCodeUnknownGroup:   true,
	ErrCodeInvalidLegend:  true,
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
// A cause that is itself an *Error contributes its message without repeating
// a code.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.detail())
}

func (e *Error) detail() string {
	if e.Cause == nil {
		return e.Message
	}
	var inner *Error
	if errors.As(e.Cause, &inner) {
		return e.Message + ": " + inner.detail()
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
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

// IsConfiguration reports whether err is a fatal configuration error.
func IsConfiguration(err error) bool {
	return configurationCodes[GetCode(err)]
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
