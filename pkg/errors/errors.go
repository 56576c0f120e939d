// Package errors provides structured error types for PianoXL.
//
// Errors carry a machine-readable [Code] so that the CLI and the preview
// server can map failures to exit messages and HTTP statuses without
// string matching.
//
// # Error Codes
//
//   - INVALID_*: bad input (viewport, format, design table)
//   - NOT_*: missing state (not initialized, not found)
//   - STORE_UNAVAILABLE: a state backend could not be reached
//   - INTERNAL_ERROR / UNSUPPORTED: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidViewport, "width must be positive, got %v", w)
//	if errors.Is(err, errors.ErrCodeInvalidViewport) {
//	    // reject request
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidConfig, parseErr, "decode %s", path)
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidViewport Code = "INVALID_VIEWPORT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidControl  Code = "INVALID_CONTROL"

	// Lifecycle errors
	ErrCodeNotInitialized Code = "NOT_INITIALIZED"
	ErrCodeNotFound       Code = "NOT_FOUND"

	// Backend errors
	ErrCodeStoreUnavailable Code = "STORE_UNAVAILABLE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// Exit codes returned by the pianoxl binary.
const (
	ExitFailure     = 1
	ExitUsage       = 2
	ExitUnavailable = 69
	ExitInterrupted = 130
)

// status holds the HTTP status and process exit code for each code.
var status = map[Code]struct{ http, exit int }{
	ErrCodeInvalidInput:     {400, ExitUsage},
	ErrCodeInvalidViewport:  {400, ExitUsage},
	ErrCodeInvalidFormat:    {400, ExitUsage},
	ErrCodeInvalidControl:   {400, ExitUsage},
	ErrCodeInvalidConfig:    {500, ExitFailure},
	ErrCodeNotFound:         {404, ExitFailure},
	ErrCodeNotInitialized:   {409, ExitFailure},
	ErrCodeStoreUnavailable: {503, ExitUnavailable},
	ErrCodeUnsupported:      {501, ExitFailure},
}

// HTTPStatus maps an error code to the status the preview server replies with.
func HTTPStatus(err error) int {
	if s, ok := status[GetCode(err)]; ok {
		return s.http
	}
	return 500
}

// ExitCode maps err to the process exit code. Bad input exits like a usage
// error; an unreachable store uses EX_UNAVAILABLE from sysexits.h.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	}
	if s, ok := status[GetCode(err)]; ok {
		return s.exit
	}
	return ExitFailure
}
