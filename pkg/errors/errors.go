// Package errors provides structured error types for pagereview.
//
// Errors carry a machine-readable [Code] so the CLI can choose exit
// behaviour and wording without string matching:
//   - INVALID_*: input validation failures
//   - *NOT_FOUND: missing pages, files or stored records
//   - INTERNAL_ERROR: unexpected failures
//
// The geometry packages never return errors. Degenerate input there yields
// a false ok value instead, and callers ignore the event.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidScope, "unknown scope %q", s)
//	if errors.Is(err, errors.ErrCodeInvalidScope) {
//	    // ...
//	}
//
//	err = errors.Wrap(errors.ErrCodeInvalidSidecar, cause, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidBox     Code = "INVALID_BOX"
	ErrCodeInvalidScope   Code = "INVALID_SCOPE"
	ErrCodeInvalidSidecar Code = "INVALID_SIDECAR"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodePageNotFound Code = "PAGE_NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

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

// Is reports whether the outermost *Error in err's chain has the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, or "" for foreign errors.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix. Foreign errors
// are returned as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsNotFound reports whether err carries any of the not-found codes.
func IsNotFound(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodePageNotFound, ErrCodeFileNotFound:
		return true
	}
	return false
}
