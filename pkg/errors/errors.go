// Package errors provides structured error types for the Arbor document engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Every recoverable failure in the engine maps to exactly one code:
//   - STRUCTURAL: an edit would violate a tree invariant
//   - NO_SELECTION: an operation requiring a selection was invoked with none
//   - EMPTY_CLIPBOARD: paste attempted with nothing copied
//   - ROOT_IMMUTABLE: an operation that cannot apply to the root node
//   - INCOMPATIBLE_FORMAT: a container could not be read, or is too new
//   - NO_PATH: save requested with no target and no remembered path
//
// # Usage
//
//	err := errors.New(errors.ErrCodeStructural, "node %q already has a parent", name)
//	if errors.Is(err, errors.ErrCodeStructural) {
//	    // Handle invariant violation
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIncompatibleFormat, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Tree invariant violations
	ErrCodeStructural    Code = "STRUCTURAL"
	ErrCodeRootImmutable Code = "ROOT_IMMUTABLE"

	// Document state errors
	ErrCodeNoSelection    Code = "NO_SELECTION"
	ErrCodeEmptyClipboard Code = "EMPTY_CLIPBOARD"
	ErrCodeEmptyDocument  Code = "EMPTY_DOCUMENT"

	// Persistence errors
	ErrCodeIncompatibleFormat Code = "INCOMPATIBLE_FORMAT"
	ErrCodeNoPath             Code = "NO_PATH"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

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

// TooNewError reports a container written by a newer major format version.
// It is carried as the cause of an INCOMPATIBLE_FORMAT error so that callers
// can surface the minimum version required to open the file.
type TooNewError struct {
	MinVersion string // Minimum Arbor version able to read the file
}

// Error implements the error interface.
func (e *TooNewError) Error() string {
	return fmt.Sprintf("file requires version %s or later", e.MinVersion)
}

// Code returns the error code for this error type.
func (e *TooNewError) Code() Code {
	return ErrCodeIncompatibleFormat
}

// MinVersion extracts the minimum compatible version from an error chain.
// Returns empty string if the error does not carry one.
func MinVersion(err error) string {
	var e *TooNewError
	if errors.As(err, &e) {
		return e.MinVersion
	}
	return ""
}
