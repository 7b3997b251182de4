// Package errors provides structured error types for the matrix pipeline.
//
// Every failure a request can hit (generation unavailable, no JSON in the
// response, undecodable JSON, schema violations, bad input) carries a Code
// so hosts can turn it into a user-visible message without string matching.
//
//	err := errors.New(errors.ErrCodeNoJSONFound, "no JSON array in response")
//	if errors.Is(err, errors.ErrCodeNoJSONFound) {
//	    // report to the user
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Generation boundary
	ErrCodeGenerationUnavailable Code = "GENERATION_UNAVAILABLE"

	// Response parsing
	ErrCodeNoJSONFound     Code = "NO_JSON_FOUND"
	ErrCodeInvalidJSON     Code = "INVALID_JSON"
	ErrCodeSchemaViolation Code = "SCHEMA_VIOLATION"

	// Input and output
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeUnsupportedFormat Code = "UNSUPPORTED_FORMAT"
	ErrCodeRenderFailed      Code = "RENDER_FAILED"
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
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix for *Error values,
// and the plain error string otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsParseFailure reports whether err is one of the response parsing failures.
func IsParseFailure(err error) bool {
	switch GetCode(err) {
	case ErrCodeNoJSONFound, ErrCodeInvalidJSON, ErrCodeSchemaViolation:
		return true
	}
	return false
}
