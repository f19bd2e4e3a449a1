// Package errors provides structured error types for the porenet application.
//
// The algorithm packages (network, topo, mixture, transport) report plain
// sentinel errors; the CLI and API boundaries wrap them with codes from
// this package before they reach a user. A [Code] travels with the error
// through the chain, so the CLI can pick an exit message and the API an
// HTTP status without string matching.
//
// # Codes
//
// The code names group by failure class: INVALID_* for rejected input,
// *_NOT_FOUND for missing resources, STORE_* and TIMEOUT for persistence
// faults, INTERNAL_* for everything that should not happen.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidRecipe, "recipe needs a [network] block")
//	if errors.Is(err, errors.ErrCodeInvalidRecipe) {
//	    // reject the recipe
//	}
//
//	// keep the original error in the chain
//	err := errors.Wrap(errors.ErrCodeStore, origErr, "saving project %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code identifies an error class to machines. User-facing text lives in
// the message, never in the code.
type Code string

const (
	// Rejected input
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidRecipe      Code = "INVALID_RECIPE"
	ErrCodeInvalidNetwork     Code = "INVALID_NETWORK"
	ErrCodeInvalidComposition Code = "INVALID_COMPOSITION"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"
	ErrCodeIndexRange         Code = "INDEX_OUT_OF_RANGE"
	ErrCodeDisconnected       Code = "DISCONNECTED_NETWORK"

	// Missing resources
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeProjectNotFound Code = "PROJECT_NOT_FOUND"
	ErrCodeSpeciesNotFound Code = "SPECIES_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// Persistence faults
	ErrCodeStore   Code = "STORE_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Everything else
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error carries a code, a message, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error renders as "CODE: message" or "CODE: message: cause".
func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an Error from a code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error that keeps cause in the chain.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether some *Error in err's chain carries code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode returns the code of the first *Error in err's chain, or the
// empty string when there is none.
func GetCode(err error) Code {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}

// UserMessage returns the message of the first *Error in err's chain
// without the code prefix. Plain errors render as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	return e.Message
}
