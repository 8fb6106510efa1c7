// Package errors provides structured error types for agrikit.
//
// Every failure the toolkit, the stores and the CLI return carries a [Code]
// that callers can branch on, and wraps the error that caused it.
//
// Misses in caches, empty searches and an empty undo log are not errors:
// they are reported as comma-ok results. Codes are reserved for failures a
// caller has to act on.
//
// # Error Codes
//
//   - INVALID_*: Input validation failures
//   - NOT_FOUND: Entity or record missing
//   - RESTORATION_FAILED: an undo could not be written back
//   - INTERNAL_ERROR: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidRecord, "entity type %q is empty", rec.EntityType)
//	if errors.Is(err, errors.ErrCodeInvalidRecord) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRestorationFailed, storeErr, "recreate %s/%d", typ, id)
package errors

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidQuery  Code = "INVALID_QUERY"
	ErrCodeInvalidRecord Code = "INVALID_RECORD"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeEntityNotFound Code = "ENTITY_NOT_FOUND"

	// Undo errors
	ErrCodeRestorationFailed Code = "RESTORATION_FAILED"
	ErrCodeUnsupportedKind   Code = "UNSUPPORTED_KIND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error pairs a [Code] with a message and, optionally, the error that
// caused it.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error formats as "CODE: message" or "CODE: message: cause".
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error without a cause.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an *Error whose cause is cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// outermost returns the first *Error in err's chain.
func outermost(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in err's chain carries code. A
// store failure wrapped as RESTORATION_FAILED is RESTORATION_FAILED, not
// ENTITY_NOT_FOUND; use [Has] to look further down.
func Is(err error, code Code) bool {
	e, ok := outermost(err)
	return ok && e.Code == code
}

// Has reports whether any *Error in err's chain carries code.
func Has(err error, code Code) bool {
	return slices.Contains(Codes(err), code)
}

// Codes lists the codes in err's chain, outermost first.
func Codes(err error) []Code {
	var codes []Code
	for err != nil {
		e, ok := outermost(err)
		if !ok {
			break
		}
		codes = append(codes, e.Code)
		err = e.Cause
	}
	return codes
}

// GetCode returns the outermost code in err's chain, or "" for errors that
// carry none.
func GetCode(err error) Code {
	if e, ok := outermost(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the outermost message without its code prefix or
// cause, falling back to err.Error().
func UserMessage(err error) string {
	if e, ok := outermost(err); ok {
		return e.Message
	}
	return err.Error()
}
