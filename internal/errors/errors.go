// Package errors provides the structured error types of the motion engine.
//
// Errors carry a machine-readable Code so that callers can tell recoverable
// per-frame conditions (a generator that produced the wrong layout, a particle
// that went non-finite) from startup failures (an invalid tunable):
//
//	err := errors.New(errors.CodeGeometry, "shape %d: got %d points", id, n)
//	if errors.Is(err, errors.CodeGeometry) {
//	    // fall back to the previous frame's geometry
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// CodeGeometry marks a shape generator that failed to produce the fixed
	// point count or subpath layout.
	CodeGeometry Code = "GEOMETRY"
	// CodeNumericInstability marks non-finite particle state.
	CodeNumericInstability Code = "NUMERIC_INSTABILITY"
	// CodeInputUnavailable marks an absent camera or gesture tracker.
	CodeInputUnavailable Code = "INPUT_UNAVAILABLE"
	// CodeConfiguration marks an invalid tunable. Only raised at startup.
	CodeConfiguration Code = "CONFIGURATION"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
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

// Is reports whether err has the given error code anywhere in its chain.
func Is(err error, code Code) bool {
	return GetCode(err) == code
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

// Fatal reports whether err must stop the process. Only configuration errors
// are fatal; everything else is recovered within the frame that raised it.
func Fatal(err error) bool {
	return err != nil && Is(err, CodeConfiguration)
}
