// Package domainerrors provides coded errors for the chassis domain.
//
// Services and generators return these so callers (HTTP handlers, the
// document pipeline) can branch on the failure class without string
// matching. Infrastructure facts (not found, unavailable) live in
// pkg/platform/sentinel instead; stores return those and services
// translate them into domain errors at the boundary.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	// CodeInvalidParameter marks malformed caller input: wrong field
	// width, non-numeric sequence, missing template field. Always the
	// caller's fault; never retried.
	CodeInvalidParameter Code = "invalid_parameter"

	// CodeInvalidCharacter marks a character outside the identifier
	// alphabet (including the forbidden letters I, O, Q).
	CodeInvalidCharacter Code = "invalid_character"

	// CodeYearOutOfRange marks a model year outside the supported span.
	CodeYearOutOfRange Code = "year_out_of_range"

	// CodeUnknownManufacturer marks a prefix lookup miss. Recoverable by
	// falling back to an explicit manufacturer code.
	CodeUnknownManufacturer Code = "unknown_manufacturer"

	// CodeAmbiguousPattern marks sequence inference that cannot proceed.
	// Surfaced to the caller, never silently guessed.
	CodeAmbiguousPattern Code = "ambiguous_pattern"

	// CodeStorageFailure marks a failed counter persist. Fatal for the
	// current allocation; the store keeps its last known-good value.
	CodeStorageFailure Code = "storage_failure"

	// CodeInternal marks everything that should not happen.
	CodeInternal Code = "internal"
)

// Error is a domain error with a classification code.
type Error struct {
	code Code
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// Code returns the classification of the error.
func (e *Error) Code() Code { return e.code }

// New creates a domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{code: code, msg: msg}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// chain for errors.Is / errors.As.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{code: code, msg: msg, err: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if errors.As(err, &de) {
			if de.code == code {
				return true
			}
			err = de.err
			continue
		}
		return false
	}
	return false
}

// CodeOf returns the outermost domain code in the chain, or CodeInternal
// when the error carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return CodeInternal
}

// Is delegates to errors.Is so callers importing this package under an
// alias don't need both.
func Is(err, target error) bool { return errors.Is(err, target) }
