// Package fault defines the error taxonomy shared by the survey engine.
//
// Every failure the engine reports to a caller belongs to one of four kinds:
//
//   - NotFound: a survey, question or session does not exist
//   - Conflict: the session is already completed
//   - BadInput: the submission is invalid for the current state
//   - Corruption: stored data violates an engine invariant
//
// Transports map kinds to their own status codes. Kinds are checked with the
// IsXxx helpers, which use errors.As and therefore see through wrapping.
package fault

import (
	"errors"
	"fmt"
)

// Kind categorizes an engine error.
type Kind string

const (
	KindNotFound   Kind = "NOT_FOUND"
	KindConflict   Kind = "CONFLICT"
	KindBadInput   Kind = "BAD_INPUT"
	KindCorruption Kind = "CORRUPTION"
)

// Error is a categorized engine error.
type Error struct {
	// Kind identifies the error category.
	Kind Kind

	// Message is the human-readable description surfaced to respondents.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind around a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NotFoundf formats a not-found error.
func NotFoundf(format string, args ...any) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...))
}

// Conflictf formats a conflict error.
func Conflictf(format string, args ...any) *Error {
	return New(KindConflict, fmt.Sprintf(format, args...))
}

// BadInputf formats a bad-input error.
func BadInputf(format string, args ...any) *Error {
	return New(KindBadInput, fmt.Sprintf(format, args...))
}

// Corruptionf formats a data-corruption error.
func Corruptionf(format string, args ...any) *Error {
	return New(KindCorruption, fmt.Sprintf(format, args...))
}

// KindOf returns the kind of err, or "" if err is not a fault.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// MessageOf returns the respondent-facing message of err.
// For non-fault errors it returns err.Error().
func MessageOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// IsNotFound reports whether err is a not-found fault.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsConflict reports whether err is a conflict fault.
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}

// IsBadInput reports whether err is a bad-input fault.
func IsBadInput(err error) bool {
	return KindOf(err) == KindBadInput
}

// IsCorruption reports whether err is a data-corruption fault.
func IsCorruption(err error) bool {
	return KindOf(err) == KindCorruption
}
