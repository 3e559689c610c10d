// Package llmerr defines the error taxonomy for the completion path.
// Failures from the upstream model API are mapped to these kinds so that
// callers can decide between surfacing the error and falling back.
package llmerr

import (
	"errors"
	"fmt"
)

// Kind classifies a completion-path failure.
type Kind string

const (
	// KindConfiguration means a required credential or setting is missing.
	// Detected before any network attempt; not retryable.
	KindConfiguration Kind = "configuration_error"

	// KindUpstream means the model API was unreachable, errored, timed out,
	// or returned a malformed payload.
	KindUpstream Kind = "upstream_error"

	// KindParse means the model responded but its output did not conform to
	// the expected structured schema.
	KindParse Kind = "parse_error"
)

// Error is a classified completion-path failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewConfiguration creates a configuration error.
func NewConfiguration(message string) *Error {
	return &Error{Kind: KindConfiguration, Message: message}
}

// NewUpstream creates an upstream error wrapping the cause.
func NewUpstream(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

// NewParse creates a parse error wrapping the cause.
func NewParse(message string, err error) *Error {
	return &Error{Kind: KindParse, Message: message, Err: err}
}

// IsKind reports whether err is a taxonomy error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool { return IsKind(err, KindConfiguration) }

// IsUpstream reports whether err is an upstream error.
func IsUpstream(err error) bool { return IsKind(err, KindUpstream) }

// IsParse reports whether err is a parse error.
func IsParse(err error) bool { return IsKind(err, KindParse) }
