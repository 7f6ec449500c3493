package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the base error for inputs rejected before any network
	// call is made.
	ErrValidation = errors.New("validation failed")

	// ErrProtocolFailure is the base error for well-formed server responses
	// that signal failure or are missing expected fields.
	ErrProtocolFailure = errors.New("protocol failure")
)

// ValidationError reports a malformed input. It never reaches the network.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ProtocolError reports a failure signaled by the server inside an otherwise
// successful exchange.
type ProtocolError struct {
	Op     string
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *ProtocolError) Unwrap() error { return ErrProtocolFailure }
