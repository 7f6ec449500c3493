package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport is the base error for connection failures and unexpected
	// HTTP statuses.
	ErrTransport = errors.New("transport error")

	// ErrUnauthenticated is returned for HTTP 401 responses, meaning the
	// session cookie is missing, invalid, or expired.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// RequestError is a connection-level failure: the exchange never completed.
type RequestError struct {
	Method string
	Path   string
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *RequestError) Unwrap() []error { return []error{ErrTransport, e.Err} }

// StatusError is an HTTP exchange that completed with a non-success status.
type StatusError struct {
	Method string
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Status)
}

func (e *StatusError) Unwrap() error {
	if e.Status == 401 {
		return ErrUnauthenticated
	}
	return ErrTransport
}
