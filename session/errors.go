package session

import "errors"

var (
	// ErrNoSession is returned by operations that require an active session
	// when none has been established.
	ErrNoSession = errors.New("no active session")
)
