package push

import "errors"

var (
	// ErrAlreadyOpen is returned when Subscribe is called while a
	// subscription is live.
	ErrAlreadyOpen = errors.New("channel already open")
)
