package keyring

import "errors"

var (
	// ErrEmptyChallenge is returned when Derive is handed an empty challenge.
	// A challenge belongs to exactly one derivation; an empty one means the
	// caller skipped the challenge fetch or decoded stale data.
	ErrEmptyChallenge = errors.New("empty challenge")
)
