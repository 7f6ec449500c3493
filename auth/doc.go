// Package auth implements the AuthProxy handshake and enrollment flows.
//
// Login is the challenge-response handshake: fetch a login challenge, derive
// and sign with the caller's user key, submit, and extract the sid session
// cookie into the session store. Enrollment is the client-driven three-step
// protocol that mints a new user key: request a reset code, exchange it for a
// registration challenge, then register a freshly derived keypair.
//
// Expected failures come back as structured errors (ErrValidation,
// ErrProtocolFailure, or the transport package's errors); the session store
// is mutated only on a fully successful handshake.
package auth
