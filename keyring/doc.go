// Package keyring implements the client-side key material for the AuthProxy
// passwordless protocol.
//
// A user key is a long-lived opaque secret string. Derive expands it into an
// Ed25519 keypair and signs a server-issued challenge with it. Derivation is a
// pure function: the same (secret, challenge) pair always produces the same
// public key and signature, and no private key material outlives the call.
//
// NewUserKey mints a fresh user key during enrollment: cryptographically
// random entropy pushed through a one-way digest, returned as lowercase hex.
package keyring
