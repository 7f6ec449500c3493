// Package session holds the client's session-lifecycle state.
//
// A Store owns exactly two pieces of state: the current session identifier
// (absent until the first successful handshake) and a stable per-installation
// device identifier. The session id is written only by the login handshake on
// success and cleared only when an unauthenticated response is detected. The
// device id is minted once and never rotated within a process lifetime.
//
// FileState is the optional persistence collaborator: it keeps the device id
// in a small JSON file so the installation keeps its fingerprint across
// process restarts. Session ids are never persisted.
package session
