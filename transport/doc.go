// Package transport is the HTTP collaborator the AuthProxy SDK talks through.
//
// The Client interface is what the protocol layers depend on; HTTP is the
// default implementation over net/http. Every server reply is the JSON
// envelope {result, error}; Do decodes it and returns it as a Response so
// callers can pattern-match outcomes instead of re-parsing bodies.
//
// Connection-level failures and non-2xx statuses come back as errors wrapping
// ErrTransport; a 401 wraps ErrUnauthenticated, which is what drives the
// session guard's single re-authentication retry.
package transport
