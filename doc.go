// Package authproxy is the Go client SDK for the AuthProxy passwordless
// authentication protocol.
//
// A Client owns one logical session. Login runs the challenge-response
// handshake (package auth) and stores the resulting sid cookie; Call wraps
// every subsequent protocol request with that cookie and transparently
// recovers an expired session with exactly one re-authentication attempt.
// NewChannel opens the server-push subscription (package push) gated on the
// active session.
//
// Minimal use:
//
//	cfg := config.LoadConfig()
//	client, err := authproxy.New(cfg, nil)
//	if err != nil { ... }
//	if _, err := client.Login(ctx, userKey); err != nil { ... }
//	resp, err := client.Call(ctx, http.MethodPost, "auth/v1/something", body)
package authproxy
