package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/itbuildgroup/authproxy-go/keyring"
	"github.com/itbuildgroup/authproxy-go/session"
	"github.com/itbuildgroup/authproxy-go/transport"
)

// sidPattern extracts the session id from a Set-Cookie response header.
var sidPattern = regexp.MustCompile(`sid=([^;]+)`)

// Handshake performs the sign-in sequence against the login endpoints.
//
// The sequence is strictly ordered: fetch challenge, derive and sign, submit,
// extract cookie. Each challenge is consumed by exactly one derivation; a
// failed step surfaces an error and leaves the session store untouched.
type Handshake struct {
	log        *slog.Logger
	rpc        transport.Client
	sessions   *session.Store
	clientName string
}

// NewHandshake constructs a Handshake bound to a session store.
func NewHandshake(log *slog.Logger, rpc transport.Client, sessions *session.Store, clientName string) *Handshake {
	if log == nil {
		log = slog.Default()
	}
	return &Handshake{log: log, rpc: rpc, sessions: sessions, clientName: clientName}
}

// Login runs the full handshake with the given user key and returns the raw
// server status string.
//
// An empty secret short-circuits with a validation error before any network
// call. On success the extracted session id is stored and the session becomes
// active; on any failure the previous session state is preserved.
func (h *Handshake) Login(ctx context.Context, secret string) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", &ValidationError{Field: "secret", Reason: "must not be empty"}
	}

	headers := identityHeaders(h.sessions, h.clientName)

	resp, err := h.rpc.Do(ctx, http.MethodGet, pathLoginOptions, headers, nil)
	if err != nil {
		return "", fmt.Errorf("fetch login challenge: %w", err)
	}
	if resp.Err != nil {
		return "", &ProtocolError{Op: "login_options", Reason: resp.Err.Message}
	}

	var opts AuthOptions
	if err := resp.DecodeResult(&opts); err != nil {
		return "", &ProtocolError{Op: "login_options", Reason: "malformed challenge bundle"}
	}

	challenge, err := decodeChallenge(opts.Challenge)
	if err != nil {
		return "", &ProtocolError{Op: "login_options", Reason: err.Error()}
	}

	kp, err := keyring.Derive(secret, challenge)
	if err != nil {
		return "", &ValidationError{Field: "challenge", Reason: err.Error()}
	}

	resp, err = h.rpc.Do(ctx, http.MethodPost, pathLogin, headers, loginRequest{
		ChallengeID: opts.ChallengeID,
		PublicKey:   kp.PublicKey,
		Signature:   kp.Signature,
		Credential:  nil,
	})
	if err != nil {
		return "", fmt.Errorf("submit login: %w", err)
	}
	if resp.Err != nil {
		return "", &ProtocolError{Op: "login", Reason: resp.Err.Message}
	}

	status, ok := resp.ResultString()
	if !ok || status == statusFailure {
		return "", &ProtocolError{Op: "login", Reason: "server rejected the signed challenge"}
	}

	sid, ok := ExtractSessionID(resp.Header)
	if !ok {
		return "", &ProtocolError{Op: "login", Reason: "response is missing the sid cookie"}
	}

	h.sessions.SetSessionID(sid)
	h.log.Info("auth.login", "status", status, "challenge_id", opts.ChallengeID)
	return status, nil
}

// ExtractSessionID scans Set-Cookie headers for the sid cookie.
func ExtractSessionID(header http.Header) (string, bool) {
	for _, sc := range header.Values("Set-Cookie") {
		if m := sidPattern.FindStringSubmatch(sc); m != nil && m[1] != "" {
			return m[1], true
		}
	}
	return "", false
}
