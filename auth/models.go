package auth

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/itbuildgroup/authproxy-go/session"
)

// Protocol paths, relative to the configured base URL.
const (
	pathLoginOptions    = "auth/v1/login_options"
	pathLogin           = "auth/v1/login"
	pathResetPassword   = "auth/v1/reset_password"
	pathRegisterOptions = "auth/v1/register_options"
	pathRegisterKey     = "auth/v1/register_key"
)

const (
	headerDeviceID  = "X-Device-Id"
	headerClientApp = "X-Client-App"

	// statusFailure is the result string the server uses to reject an
	// otherwise well-formed exchange.
	statusFailure = "Failure"
)

// AuthOptions is the server-returned challenge bundle. For enrollment the
// registration-specific challenge is nested under Registration; some server
// builds return it flat, so the top-level fields double as a fallback.
type AuthOptions struct {
	Challenge    string               `json:"challenge"`
	ChallengeID  string               `json:"challenge_id"`
	Registration *RegistrationOptions `json:"registration,omitempty"`
}

// RegistrationOptions carries the enrollment challenge.
type RegistrationOptions struct {
	Challenge   string `json:"challenge"`
	ChallengeID string `json:"challenge_id"`
}

type loginRequest struct {
	ChallengeID string  `json:"challenge_id"`
	PublicKey   string  `json:"public_key"`
	Signature   string  `json:"signature"`
	Credential  *string `json:"credential"`
}

type resetRequest struct {
	Phone string `json:"phone"`
}

type registerOptionsRequest struct {
	Code string `json:"code"`
}

type registerKeyRequest struct {
	ChallengeID string `json:"challenge_id"`
	Code        string `json:"code"`
	PublicKey   string `json:"public_key"`
	Signature   string `json:"signature"`
}

// identityHeaders builds the device- and client-identity headers attached to
// every protocol call of the auth flows.
func identityHeaders(sessions *session.Store, clientName string) http.Header {
	h := http.Header{}
	h.Set(headerDeviceID, sessions.DeviceID())
	if clientName != "" {
		h.Set(headerClientApp, clientName)
	}
	return h
}

// decodeChallenge turns the server's base64url challenge into bytes. Padded
// input is tolerated.
func decodeChallenge(s string) ([]byte, error) {
	s = strings.TrimRight(strings.TrimSpace(s), "=")
	if s == "" {
		return nil, fmt.Errorf("empty challenge")
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("malformed challenge: %w", err)
	}
	return b, nil
}
