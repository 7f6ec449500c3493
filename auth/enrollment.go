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

// phonePattern accepts an optional leading + and 7 to 15 digits.
var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// Enrollment mints a new user key through the three-step registration
// protocol. The steps are independently invocable; the caller sequences them
// and must stop on the first failing step.
type Enrollment struct {
	log        *slog.Logger
	rpc        transport.Client
	sessions   *session.Store
	clientName string
}

// NewEnrollment constructs an Enrollment flow.
func NewEnrollment(log *slog.Logger, rpc transport.Client, sessions *session.Store, clientName string) *Enrollment {
	if log == nil {
		log = slog.Default()
	}
	return &Enrollment{log: log, rpc: rpc, sessions: sessions, clientName: clientName}
}

// RequestReset asks the server to deliver an out-of-band reset code to the
// given phone number and returns the server status string.
func (e *Enrollment) RequestReset(ctx context.Context, phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if !phonePattern.MatchString(phone) {
		return "", &ValidationError{Field: "phone", Reason: "not a well-formed phone number"}
	}

	resp, err := e.rpc.Do(ctx, http.MethodPost, pathResetPassword,
		identityHeaders(e.sessions, e.clientName), resetRequest{Phone: phone})
	if err != nil {
		return "", fmt.Errorf("request reset: %w", err)
	}
	if resp.Err != nil {
		return "", &ProtocolError{Op: "reset_password", Reason: resp.Err.Message}
	}

	status, ok := resp.ResultString()
	if !ok || status == statusFailure {
		return "", &ProtocolError{Op: "reset_password", Reason: "server refused the reset request"}
	}

	e.log.Info("auth.reset_requested")
	return status, nil
}

// InitializeEnrollment exchanges the delivered code for a fresh registration
// challenge bundle.
func (e *Enrollment) InitializeEnrollment(ctx context.Context, code string) (AuthOptions, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return AuthOptions{}, &ValidationError{Field: "code", Reason: "must not be empty"}
	}

	resp, err := e.rpc.Do(ctx, http.MethodPost, pathRegisterOptions,
		identityHeaders(e.sessions, e.clientName), registerOptionsRequest{Code: code})
	if err != nil {
		return AuthOptions{}, fmt.Errorf("fetch registration challenge: %w", err)
	}
	if resp.Err != nil {
		return AuthOptions{}, &ProtocolError{Op: "register_options", Reason: resp.Err.Message}
	}

	var opts AuthOptions
	if err := resp.DecodeResult(&opts); err != nil {
		return AuthOptions{}, &ProtocolError{Op: "register_options", Reason: "malformed challenge bundle"}
	}
	return opts, nil
}

// FinalizeEnrollment mints a new user key, signs the registration challenge
// with it, and submits the registration. On success the new user key is
// returned; it is never persisted by the SDK.
//
// The otp is checked for presence only. The protocol intends 6-digit codes,
// but the server is the authority on code shape, so length is not enforced
// client-side.
func (e *Enrollment) FinalizeEnrollment(ctx context.Context, otp string, opts AuthOptions) (string, error) {
	otp = strings.TrimSpace(otp)
	if otp == "" {
		return "", &ValidationError{Field: "otp", Reason: "must not be empty"}
	}

	challengeB64, challengeID := opts.Challenge, opts.ChallengeID
	if opts.Registration != nil {
		challengeB64, challengeID = opts.Registration.Challenge, opts.Registration.ChallengeID
	}

	challenge, err := decodeChallenge(challengeB64)
	if err != nil {
		return "", &ProtocolError{Op: "register_key", Reason: err.Error()}
	}

	userKey, err := keyring.NewUserKey()
	if err != nil {
		return "", fmt.Errorf("mint user key: %w", err)
	}

	kp, err := keyring.Derive(userKey, challenge)
	if err != nil {
		return "", &ValidationError{Field: "challenge", Reason: err.Error()}
	}

	resp, err := e.rpc.Do(ctx, http.MethodPost, pathRegisterKey,
		identityHeaders(e.sessions, e.clientName), registerKeyRequest{
			ChallengeID: challengeID,
			Code:        otp,
			PublicKey:   kp.PublicKey,
			Signature:   kp.Signature,
		})
	if err != nil {
		return "", fmt.Errorf("register key: %w", err)
	}
	if resp.Err != nil {
		return "", &ProtocolError{Op: "register_key", Reason: resp.Err.Message}
	}

	status, ok := resp.ResultString()
	if !ok || status == statusFailure {
		return "", &ProtocolError{Op: "register_key", Reason: "server rejected the registration"}
	}

	e.log.Info("auth.enrolled", "challenge_id", challengeID)
	return userKey, nil
}
