package authproxy

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"github.com/itbuildgroup/authproxy-go/auth"
	"github.com/itbuildgroup/authproxy-go/config"
	"github.com/itbuildgroup/authproxy-go/internal/metrics"
	"github.com/itbuildgroup/authproxy-go/logging"
	"github.com/itbuildgroup/authproxy-go/push"
	"github.com/itbuildgroup/authproxy-go/session"
	"github.com/itbuildgroup/authproxy-go/transport"
)

const pathLogout = "auth/v1/logout"

// ErrNoUserKey is returned when re-authentication is needed but no user key
// was ever supplied to this client.
var ErrNoUserKey = errors.New("no user key supplied")

// authenticator is the handshake surface the guard depends on.
type authenticator interface {
	Login(ctx context.Context, secret string) (string, error)
}

// Client is an AuthProxy protocol client owning one logical session.
//
// It is safe for concurrent use. Re-authentication is a critical section: at
// most one attempt is in flight at a time, and concurrent callers that hit an
// expired session await that single attempt instead of racing their own.
type Client struct {
	cfg config.Config
	log *slog.Logger

	rpc      transport.Client
	sessions *session.Store

	handshake  authenticator
	enrollment *auth.Enrollment
	metrics    *metrics.Set

	mu     sync.Mutex
	secret string

	reauth singleflight.Group
}

// New constructs a Client with the default HTTP transport.
func New(cfg config.Config, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = logging.NewLogger(cfg.LogLevel)
	}
	rpc, err := transport.NewHTTP(cfg.BaseURL, cfg.HTTPTimeout, log)
	if err != nil {
		return nil, err
	}
	return NewWithTransport(cfg, log, rpc), nil
}

// NewWithTransport constructs a Client over an injected transport.
func NewWithTransport(cfg config.Config, log *slog.Logger, rpc transport.Client) *Client {
	if log == nil {
		log = logging.NewLogger(cfg.LogLevel)
	}

	var state *session.FileState
	if cfg.StateFile != "" {
		state = session.NewFileState(cfg.StateFile)
	}
	sessions := session.NewStore(log, state)

	return &Client{
		cfg:        cfg,
		log:        log,
		rpc:        rpc,
		sessions:   sessions,
		handshake:  auth.NewHandshake(log, rpc, sessions, cfg.ClientName),
		enrollment: auth.NewEnrollment(log, rpc, sessions, cfg.ClientName),
		metrics:    metrics.New(),
	}
}

// Sessions exposes the client's session store.
func (c *Client) Sessions() *session.Store { return c.sessions }

// Enrollment exposes the key-registration flow.
func (c *Client) Enrollment() *auth.Enrollment { return c.enrollment }

// RegisterMetrics registers the client's prometheus collectors on r.
func (c *Client) RegisterMetrics(r prometheus.Registerer) error {
	return c.metrics.Register(r)
}

// Login establishes a session with the given user key and remembers the key
// for automatic re-authentication.
func (c *Client) Login(ctx context.Context, secret string) (string, error) {
	c.mu.Lock()
	c.secret = secret
	c.mu.Unlock()

	status, err := c.handshake.Login(ctx, secret)
	if err != nil {
		c.metrics.ObserveHandshake("failure")
		return "", err
	}
	c.metrics.ObserveHandshake("success")
	return status, nil
}

// Logout invalidates the session server-side and clears local session state
// and the remembered user key.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.Call(ctx, http.MethodPost, pathLogout, nil)
	if err != nil {
		return err
	}
	if resp.Err != nil {
		return &auth.ProtocolError{Op: "logout", Reason: resp.Err.Message}
	}

	c.sessions.ClearSession()
	c.mu.Lock()
	c.secret = ""
	c.mu.Unlock()
	return nil
}

// Call performs a guarded protocol request.
//
// The current session cookie is attached when one is active. If the server
// answers unauthenticated, the session is cleared, one re-authentication is
// performed with the remembered user key, and the request is retried exactly
// once with the refreshed cookie. If re-authentication fails, the original
// unauthenticated error is returned.
func (c *Client) Call(ctx context.Context, method, path string, body any) (*transport.Response, error) {
	resp, err := c.rpc.Do(ctx, method, path, c.sessionHeaders(), body)
	if err == nil || !errors.Is(err, transport.ErrUnauthenticated) {
		return resp, err
	}

	c.sessions.ClearSession()
	if rerr := c.reauthenticate(ctx); rerr != nil {
		c.log.Warn("client.reauth", "err", rerr)
		return nil, err
	}
	return c.rpc.Do(ctx, method, path, c.sessionHeaders(), body)
}

// NewChannel returns a push channel bound to this client's session.
func (c *Client) NewChannel() *push.Channel {
	return push.New(c.log, c.rpc, c.sessions, c.cfg.PushBuffer, c.metrics.ObservePush)
}

// reauthenticate runs at most one concurrent handshake; parallel callers
// share its outcome.
func (c *Client) reauthenticate(ctx context.Context) error {
	_, err, _ := c.reauth.Do("reauth", func() (any, error) {
		// A caller that queued behind a finished attempt finds the session
		// already refreshed.
		if c.sessions.Active() {
			return nil, nil
		}

		c.mu.Lock()
		secret := c.secret
		c.mu.Unlock()
		if secret == "" {
			c.metrics.ObserveReauth("no_key")
			return nil, ErrNoUserKey
		}

		if _, err := c.handshake.Login(ctx, secret); err != nil {
			c.metrics.ObserveReauth("failure")
			return nil, err
		}
		c.metrics.ObserveReauth("success")
		return nil, nil
	})
	return err
}

func (c *Client) sessionHeaders() http.Header {
	h := http.Header{}
	if sid, ok := c.sessions.SessionID(); ok {
		h.Set("Cookie", "sid="+sid)
	}
	return h
}
