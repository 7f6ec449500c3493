package authproxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/itbuildgroup/authproxy-go/auth"
	"github.com/itbuildgroup/authproxy-go/config"
	"github.com/itbuildgroup/authproxy-go/session"
	"github.com/itbuildgroup/authproxy-go/transport"
)

const freshCookie = "sid=fresh"

// guardRPC answers 401 until the session cookie is refreshed.
type guardRPC struct {
	mu      sync.Mutex
	calls   int
	cookies []string

	// barrier, when set, delays 401 replies until `need` calls have arrived,
	// so concurrent callers observe the expired session together.
	barrier chan struct{}
	need    int
	waiting int
}

func (g *guardRPC) Do(_ context.Context, _, path string, headers http.Header, _ any) (*transport.Response, error) {
	g.mu.Lock()
	g.calls++
	cookie := headers.Get("Cookie")
	g.cookies = append(g.cookies, cookie)

	if cookie != freshCookie {
		barrier := g.barrier
		if barrier != nil {
			g.waiting++
			if g.waiting == g.need {
				close(barrier)
			}
		}
		g.mu.Unlock()
		if barrier != nil {
			// Released once every concurrent caller has hit the 401.
			<-barrier
		}
		return nil, &transport.StatusError{Method: "POST", Path: path, Status: 401}
	}
	g.mu.Unlock()

	return &transport.Response{Status: 200, Header: http.Header{}, Result: []byte(`"ok"`)}, nil
}

func (g *guardRPC) Stream(context.Context, string, http.Header) (io.ReadCloser, error) {
	return nil, fmt.Errorf("stream not supported")
}

func (g *guardRPC) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// fakeAuth stands in for the login handshake.
type fakeAuth struct {
	mu       sync.Mutex
	attempts int
	fail     bool
	delay    time.Duration
	sessions *session.Store
}

func (f *fakeAuth) Login(_ context.Context, secret string) (string, error) {
	f.mu.Lock()
	f.attempts++
	fail := f.fail
	f.mu.Unlock()

	if fail {
		return "", &auth.ProtocolError{Op: "login", Reason: "server rejected the signed challenge"}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.sessions.SetSessionID("fresh")
	return "Success", nil
}

func (f *fakeAuth) attemptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

func newGuardedClient(rpc transport.Client) (*Client, *fakeAuth) {
	c := NewWithTransport(config.Config{ClientName: "test"}, nil, rpc)
	fa := &fakeAuth{sessions: c.sessions}
	c.handshake = fa
	c.secret = "remembered-key"
	return c, fa
}

func TestCall_AttachesSessionCookie(t *testing.T) {
	rpc := &guardRPC{}
	c, _ := newGuardedClient(rpc)
	c.sessions.SetSessionID("fresh")

	resp, err := c.Call(context.Background(), http.MethodPost, "auth/v1/anything", nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if s, _ := resp.ResultString(); s != "ok" {
		t.Fatalf("result: %q", s)
	}
	if rpc.cookies[0] != freshCookie {
		t.Fatalf("cookie: %q", rpc.cookies[0])
	}
}

func TestCall_ReauthAndSingleRetry(t *testing.T) {
	rpc := &guardRPC{}
	c, fa := newGuardedClient(rpc)
	c.sessions.SetSessionID("stale")

	resp, err := c.Call(context.Background(), http.MethodPost, "auth/v1/anything", nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if s, _ := resp.ResultString(); s != "ok" {
		t.Fatalf("result after retry: %q", s)
	}
	if fa.attemptCount() != 1 {
		t.Fatalf("re-auth attempts: %d", fa.attemptCount())
	}
	if rpc.callCount() != 2 {
		t.Fatalf("original call issued %d times", rpc.callCount())
	}
	if rpc.cookies[1] != freshCookie {
		t.Fatalf("retry cookie: %q", rpc.cookies[1])
	}
}

func TestCall_ReauthFailureReturnsOriginalError(t *testing.T) {
	rpc := &guardRPC{}
	c, fa := newGuardedClient(rpc)
	fa.fail = true
	c.sessions.SetSessionID("stale")

	_, err := c.Call(context.Background(), http.MethodPost, "auth/v1/anything", nil)
	if !errors.Is(err, transport.ErrUnauthenticated) {
		t.Fatalf("expected the original unauthenticated error, got %v", err)
	}
	if fa.attemptCount() != 1 {
		t.Fatalf("re-auth attempts: %d", fa.attemptCount())
	}
	if rpc.callCount() != 1 {
		t.Fatalf("failed re-auth still retried the call: %d calls", rpc.callCount())
	}
	if c.sessions.Active() {
		t.Fatalf("expired session left active")
	}
}

func TestCall_NoRememberedKey(t *testing.T) {
	rpc := &guardRPC{}
	c, fa := newGuardedClient(rpc)
	c.secret = ""
	c.sessions.SetSessionID("stale")

	_, err := c.Call(context.Background(), http.MethodPost, "auth/v1/anything", nil)
	if !errors.Is(err, transport.ErrUnauthenticated) {
		t.Fatalf("expected the original unauthenticated error, got %v", err)
	}
	if fa.attemptCount() != 0 {
		t.Fatalf("re-auth ran without a user key")
	}
}

func TestCall_ConcurrentCallersShareOneReauth(t *testing.T) {
	const callers = 8

	rpc := &guardRPC{barrier: make(chan struct{}), need: callers}
	c, fa := newGuardedClient(rpc)
	fa.delay = 100 * time.Millisecond
	c.sessions.SetSessionID("stale")

	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Call(context.Background(), http.MethodPost, "auth/v1/anything", nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("guarded call: %v", err)
		}
	}
	if got := fa.attemptCount(); got != 1 {
		t.Fatalf("concurrent callers triggered %d re-auth attempts", got)
	}
}

func TestLogout_ClearsSessionAndKey(t *testing.T) {
	rpc := &guardRPC{}
	c, _ := newGuardedClient(rpc)
	c.sessions.SetSessionID("fresh")

	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if c.sessions.Active() {
		t.Fatalf("session survived logout")
	}

	c.mu.Lock()
	secret := c.secret
	c.mu.Unlock()
	if secret != "" {
		t.Fatalf("user key survived logout")
	}
}
