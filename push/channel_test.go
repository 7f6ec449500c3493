package push

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/itbuildgroup/authproxy-go/session"
	"github.com/itbuildgroup/authproxy-go/transport"
)

// fakeStreams is a transport.Client that only serves Stream.
type fakeStreams struct {
	mu      sync.Mutex
	opens   int
	headers http.Header
	next    func() (io.ReadCloser, error)
}

func (f *fakeStreams) Do(context.Context, string, string, http.Header, any) (*transport.Response, error) {
	return nil, fmt.Errorf("do not supported by fake")
}

func (f *fakeStreams) Stream(_ context.Context, path string, headers http.Header) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if path != pathSubscribe {
		return nil, fmt.Errorf("unexpected path %q", path)
	}
	f.opens++
	f.headers = headers
	return f.next()
}

func (f *fakeStreams) openCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens
}

func activeStore() *session.Store {
	s := session.NewStore(nil, nil)
	s.SetSessionID("sid-1")
	return s
}

func waitClosed(t *testing.T, ch *Channel) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for ch.Open() {
		if time.Now().After(deadline) {
			t.Fatalf("channel still open")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSubscribe_RequiresSession(t *testing.T) {
	rpc := &fakeStreams{next: func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("")), nil
	}}
	ch := New(nil, rpc, session.NewStore(nil, nil), 4, nil)

	_, err := ch.Subscribe(context.Background())
	if !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if rpc.openCount() != 0 {
		t.Fatalf("stream opened without a session")
	}
}

func TestSubscribe_DeliversDecodedAndRaw(t *testing.T) {
	stream := "event: note\n" +
		"data: {\"n\":1}\n" +
		"\n" +
		": keep-alive\n" +
		"data: not-json{\n" +
		"\n"
	rpc := &fakeStreams{next: func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(stream)), nil
	}}

	var observed []bool
	var obsMu sync.Mutex
	ch := New(nil, rpc, activeStore(), 4, func(decoded bool) {
		obsMu.Lock()
		observed = append(observed, decoded)
		obsMu.Unlock()
	})

	events, err := ch.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if got := rpc.headers.Get("Cookie"); got != "sid=sid-1" {
		t.Fatalf("cookie at connection time: %q", got)
	}

	first, ok := <-events
	if !ok {
		t.Fatalf("stream closed before first event")
	}
	if !first.Decoded || first.Name != "note" {
		t.Fatalf("first event: %+v", first)
	}
	if m, ok := first.Data.(map[string]any); !ok || m["n"] != float64(1) {
		t.Fatalf("decoded payload: %#v", first.Data)
	}

	second, ok := <-events
	if !ok {
		t.Fatalf("stream closed before second event")
	}
	if second.Decoded {
		t.Fatalf("undecodable payload reported as decoded: %+v", second)
	}
	if string(second.Raw) != "not-json{" {
		t.Fatalf("raw payload: %q", second.Raw)
	}

	if _, ok := <-events; ok {
		t.Fatalf("expected channel to close at end of stream")
	}
	waitClosed(t, ch)

	obsMu.Lock()
	defer obsMu.Unlock()
	if len(observed) != 2 || !observed[0] || observed[1] {
		t.Fatalf("observer calls: %v", observed)
	}
}

func TestSubscribe_RefusesConcurrentOpen(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	rpc := &fakeStreams{next: func() (io.ReadCloser, error) { return pr, nil }}
	ch := New(nil, rpc, activeStore(), 4, nil)

	if _, err := ch.Subscribe(context.Background()); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if _, err := ch.Subscribe(context.Background()); !errors.Is(err, ErrAlreadyOpen) {
		t.Fatalf("expected ErrAlreadyOpen, got %v", err)
	}
	_ = ch.Close()
}

func TestClose_StopsDeliveryAndAllowsReopen(t *testing.T) {
	pr, pw := io.Pipe()
	rpc := &fakeStreams{next: func() (io.ReadCloser, error) { return pr, nil }}
	ch := New(nil, rpc, activeStore(), 4, nil)

	events, err := ch.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	go func() {
		_, _ = pw.Write([]byte("data: {\"n\":1}\n\n"))
	}()
	if evt, ok := <-events; !ok || !evt.Decoded {
		t.Fatalf("expected one event before close, got (%+v, %v)", evt, ok)
	}

	if err := ch.Close(); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("Close: %v", err)
	}

	// No further events after Close; the channel drains shut.
	for evt := range events {
		t.Fatalf("event after close: %+v", evt)
	}
	waitClosed(t, ch)

	if err := ch.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	// A fresh stream can be opened afterwards.
	rpc.mu.Lock()
	rpc.next = func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("data: {\"ok\":true}\n\n")), nil
	}
	rpc.mu.Unlock()

	events, err = ch.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("Subscribe after close: %v", err)
	}
	if evt, ok := <-events; !ok || !evt.Decoded {
		t.Fatalf("reopened stream event: (%+v, %v)", evt, ok)
	}
}

func TestSubscribe_StreamErrorSurfaces(t *testing.T) {
	rpc := &fakeStreams{next: func() (io.ReadCloser, error) {
		return nil, &transport.StatusError{Method: "GET", Path: pathSubscribe, Status: 401}
	}}
	ch := New(nil, rpc, activeStore(), 4, nil)

	if _, err := ch.Subscribe(context.Background()); !errors.Is(err, transport.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if ch.Open() {
		t.Fatalf("failed subscribe left the channel open")
	}
}
