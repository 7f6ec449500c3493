package push

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/itbuildgroup/authproxy-go/session"
	"github.com/itbuildgroup/authproxy-go/transport"
)

const pathSubscribe = "auth/v1/Subscribe"

// Event is one decoded push message.
type Event struct {
	// Name is the event field of the frame, when the server sets one.
	Name string
	// Data is the decoded JSON value; nil when decoding failed.
	Data any
	// Raw is the payload as received.
	Raw []byte
	// Decoded reports whether Data is populated.
	Decoded bool
}

// Channel is a push subscription with an explicit open/close lifecycle.
//
// The zero value is not usable; construct with New. A Channel owns its stream
// handle exclusively and must not be shared across client instances.
type Channel struct {
	log      *slog.Logger
	rpc      transport.Client
	sessions *session.Store
	buffer   int
	observe  func(decoded bool)

	mu  sync.Mutex
	cur *subscription
}

// subscription is the state of one open stream.
type subscription struct {
	body   io.ReadCloser
	cancel context.CancelFunc
	done   chan struct{}
	events chan Event
}

// New constructs a Channel. observe may be nil.
func New(log *slog.Logger, rpc transport.Client, sessions *session.Store, buffer int, observe func(decoded bool)) *Channel {
	if log == nil {
		log = slog.Default()
	}
	if buffer <= 0 {
		buffer = 64
	}
	return &Channel{log: log, rpc: rpc, sessions: sessions, buffer: buffer, observe: observe}
}

// Subscribe opens the push stream and returns the event sequence.
//
// It fails fast without an active session and while another subscription is
// open. The returned channel is closed when the stream ends, errors out, or
// Close is called; no events are delivered after that.
func (ch *Channel) Subscribe(ctx context.Context) (<-chan Event, error) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if ch.cur != nil {
		return nil, ErrAlreadyOpen
	}
	sid, ok := ch.sessions.SessionID()
	if !ok {
		return nil, session.ErrNoSession
	}

	sctx, cancel := context.WithCancel(ctx)
	headers := http.Header{}
	headers.Set("Cookie", "sid="+sid)

	body, err := ch.rpc.Stream(sctx, pathSubscribe, headers)
	if err != nil {
		cancel()
		return nil, err
	}

	sub := &subscription{
		body:   body,
		cancel: cancel,
		done:   make(chan struct{}),
		events: make(chan Event, ch.buffer),
	}
	ch.cur = sub

	ch.log.Info("push.open")
	go ch.read(sub)
	return sub.events, nil
}

// Open reports whether a subscription is currently live.
func (ch *Channel) Open() bool {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.cur != nil
}

// Close tears the subscription down. It is idempotent, and a later Subscribe
// may open a fresh stream.
func (ch *Channel) Close() error {
	ch.mu.Lock()
	sub := ch.cur
	ch.cur = nil
	ch.mu.Unlock()

	if sub == nil {
		return nil
	}

	close(sub.done)
	sub.cancel()
	err := sub.body.Close()
	ch.log.Info("push.close")
	return err
}

// read pumps decoded frames from the stream until it ends or is torn down.
func (ch *Channel) read(sub *subscription) {
	defer func() {
		close(sub.events)
		sub.cancel()
		_ = sub.body.Close()

		ch.mu.Lock()
		if ch.cur == sub {
			ch.cur = nil
		}
		ch.mu.Unlock()
	}()

	if err := scanStream(sub.body, func(name string, data []byte) bool {
		evt := ch.decode(name, data)
		select {
		case sub.events <- evt:
			return true
		case <-sub.done:
			return false
		}
	}); err != nil {
		select {
		case <-sub.done:
			// Teardown closed the body under the reader; not a stream fault.
		default:
			ch.log.Warn("push.stream", "err", err)
		}
	}
}

// decode attempts a structured decode and degrades to the raw payload.
func (ch *Channel) decode(name string, data []byte) Event {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		ch.log.Warn("push.decode", "err", err)
		if ch.observe != nil {
			ch.observe(false)
		}
		return Event{Name: name, Raw: data}
	}
	if ch.observe != nil {
		ch.observe(true)
	}
	return Event{Name: name, Data: v, Raw: data, Decoded: true}
}
