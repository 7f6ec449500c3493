package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	headerRequestID = "X-Request-Id"

	// maxResponseBytes bounds protocol response bodies. Push streams are not
	// subject to it.
	maxResponseBytes = 1 << 20
)

// HTTP is the default Client over net/http.
//
// Plain calls share a timeout-bounded http.Client; Stream uses a separate
// client with no timeout, since an event stream stays open indefinitely.
type HTTP struct {
	base   *url.URL
	http   *http.Client
	stream *http.Client
	log    *slog.Logger
}

var _ Client = (*HTTP)(nil)

// NewHTTP constructs an HTTP transport for the given base URL.
func NewHTTP(baseURL string, timeout time.Duration, log *slog.Logger) (*HTTP, error) {
	if log == nil {
		log = slog.Default()
	}

	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}

	return &HTTP{
		base:   u,
		http:   &http.Client{Timeout: timeout},
		stream: &http.Client{},
		log:    log,
	}, nil
}

// Do performs one request/response exchange and decodes the response
// envelope.
func (c *HTTP) Do(ctx context.Context, method, path string, headers http.Header, body any) (*Response, error) {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, &RequestError{Method: method, Path: path, Err: fmt.Errorf("encode body: %w", err)}
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), payload)
	if err != nil {
		return nil, &RequestError{Method: method, Path: path, Err: err}
	}
	mergeHeaders(req.Header, headers)
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	reqID := ulid.Make().String()
	req.Header.Set(headerRequestID, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("http.request", "method", method, "path", path, "request_id", reqID, "err", err)
		return nil, &RequestError{Method: method, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &RequestError{Method: method, Path: path, Err: fmt.Errorf("read body: %w", err)}
	}

	c.log.Debug("http.request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", reqID,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: method, Path: path, Status: resp.StatusCode}
	}

	out := &Response{Status: resp.StatusCode, Header: resp.Header}
	if len(bytes.TrimSpace(raw)) > 0 {
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, &RequestError{Method: method, Path: path, Err: fmt.Errorf("decode envelope: %w", err)}
		}
		out.Result = env.Result
		out.Err = env.Error
	}
	return out, nil
}

// Stream opens a server-push response body. The caller owns the returned
// ReadCloser; closing it tears the stream down.
func (c *HTTP) Stream(ctx context.Context, path string, headers http.Header) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.JoinPath(path).String(), nil)
	if err != nil {
		return nil, &RequestError{Method: http.MethodGet, Path: path, Err: err}
	}
	mergeHeaders(req.Header, headers)
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set(headerRequestID, ulid.Make().String())

	resp, err := c.stream.Do(req)
	if err != nil {
		return nil, &RequestError{Method: http.MethodGet, Path: path, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, &StatusError{Method: http.MethodGet, Path: path, Status: resp.StatusCode}
	}

	c.log.Debug("http.stream.open", "path", path)
	return resp.Body, nil
}

func mergeHeaders(dst, src http.Header) {
	for k, vs := range src {
		for _, v := range vs {
			dst.Add(k, v)
		}
	}
}
