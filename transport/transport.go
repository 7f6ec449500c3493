package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client issues protocol calls against the configured base URL.
//
// Do performs a single request/response exchange; Stream opens a long-lived
// response body (server push). Implementations must honor ctx on both.
type Client interface {
	Do(ctx context.Context, method, path string, headers http.Header, body any) (*Response, error)
	Stream(ctx context.Context, path string, headers http.Header) (io.ReadCloser, error)
}

// APIError is the error half of the server's response envelope.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Code, e.Message)
}

// envelope is the wire shape of every AuthProxy response body.
type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *APIError       `json:"error"`
}

// Response is a decoded protocol reply.
type Response struct {
	Status int
	Header http.Header

	// Result is the raw result payload; nil or "null" when absent.
	Result json.RawMessage
	// Err is the server-reported error, if any. A non-nil Err with a 2xx
	// status is a protocol-level failure, not a transport one.
	Err *APIError
}

// HasResult reports whether the envelope carried a non-null result.
func (r *Response) HasResult() bool {
	trimmed := bytes.TrimSpace(r.Result)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// ResultString returns the result as a plain string, when it is one.
func (r *Response) ResultString() (string, bool) {
	if !r.HasResult() {
		return "", false
	}
	var s string
	if err := json.Unmarshal(r.Result, &s); err != nil {
		return "", false
	}
	return s, true
}

// DecodeResult unmarshals the result payload into v.
func (r *Response) DecodeResult(v any) error {
	if !r.HasResult() {
		return fmt.Errorf("empty result")
	}
	return json.Unmarshal(r.Result, v)
}
