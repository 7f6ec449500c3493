package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/itbuildgroup/authproxy-go/transport"
)

// fakeRPC is an in-memory transport.Client scripted per path.
type fakeRPC struct {
	calls    []fakeCall
	handlers map[string]func(call fakeCall) (*transport.Response, error)
}

type fakeCall struct {
	Method  string
	Path    string
	Headers http.Header
	Body    any
}

func newFakeRPC() *fakeRPC {
	return &fakeRPC{handlers: map[string]func(fakeCall) (*transport.Response, error){}}
}

func (f *fakeRPC) handle(path string, fn func(fakeCall) (*transport.Response, error)) {
	f.handlers[path] = fn
}

func (f *fakeRPC) Do(_ context.Context, method, path string, headers http.Header, body any) (*transport.Response, error) {
	call := fakeCall{Method: method, Path: path, Headers: headers, Body: body}
	f.calls = append(f.calls, call)

	fn, ok := f.handlers[path]
	if !ok {
		return nil, fmt.Errorf("unexpected call to %s", path)
	}
	return fn(call)
}

func (f *fakeRPC) Stream(context.Context, string, http.Header) (io.ReadCloser, error) {
	return nil, fmt.Errorf("stream not supported by fake")
}

// resultResponse builds a Response whose envelope result is v.
func resultResponse(v any) *transport.Response {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return &transport.Response{Status: 200, Header: http.Header{}, Result: raw}
}
