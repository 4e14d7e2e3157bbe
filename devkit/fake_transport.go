// Package devkit holds fakes and fixtures for exercising the client without a
// network.
package devkit

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/goliatone/go-qonto/core"
)

// RouteFunc answers one request. The request body reader, if any, has
// already been drained into Body.
type RouteFunc func(req core.TransportRequest) (core.TransportResponse, error)

// FakeTransport answers requests by "<METHOD> <path>" where path is the URL
// path relative to the API base, e.g. "GET transactions".
type FakeTransport struct {
	mu       sync.Mutex
	routes   map[string]RouteFunc
	requests []core.TransportRequest
	closes   atomic.Int32
	gate     chan struct{}
}

func NewFakeTransport() *FakeTransport {
	return &FakeTransport{routes: map[string]RouteFunc{}}
}

func (t *FakeTransport) Handle(method, path string, fn RouteFunc) *FakeTransport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes[routeKey(method, path)] = fn
	return t
}

// JSON registers a fixed JSON response.
func (t *FakeTransport) JSON(method, path string, status int, body string) *FakeTransport {
	return t.Handle(method, path, func(core.TransportRequest) (core.TransportResponse, error) {
		return JSONResponse(status, body), nil
	})
}

// Hold makes every request wait until Release is called.
func (t *FakeTransport) Hold() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gate = make(chan struct{})
}

func (t *FakeTransport) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gate != nil {
		close(t.gate)
		t.gate = nil
	}
}

func (t *FakeTransport) Do(ctx context.Context, req core.TransportRequest) (core.TransportResponse, error) {
	if req.BodyReader != nil {
		body, err := io.ReadAll(req.BodyReader)
		if err != nil {
			return core.TransportResponse{}, err
		}
		req.Body = body
		req.BodyReader = nil
	}

	t.mu.Lock()
	t.requests = append(t.requests, cloneRequest(req))
	gate := t.gate
	route, ok := t.routes[routeKey(req.Method, requestPath(req.URL))]
	t.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return core.TransportResponse{}, ctx.Err()
		}
	}
	if !ok {
		return JSONResponse(http.StatusNotFound, `{"message":"no route"}`), nil
	}
	return route(req)
}

func (t *FakeTransport) Close() error {
	t.closes.Add(1)
	return nil
}

func (t *FakeTransport) CloseCount() int {
	return int(t.closes.Load())
}

func (t *FakeTransport) Requests() []core.TransportRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]core.TransportRequest, 0, len(t.requests))
	for _, req := range t.requests {
		out = append(out, cloneRequest(req))
	}
	return out
}

func (t *FakeTransport) RequestCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.requests)
}

func JSONResponse(status int, body string) core.TransportResponse {
	return core.TransportResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       []byte(body),
	}
}

func routeKey(method, path string) string {
	return strings.ToUpper(strings.TrimSpace(method)) + " " + strings.Trim(path, "/")
}

// requestPath strips the API or OAuth base path prefix.
func requestPath(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	path := strings.Trim(parsed.Path, "/")
	for _, prefix := range []string{"v2/", "oauth2/"} {
		if strings.HasPrefix(path, prefix) {
			return strings.TrimPrefix(path, prefix)
		}
	}
	return path
}

func cloneRequest(in core.TransportRequest) core.TransportRequest {
	out := in
	out.Headers = make(map[string]string, len(in.Headers))
	for key, value := range in.Headers {
		out.Headers[key] = value
	}
	out.Query = url.Values{}
	for key, values := range in.Query {
		out.Query[key] = append([]string(nil), values...)
	}
	out.Body = append([]byte(nil), in.Body...)
	return out
}

var _ core.Transport = (*FakeTransport)(nil)
