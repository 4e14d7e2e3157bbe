package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-qonto/core"
)

const defaultRESTClientTimeout = 30 * time.Second
const defaultRESTResponseBodyLimit int64 = 10 << 20 // 10 MiB

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RESTAdapter is the net/http implementation of core.Transport.
type RESTAdapter struct {
	Client               HTTPDoer
	DefaultHeaders       map[string]string
	MaxResponseBodyBytes int64
	LoggingLevel         core.HTTPLoggingLevel
	Logger               core.Logger
}

func NewRESTAdapter(client HTTPDoer) *RESTAdapter {
	if client == nil {
		client = &http.Client{Timeout: defaultRESTClientTimeout}
	}
	return &RESTAdapter{
		Client:               client,
		DefaultHeaders:       map[string]string{},
		MaxResponseBodyBytes: defaultRESTResponseBodyLimit,
		LoggingLevel:         core.HTTPLoggingNone,
		Logger:               glog.Nop(),
	}
}

// New builds a RESTAdapter from the resolved client configuration: timeout,
// proxy, TLS bypass, body limit and logging level.
func New(cfg core.Config, logger core.Logger) (*RESTAdapter, error) {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, transportError("transport: default http transport is not *http.Transport", goerrors.CategoryInternal, http.StatusInternalServerError, nil)
	}
	roundTripper := base.Clone()
	if proxyURL := cfg.HTTP.Proxy.URL(); proxyURL != nil {
		roundTripper.Proxy = http.ProxyURL(proxyURL)
	}
	if cfg.HTTP.BypassTLSChecks {
		roundTripper.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for debugging proxies
	}
	timeout := cfg.HTTP.Timeout
	if timeout <= 0 {
		timeout = defaultRESTClientTimeout
	}

	adapter := NewRESTAdapter(&http.Client{Timeout: timeout, Transport: roundTripper})
	if cfg.HTTP.MaxResponseBodyBytes > 0 {
		adapter.MaxResponseBodyBytes = cfg.HTTP.MaxResponseBodyBytes
	}
	if cfg.HTTP.LoggingLevel != "" {
		adapter.LoggingLevel = cfg.HTTP.LoggingLevel
	}
	if logger != nil {
		adapter.Logger = logger
	}
	return adapter, nil
}

// Factory adapts New to core.TransportFactory.
func Factory(cfg core.Config, logger core.Logger) (core.Transport, error) {
	return New(cfg, logger)
}

func (a *RESTAdapter) Do(ctx context.Context, req core.TransportRequest) (core.TransportResponse, error) {
	if a == nil || a.Client == nil {
		return core.TransportResponse{}, transportError(
			"transport: rest adapter requires an http client",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			nil,
		)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	method := strings.TrimSpace(strings.ToUpper(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	parsedURL, err := url.Parse(strings.TrimSpace(req.URL))
	if err != nil || parsedURL.Host == "" {
		return core.TransportResponse{}, transportWrapError(
			err,
			goerrors.CategoryBadInput,
			"transport: invalid request url",
			http.StatusBadRequest,
			map[string]any{"url": strings.TrimSpace(req.URL)},
		)
	}
	if len(req.Query) > 0 {
		query := parsedURL.Query()
		for key, values := range req.Query {
			for _, value := range values {
				query.Add(key, value)
			}
		}
		parsedURL.RawQuery = query.Encode()
	}

	var body io.Reader = http.NoBody
	switch {
	case req.BodyReader != nil:
		body = req.BodyReader
	case len(req.Body) > 0:
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, parsedURL.String(), body)
	if err != nil {
		return core.TransportResponse{}, transportWrapError(
			err,
			goerrors.CategoryBadInput,
			"transport: create http request",
			http.StatusBadRequest,
			map[string]any{"method": method, "url": parsedURL.String()},
		)
	}
	if req.BodyReader != nil {
		// The reader is owned by the caller; never let net/http close it.
		httpReq.Body = io.NopCloser(req.BodyReader)
	}
	for key, value := range a.DefaultHeaders {
		if strings.TrimSpace(key) != "" {
			httpReq.Header.Set(strings.TrimSpace(key), value)
		}
	}
	for key, value := range req.Headers {
		if strings.TrimSpace(key) != "" {
			httpReq.Header.Set(strings.TrimSpace(key), value)
		}
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	a.logRequest(ctx, httpReq, req)

	startedAt := time.Now()
	httpRes, err := a.Client.Do(httpReq)
	if err != nil {
		return core.TransportResponse{}, transportWrapError(
			err,
			goerrors.CategoryExternal,
			"transport: execute http request",
			http.StatusBadGateway,
			map[string]any{"method": method, "url": parsedURL.String()},
		)
	}
	defer httpRes.Body.Close()

	maxBodyBytes := a.MaxResponseBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultRESTResponseBodyLimit
	}
	responseBody, err := io.ReadAll(io.LimitReader(httpRes.Body, maxBodyBytes+1))
	if err != nil {
		return core.TransportResponse{}, transportWrapError(
			err,
			goerrors.CategoryExternal,
			"transport: read response body",
			http.StatusBadGateway,
			map[string]any{"status_code": httpRes.StatusCode},
		)
	}
	if int64(len(responseBody)) > maxBodyBytes {
		return core.TransportResponse{}, transportError(
			fmt.Sprintf("transport: response body exceeds limit of %d bytes", maxBodyBytes),
			goerrors.CategoryExternal,
			http.StatusBadGateway,
			map[string]any{"status_code": httpRes.StatusCode, "response_limit_b": maxBodyBytes},
		)
	}

	response := core.TransportResponse{
		StatusCode: httpRes.StatusCode,
		Headers:    flattenHeaders(httpRes.Header),
		Body:       responseBody,
	}
	a.logResponse(ctx, method, parsedURL.String(), response, time.Since(startedAt))
	return response, nil
}

// Close drops idle keep-alive connections.
func (a *RESTAdapter) Close() error {
	if a == nil {
		return nil
	}
	if closer, ok := a.Client.(interface{ CloseIdleConnections() }); ok {
		closer.CloseIdleConnections()
	}
	return nil
}

func (a *RESTAdapter) logRequest(ctx context.Context, httpReq *http.Request, req core.TransportRequest) {
	if !a.logs() {
		return
	}
	fields := map[string]any{"method": httpReq.Method, "url": httpReq.URL.String()}
	if a.LoggingLevel.LogsHeaders() {
		fields["headers"] = core.RedactHeaders(flattenHeaders(httpReq.Header))
	}
	if a.LoggingLevel.LogsBody() && req.BodyReader == nil && len(req.Body) > 0 {
		fields["body"] = core.RedactBody(req.Body, req.ContentType)
	}
	a.Logger.WithContext(ctx).Info("http request", core.FlattenFields(fields)...)
}

func (a *RESTAdapter) logResponse(ctx context.Context, method, target string, res core.TransportResponse, elapsed time.Duration) {
	if !a.logs() {
		return
	}
	fields := map[string]any{
		"method":      method,
		"url":         target,
		"status_code": res.StatusCode,
		"duration_ms": elapsed.Milliseconds(),
	}
	if a.LoggingLevel.LogsHeaders() {
		fields["headers"] = core.RedactHeaders(res.Headers)
	}
	if a.LoggingLevel.LogsBody() {
		fields["body"] = core.RedactBody(res.Body, headerValue(res.Headers, "Content-Type"))
	}
	a.Logger.WithContext(ctx).Info("http response", core.FlattenFields(fields)...)
}

func (a *RESTAdapter) logs() bool {
	return a.Logger != nil && a.LoggingLevel != "" && a.LoggingLevel != core.HTTPLoggingNone
}

func headerValue(headers map[string]string, name string) string {
	for key, value := range headers {
		if strings.EqualFold(key, name) {
			return value
		}
	}
	return ""
}

func flattenHeaders(headers http.Header) map[string]string {
	flat := make(map[string]string, len(headers))
	for key, values := range headers {
		flat[key] = strings.Join(values, ",")
	}
	return flat
}

var _ core.Transport = (*RESTAdapter)(nil)
