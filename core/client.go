package core

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

const (
	headerUserAgent   = "User-Agent"
	headerAccept      = "Accept"
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"
)

// Client is the operation set. Each capability group is exposed as a field;
// all groups share one runtime and one transport.
type Client struct {
	Organizations Organizations
	Transactions  Transactions
	Memberships   Memberships
	Labels        Labels
	Attachments   Attachments
	OAuth         OAuth

	rt *runtime
}

type runtime struct {
	cfg       Config
	auth      Authentication
	transport Transport
	logger    Logger
	metrics   MetricsRecorder
	now       func() time.Time
	closed    atomic.Bool
}

// NewClient resolves configuration (defaults < config provider < cfg) and
// builds the transport. A transport or transport factory option is required.
func NewClient(cfg Config, auth Authentication, options ...Option) (*Client, error) {
	if auth == nil {
		return nil, badInputError("qonto: authentication is required")
	}
	builder := defaultClientBuilder(cfg)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("qonto", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("qonto"); named != nil {
			logger = glog.Ensure(named)
		}
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.now == nil {
		builder.now = time.Now
	}

	finalConfig, err := builder.resolveConfig(context.Background())
	if err != nil {
		return nil, badInputError("qonto: invalid configuration: " + err.Error())
	}

	transport := builder.transport
	if transport == nil {
		if builder.transportFactory == nil {
			return nil, NewError("qonto: transport is required", goerrors.CategoryInternal, ErrorInternal)
		}
		transport, err = builder.transportFactory(finalConfig, logger)
		if err != nil {
			return nil, err
		}
	}

	rt := &runtime{
		cfg:       finalConfig,
		auth:      auth,
		transport: transport,
		logger:    logger,
		metrics:   builder.metricsRecorder,
		now:       builder.now,
	}
	return &Client{
		Organizations: &organizationsAPI{rt: rt},
		Transactions:  &transactionsAPI{rt: rt},
		Memberships:   &membershipsAPI{rt: rt},
		Labels:        &labelsAPI{rt: rt},
		Attachments:   &attachmentsAPI{rt: rt},
		OAuth:         &oauthAPI{rt: rt},
		rt:            rt,
	}, nil
}

func (c *Client) Config() Config {
	if c == nil || c.rt == nil {
		return Config{}
	}
	return c.rt.cfg
}

func (c *Client) Logger() Logger {
	if c == nil || c.rt == nil {
		return glog.Nop()
	}
	return c.rt.logger
}

// Close releases the transport. The client is permanently unusable
// afterwards: every operation fails with a client closed error. Calling
// Close again is a no-op.
func (c *Client) Close() error {
	if c == nil || c.rt == nil {
		return nil
	}
	if !c.rt.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.rt.logWithLevel(context.Background(), "debug", "qonto client closed", nil)
	return c.rt.transport.Close()
}

func (c *Client) Closed() bool {
	return c != nil && c.rt != nil && c.rt.closed.Load()
}

type apiCall struct {
	operation   string
	method      string
	baseURL     string
	path        string
	query       url.Values
	headers     map[string]string
	body        []byte
	bodyReader  io.Reader
	contentType string
}

func (r *runtime) ensureOpen(operation string) error {
	if r.closed.Load() {
		return clientClosedError(operation)
	}
	return nil
}

func (r *runtime) send(ctx context.Context, call apiCall) (TransportResponse, error) {
	if err := r.ensureOpen(call.operation); err != nil {
		return TransportResponse{}, err
	}
	headers := make(map[string]string, len(call.headers)+3)
	for key, value := range call.headers {
		headers[key] = value
	}
	if headers[headerAuthorization] == "" {
		authorization, err := r.auth.AuthorizationHeader()
		if err != nil {
			return TransportResponse{}, err
		}
		headers[headerAuthorization] = authorization
	}
	if headers[headerAccept] == "" {
		headers[headerAccept] = contentTypeJSON
	}
	if r.cfg.UserAgent != "" {
		headers[headerUserAgent] = r.cfg.UserAgent
	}

	baseURL := call.baseURL
	if baseURL == "" {
		baseURL = r.cfg.APIBaseURL
	}
	target, err := resolveURL(baseURL, call.path)
	if err != nil {
		return TransportResponse{}, badInputError("qonto: invalid request url: " + err.Error())
	}

	resp, err := r.transport.Do(ctx, TransportRequest{
		Method:      call.method,
		URL:         target,
		Headers:     headers,
		Query:       call.query,
		Body:        call.body,
		BodyReader:  call.bodyReader,
		ContentType: call.contentType,
		Metadata:    map[string]any{"operation": call.operation},
	})
	if err != nil {
		return TransportResponse{}, TransportError(err, "qonto: "+call.operation+" request failed", map[string]any{
			"method": call.method,
			"url":    target,
		})
	}
	if !resp.Successful() {
		return TransportResponse{}, apiErrorFromResponse(call, target, resp)
	}
	return resp, nil
}

func apiErrorFromResponse(call apiCall, target string, resp TransportResponse) error {
	metadata := map[string]any{
		"method":    call.method,
		"url":       target,
		"operation": call.operation,
	}
	var body apiErrorBody
	message := ""
	if err := json.Unmarshal(resp.Body, &body); err == nil {
		switch {
		case len(body.Errors) > 0:
			details := make([]string, 0, len(body.Errors))
			for _, item := range body.Errors {
				details = append(details, strings.TrimSpace(item.Code+" "+item.Detail))
			}
			message = strings.Join(details, "; ")
		case body.Message != "":
			message = body.Message
		case body.ErrorDescription != "":
			message = body.ErrorDescription
		case body.Error != "":
			message = body.Error
		}
	}
	return APIError(resp.StatusCode, message, metadata)
}

func decodeJSON[T any](body []byte, what string) (T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return out, decodeError(err, what)
	}
	return out, nil
}

// observe runs fn and records its outcome. A failed call never returns a
// partially converted value.
func observe[T any](ctx context.Context, r *runtime, operation string, fields map[string]any, fn func() (T, error)) (T, error) {
	startedAt := time.Now()
	value, err := fn()
	r.observeOperation(ctx, startedAt, operation, err, fields)
	if err != nil {
		var zero T
		return zero, err
	}
	return value, nil
}

func normalizeContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func requireID(field string, value string) error {
	if strings.TrimSpace(value) == "" {
		return badInputError("qonto: " + field + " is required")
	}
	return nil
}
