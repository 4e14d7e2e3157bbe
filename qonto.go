// Package qonto is the entry point of the Qonto business API client. New
// builds the core operation set over the net/http transport; the facade
// constructors expose it as blocking calls, callbacks, futures or
// iterators.
package qonto

import (
	"github.com/goliatone/go-qonto/blocking"
	"github.com/goliatone/go-qonto/callback"
	"github.com/goliatone/go-qonto/core"
	"github.com/goliatone/go-qonto/future"
	"github.com/goliatone/go-qonto/stream"
	"github.com/goliatone/go-qonto/transport"
)

type Config = core.Config

type Option = core.Option

type Client = core.Client

type Authentication = core.Authentication
type LoginSecretKeyAuthentication = core.LoginSecretKeyAuthentication
type OAuthAuthentication = core.OAuthAuthentication
type OAuthCredentials = core.OAuthCredentials
type OAuthTokens = core.OAuthTokens

var (
	WithLogger           = core.WithLogger
	WithLoggerProvider   = core.WithLoggerProvider
	WithMetricsRecorder  = core.WithMetricsRecorder
	WithConfigProvider   = core.WithConfigProvider
	WithRawConfig        = core.WithRawConfig
	WithOptionsResolver  = core.WithOptionsResolver
	WithTransport        = core.WithTransport
	WithTransportFactory = core.WithTransportFactory
	WithClock            = core.WithClock

	NewOAuthAuthentication = core.NewOAuthAuthentication
	NewUniqueState         = core.NewUniqueState
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

// New builds a client talking to the Qonto API over net/http. A
// WithTransport or WithTransportFactory option overrides the default
// transport.
func New(cfg Config, auth Authentication, opts ...Option) (*Client, error) {
	options := make([]Option, 0, len(opts)+1)
	options = append(options, core.WithTransportFactory(transport.Factory))
	options = append(options, opts...)
	return core.NewClient(cfg, auth, options...)
}

func NewBlocking(client *Client, opts ...blocking.Option) *blocking.Client {
	return blocking.New(client, opts...)
}

// NewCallback starts an executor pool sized from the client configuration
// unless callback.WithPool supplies one.
func NewCallback(client *Client, opts ...callback.Option) *callback.Client {
	return callback.New(client, opts...)
}

func NewFuture(client *Client, opts ...future.Option) *future.Client {
	return future.New(client, opts...)
}

func NewStream(client *Client) *stream.Client {
	return stream.New(client)
}
