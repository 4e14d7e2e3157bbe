package core

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-config/cfgx"
	glog "github.com/goliatone/go-logger/glog"
	opts "github.com/goliatone/go-options"
)

type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type OptionsResolver interface {
	Resolve(defaults Config, loaded Config, runtime Config) (Config, error)
}

type clientBuilder struct {
	runtimeConfig    Config
	logger           Logger
	loggerProvider   LoggerProvider
	metricsRecorder  MetricsRecorder
	configProvider   ConfigProvider
	optionsResolver  OptionsResolver
	transport        Transport
	transportFactory TransportFactory
	now              func() time.Time
}

type Option func(*clientBuilder)

func WithLogger(logger Logger) Option {
	return func(b *clientBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider LoggerProvider) Option {
	return func(b *clientBuilder) {
		b.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(b *clientBuilder) {
		b.metricsRecorder = recorder
	}
}

func WithConfigProvider(provider ConfigProvider) Option {
	return func(b *clientBuilder) {
		b.configProvider = provider
	}
}

// WithRawConfig loads configuration from a raw key/value tree, e.g. one
// decoded from a file.
func WithRawConfig(raw map[string]any) Option {
	return func(b *clientBuilder) {
		b.configProvider = NewCfgxConfigProvider(staticRawConfigLoader{Values: raw})
	}
}

func WithOptionsResolver(resolver OptionsResolver) Option {
	return func(b *clientBuilder) {
		b.optionsResolver = resolver
	}
}

// WithTransport uses an already built transport; it takes precedence over a
// transport factory.
func WithTransport(transport Transport) Option {
	return func(b *clientBuilder) {
		b.transport = transport
	}
}

func WithTransportFactory(factory TransportFactory) Option {
	return func(b *clientBuilder) {
		b.transportFactory = factory
	}
}

func WithClock(now func() time.Time) Option {
	return func(b *clientBuilder) {
		b.now = now
	}
}

func defaultClientBuilder(runtime Config) clientBuilder {
	loggerProvider, logger := glog.Resolve("qonto", nil, nil)
	return clientBuilder{
		runtimeConfig:   runtime,
		loggerProvider:  loggerProvider,
		logger:          logger,
		metricsRecorder: NopMetricsRecorder{},
		configProvider:  NewCfgxConfigProvider(nil),
		optionsResolver: GoOptionsResolver{},
		now:             time.Now,
	}
}

// ResolveConfig runs the same defaults < loaded < runtime resolution NewClient
// uses, for callers that need the final configuration up front.
func ResolveConfig(ctx context.Context, runtime Config, options ...Option) (Config, error) {
	builder := defaultClientBuilder(runtime)
	for _, opt := range options {
		if opt != nil {
			opt(&builder)
		}
	}
	return builder.resolveConfig(ctx)
}

func (b clientBuilder) resolveConfig(ctx context.Context) (Config, error) {
	provider := b.configProvider
	if provider == nil {
		provider = NewCfgxConfigProvider(nil)
	}
	resolver := b.optionsResolver
	if resolver == nil {
		resolver = GoOptionsResolver{}
	}
	defaults := DefaultConfig()
	loaded, err := provider.Load(ctx, defaults)
	if err != nil {
		return Config{}, err
	}
	return resolver.Resolve(defaults, loaded, b.runtimeConfig)
}

type staticRawConfigLoader struct {
	Values map[string]any
}

func (l staticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.Values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.Values))
	for key, value := range l.Values {
		out[key] = value
	}
	return out, nil
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

func (p *CfgxConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = staticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	return cfgx.Build[Config](raw,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
}

// EnvConfigLoader reads QONTO_* variables (or Prefix_*) into a raw config tree.
type EnvConfigLoader struct {
	Prefix string
	Lookup func(key string) (string, bool)
}

func (l EnvConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	prefix := strings.TrimSuffix(strings.TrimSpace(l.Prefix), "_")
	if prefix == "" {
		prefix = "QONTO"
	}
	lookup := l.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(name string) (string, bool) {
		value, ok := lookup(prefix + "_" + name)
		value = strings.TrimSpace(value)
		return value, ok && value != ""
	}

	raw := map[string]any{}
	httpRaw := map[string]any{}
	proxyRaw := map[string]any{}
	executorRaw := map[string]any{}
	paginationRaw := map[string]any{}

	if value, ok := get("API_BASE_URL"); ok {
		raw["api_base_url"] = value
	}
	if value, ok := get("OAUTH_BASE_URL"); ok {
		raw["oauth_base_url"] = value
	}
	if value, ok := get("USER_AGENT"); ok {
		raw["user_agent"] = value
	}
	if value, ok := get("HTTP_LOGGING_LEVEL"); ok {
		httpRaw["logging_level"] = strings.ToLower(value)
	}
	if value, ok := get("HTTP_BYPASS_TLS_CHECKS"); ok {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("core: %s_HTTP_BYPASS_TLS_CHECKS: %w", prefix, err)
		}
		httpRaw["bypass_tls_checks"] = parsed
	}
	if value, ok := get("HTTP_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("core: %s_HTTP_TIMEOUT: %w", prefix, err)
		}
		httpRaw["timeout"] = parsed
	}
	if value, ok := get("HTTP_PROXY_HOST"); ok {
		proxyRaw["host"] = value
	}
	ints := []struct {
		name   string
		key    string
		target map[string]any
	}{
		{name: "HTTP_PROXY_PORT", key: "port", target: proxyRaw},
		{name: "EXECUTOR_WORKERS", key: "workers", target: executorRaw},
		{name: "EXECUTOR_QUEUE_SIZE", key: "queue_size", target: executorRaw},
		{name: "PAGINATION_ITEMS_PER_PAGE", key: "items_per_page", target: paginationRaw},
	}
	for _, entry := range ints {
		value, ok := get(entry.name)
		if !ok {
			continue
		}
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("core: %s_%s: %w", prefix, entry.name, err)
		}
		entry.target[entry.key] = parsed
	}

	if len(proxyRaw) > 0 {
		httpRaw["proxy"] = proxyRaw
	}
	if len(httpRaw) > 0 {
		raw["http"] = httpRaw
	}
	if len(executorRaw) > 0 {
		raw["executor"] = executorRaw
	}
	if len(paginationRaw) > 0 {
		raw["pagination"] = paginationRaw
	}
	return raw, nil
}

type GoOptionsResolver struct{}

func (GoOptionsResolver) Resolve(defaults Config, loaded Config, runtime Config) (Config, error) {
	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			configToLayerMap(defaults, true),
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			configToLayerMap(loaded, false),
			opts.WithSnapshotID[map[string]any]("config"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			configToLayerMap(runtime, false),
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return Config{}, fmt.Errorf("core: options stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return Config{}, fmt.Errorf("core: options merge failed: %w", err)
	}
	resolved, err := cfgx.Build[Config](merged.Value,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	if err := resolved.Validate(); err != nil {
		return Config{}, err
	}
	return resolved, nil
}

// configToLayerMap keeps only set values unless includeZero is true, so that
// higher layers override lower ones field by field.
func configToLayerMap(cfg Config, includeZero bool) map[string]any {
	layer := map[string]any{}
	setString := func(target map[string]any, key string, value string) {
		if includeZero || strings.TrimSpace(value) != "" {
			target[key] = value
		}
	}
	setInt := func(target map[string]any, key string, value int) {
		if includeZero || value != 0 {
			target[key] = value
		}
	}

	setString(layer, "api_base_url", cfg.APIBaseURL)
	setString(layer, "oauth_base_url", cfg.OAuthBaseURL)
	setString(layer, "user_agent", cfg.UserAgent)

	httpLayer := map[string]any{}
	setString(httpLayer, "logging_level", string(cfg.HTTP.LoggingLevel))
	if includeZero || cfg.HTTP.BypassTLSChecks {
		httpLayer["bypass_tls_checks"] = cfg.HTTP.BypassTLSChecks
	}
	if includeZero || cfg.HTTP.Timeout != 0 {
		httpLayer["timeout"] = cfg.HTTP.Timeout
	}
	if includeZero || cfg.HTTP.MaxResponseBodyBytes != 0 {
		httpLayer["max_response_body_bytes"] = cfg.HTTP.MaxResponseBodyBytes
	}
	proxyLayer := map[string]any{}
	setString(proxyLayer, "host", cfg.HTTP.Proxy.Host)
	setInt(proxyLayer, "port", cfg.HTTP.Proxy.Port)
	if len(proxyLayer) > 0 {
		httpLayer["proxy"] = proxyLayer
	}
	if len(httpLayer) > 0 {
		layer["http"] = httpLayer
	}

	executorLayer := map[string]any{}
	setInt(executorLayer, "workers", cfg.Executor.Workers)
	setInt(executorLayer, "queue_size", cfg.Executor.QueueSize)
	if len(executorLayer) > 0 {
		layer["executor"] = executorLayer
	}

	paginationLayer := map[string]any{}
	setInt(paginationLayer, "items_per_page", cfg.Pagination.ItemsPerPage)
	if len(paginationLayer) > 0 {
		layer["pagination"] = paginationLayer
	}
	return layer
}
