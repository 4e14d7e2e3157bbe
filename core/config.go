package core

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultAPIBaseURL   = "https://thirdparty.qonto.com/v2/"
	DefaultOAuthBaseURL = "https://oauth.qonto.com/oauth2/"
	DefaultUserAgent    = "go-qonto"
)

// HTTPLoggingLevel controls how much of each exchange the transport logs.
type HTTPLoggingLevel string

const (
	HTTPLoggingNone    HTTPLoggingLevel = "none"
	HTTPLoggingInfo    HTTPLoggingLevel = "info"
	HTTPLoggingHeaders HTTPLoggingLevel = "headers"
	HTTPLoggingBody    HTTPLoggingLevel = "body"
	HTTPLoggingAll     HTTPLoggingLevel = "all"
)

func (l HTTPLoggingLevel) Valid() bool {
	switch l {
	case HTTPLoggingNone, HTTPLoggingInfo, HTTPLoggingHeaders, HTTPLoggingBody, HTTPLoggingAll:
		return true
	default:
		return false
	}
}

func (l HTTPLoggingLevel) LogsHeaders() bool {
	return l == HTTPLoggingHeaders || l == HTTPLoggingAll
}

func (l HTTPLoggingLevel) LogsBody() bool {
	return l == HTTPLoggingBody || l == HTTPLoggingAll
}

type ProxyConfig struct {
	Host string `koanf:"host" mapstructure:"host"`
	Port int    `koanf:"port" mapstructure:"port"`
}

func (p ProxyConfig) Enabled() bool {
	return strings.TrimSpace(p.Host) != ""
}

// URL returns the http proxy URL, or nil when no proxy is configured.
func (p ProxyConfig) URL() *url.URL {
	if !p.Enabled() {
		return nil
	}
	return &url.URL{Scheme: "http", Host: fmt.Sprintf("%s:%d", strings.TrimSpace(p.Host), p.Port)}
}

type HTTPConfig struct {
	LoggingLevel         HTTPLoggingLevel `koanf:"logging_level" mapstructure:"logging_level"`
	Proxy                ProxyConfig      `koanf:"proxy" mapstructure:"proxy"`
	BypassTLSChecks      bool             `koanf:"bypass_tls_checks" mapstructure:"bypass_tls_checks"`
	Timeout              time.Duration    `koanf:"timeout" mapstructure:"timeout"`
	MaxResponseBodyBytes int64            `koanf:"max_response_body_bytes" mapstructure:"max_response_body_bytes"`
}

type ExecutorConfig struct {
	Workers   int `koanf:"workers" mapstructure:"workers"`
	QueueSize int `koanf:"queue_size" mapstructure:"queue_size"`
}

type PaginationConfig struct {
	ItemsPerPage int `koanf:"items_per_page" mapstructure:"items_per_page"`
}

type Config struct {
	APIBaseURL   string           `koanf:"api_base_url" mapstructure:"api_base_url"`
	OAuthBaseURL string           `koanf:"oauth_base_url" mapstructure:"oauth_base_url"`
	UserAgent    string           `koanf:"user_agent" mapstructure:"user_agent"`
	HTTP         HTTPConfig       `koanf:"http" mapstructure:"http"`
	Executor     ExecutorConfig   `koanf:"executor" mapstructure:"executor"`
	Pagination   PaginationConfig `koanf:"pagination" mapstructure:"pagination"`
}

func DefaultConfig() Config {
	return Config{
		APIBaseURL:   DefaultAPIBaseURL,
		OAuthBaseURL: DefaultOAuthBaseURL,
		UserAgent:    DefaultUserAgent,
		HTTP: HTTPConfig{
			LoggingLevel:         HTTPLoggingNone,
			Timeout:              30 * time.Second,
			MaxResponseBodyBytes: 10 << 20,
		},
		Executor: ExecutorConfig{
			Workers:   4,
			QueueSize: 64,
		},
		Pagination: PaginationConfig{
			ItemsPerPage: DefaultItemsPerPage,
		},
	}
}

func (c Config) Validate() error {
	if err := validateBaseURL("api_base_url", c.APIBaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("oauth_base_url", c.OAuthBaseURL); err != nil {
		return err
	}
	if level := c.HTTP.LoggingLevel; level != "" && !level.Valid() {
		return fmt.Errorf("core: http.logging_level %q is invalid", level)
	}
	if c.HTTP.Proxy.Enabled() && (c.HTTP.Proxy.Port <= 0 || c.HTTP.Proxy.Port > 65535) {
		return fmt.Errorf("core: http.proxy.port %d is out of range", c.HTTP.Proxy.Port)
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("core: http.timeout must not be negative")
	}
	if c.Executor.Workers < 0 || c.Executor.QueueSize < 0 {
		return fmt.Errorf("core: executor sizes must not be negative")
	}
	if c.Pagination.ItemsPerPage < 0 {
		return fmt.Errorf("core: pagination.items_per_page must not be negative")
	}
	return nil
}

func validateBaseURL(field string, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("core: %s is required", field)
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("core: %s is invalid: %w", field, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("core: %s must be an absolute url", field)
	}
	return nil
}

// resolveURL joins a relative endpoint path to a base URL.
func resolveURL(base string, path string) (string, error) {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(ref).String(), nil
}
