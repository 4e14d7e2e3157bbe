package core

import (
	"context"
	"strings"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "relative api url", mutate: func(c *Config) { c.APIBaseURL = "/v2" }, wantErr: "api_base_url"},
		{name: "missing oauth url", mutate: func(c *Config) { c.OAuthBaseURL = " " }, wantErr: "oauth_base_url"},
		{name: "unknown logging level", mutate: func(c *Config) { c.HTTP.LoggingLevel = "verbose" }, wantErr: "logging_level"},
		{name: "proxy without port", mutate: func(c *Config) { c.HTTP.Proxy.Host = "proxy.local" }, wantErr: "proxy.port"},
		{name: "negative timeout", mutate: func(c *Config) { c.HTTP.Timeout = -1 }, wantErr: "timeout"},
		{name: "negative workers", mutate: func(c *Config) { c.Executor.Workers = -1 }, wantErr: "executor"},
		{name: "negative page size", mutate: func(c *Config) { c.Pagination.ItemsPerPage = -5 }, wantErr: "items_per_page"},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if tc.wantErr == "" {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", tc.name, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
			t.Fatalf("%s: expected error mentioning %q, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestProxyURL(t *testing.T) {
	if (ProxyConfig{}).URL() != nil {
		t.Fatalf("expected nil proxy url when host is empty")
	}
	got := ProxyConfig{Host: " proxy.local ", Port: 3128}.URL()
	if got == nil || got.String() != "http://proxy.local:3128" {
		t.Fatalf("unexpected proxy url %v", got)
	}
}

func TestEnvConfigLoaderBuildsRawTree(t *testing.T) {
	env := map[string]string{
		"ACME_API_BASE_URL":              "https://sandbox.example.com/v2/",
		"ACME_HTTP_LOGGING_LEVEL":        "HEADERS",
		"ACME_HTTP_BYPASS_TLS_CHECKS":    "true",
		"ACME_HTTP_PROXY_HOST":           "proxy.local",
		"ACME_HTTP_PROXY_PORT":           "8080",
		"ACME_EXECUTOR_WORKERS":          "2",
		"ACME_PAGINATION_ITEMS_PER_PAGE": "25",
		"ACME_USER_AGENT":                "   ",
	}
	loader := EnvConfigLoader{Prefix: "ACME_", Lookup: func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}}
	raw, err := loader.LoadRaw(context.Background())
	if err != nil {
		t.Fatalf("load raw: %v", err)
	}
	if raw["api_base_url"] != "https://sandbox.example.com/v2/" {
		t.Fatalf("unexpected api base url %v", raw["api_base_url"])
	}
	if _, ok := raw["user_agent"]; ok {
		t.Fatalf("expected blank values to be skipped")
	}
	httpRaw := raw["http"].(map[string]any)
	if httpRaw["logging_level"] != "headers" || httpRaw["bypass_tls_checks"] != true {
		t.Fatalf("unexpected http tree %v", httpRaw)
	}
	if httpRaw["proxy"].(map[string]any)["port"] != 8080 {
		t.Fatalf("unexpected proxy tree %v", httpRaw["proxy"])
	}
	if raw["executor"].(map[string]any)["workers"] != 2 {
		t.Fatalf("unexpected executor tree %v", raw["executor"])
	}
	if raw["pagination"].(map[string]any)["items_per_page"] != 25 {
		t.Fatalf("unexpected pagination tree %v", raw["pagination"])
	}
}

func TestEnvConfigLoaderRejectsMalformedValues(t *testing.T) {
	loader := EnvConfigLoader{Lookup: func(key string) (string, bool) {
		if key == "QONTO_EXECUTOR_QUEUE_SIZE" {
			return "lots", true
		}
		return "", false
	}}
	_, err := loader.LoadRaw(context.Background())
	if err == nil || !strings.Contains(err.Error(), "QONTO_EXECUTOR_QUEUE_SIZE") {
		t.Fatalf("expected parse error naming the variable, got %v", err)
	}
}

func TestResolveConfigLayering(t *testing.T) {
	cfg, err := ResolveConfig(context.Background(), Config{UserAgent: "from-runtime"}, WithRawConfig(map[string]any{
		"user_agent":   "from-config",
		"api_base_url": "https://sandbox.example.com/v2/",
		"pagination": map[string]any{
			"items_per_page": 50,
		},
	}))
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}
	if cfg.UserAgent != "from-runtime" {
		t.Fatalf("expected runtime layer to win, got %q", cfg.UserAgent)
	}
	if cfg.APIBaseURL != "https://sandbox.example.com/v2/" {
		t.Fatalf("expected config layer api url, got %q", cfg.APIBaseURL)
	}
	if cfg.Pagination.ItemsPerPage != 50 {
		t.Fatalf("expected config layer page size, got %d", cfg.Pagination.ItemsPerPage)
	}
	if cfg.OAuthBaseURL != DefaultOAuthBaseURL {
		t.Fatalf("expected default oauth url, got %q", cfg.OAuthBaseURL)
	}
}

func TestResolveConfigRejectsInvalidRuntime(t *testing.T) {
	_, err := ResolveConfig(context.Background(), Config{APIBaseURL: "not a url"})
	if err == nil {
		t.Fatalf("expected invalid runtime config to fail")
	}
}
