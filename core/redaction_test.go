package core

import (
	"strings"
	"testing"
)

func TestRedactSensitiveMapMasksNestedCredentials(t *testing.T) {
	out := RedactSensitiveMap(map[string]any{
		"client_id":  "client",
		"token_type": "bearer",
		"nested": map[string]any{
			"refresh_token": "refresh",
		},
		"items": []any{map[string]any{"client_secret": "secret"}},
	})
	if out["client_id"] != "client" || out["token_type"] != "bearer" {
		t.Fatalf("expected non sensitive keys to be kept, got %v", out)
	}
	if out["nested"].(map[string]any)["refresh_token"] != RedactedValue {
		t.Fatalf("expected nested refresh token to be masked")
	}
	if out["items"].([]any)[0].(map[string]any)["client_secret"] != RedactedValue {
		t.Fatalf("expected secret inside slice to be masked")
	}
}

func TestRedactHeaders(t *testing.T) {
	out := RedactHeaders(map[string]string{
		"Authorization": "Bearer abc",
		"Cookie":        "session=1",
		"Accept":        "application/json",
	})
	if out["Authorization"] != RedactedValue || out["Cookie"] != RedactedValue {
		t.Fatalf("expected credentials to be masked, got %v", out)
	}
	if out["Accept"] != "application/json" {
		t.Fatalf("expected accept header to be kept")
	}
}

func TestRedactBody(t *testing.T) {
	jsonBody := RedactBody([]byte(`{"access_token":"a","expires_in":3600}`), "application/json; charset=utf-8")
	if strings.Contains(jsonBody, `"a"`) || !strings.Contains(jsonBody, "3600") {
		t.Fatalf("unexpected redacted json %s", jsonBody)
	}

	formBody := RedactBody([]byte("grant_type=authorization_code&code=xyz&redirect_uri=https%3A%2F%2Fapp"), "application/x-www-form-urlencoded")
	if strings.Contains(formBody, "xyz") || !strings.Contains(formBody, "grant_type=authorization_code") {
		t.Fatalf("unexpected redacted form %s", formBody)
	}

	if got := RedactBody([]byte("plain"), "text/plain"); got != "plain" {
		t.Fatalf("expected plain body unchanged, got %q", got)
	}
}
