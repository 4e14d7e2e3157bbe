package core

import (
	"encoding/json"
	"net/url"
	"strings"
)

const RedactedValue = "[REDACTED]"

// RedactSensitiveMap masks values whose key names a credential, recursing
// into nested maps and slices.
func RedactSensitiveMap(metadata map[string]any) map[string]any {
	if len(metadata) == 0 {
		return map[string]any{}
	}
	return redactSensitiveMap(metadata)
}

func redactSensitiveMap(source map[string]any) map[string]any {
	target := make(map[string]any, len(source))
	for key, value := range source {
		if shouldRedactKey(key) {
			target[key] = RedactedValue
			continue
		}
		target[key] = redactSensitiveValue(value)
	}
	return target
}

func redactSensitiveValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return redactSensitiveMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i := range typed {
			out[i] = redactSensitiveValue(typed[i])
		}
		return out
	default:
		return value
	}
}

// RedactHeaders masks credentials before headers are logged.
func RedactHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for key, value := range headers {
		if shouldRedactKey(key) || strings.EqualFold(strings.TrimSpace(key), "cookie") {
			out[key] = RedactedValue
			continue
		}
		out[key] = value
	}
	return out
}

// RedactBody renders a request or response body for logging. JSON objects
// and form bodies have their credential fields masked; other content is
// returned as is.
func RedactBody(body []byte, contentType string) string {
	if len(body) == 0 {
		return ""
	}
	contentType = strings.ToLower(contentType)
	switch {
	case strings.Contains(contentType, "application/x-www-form-urlencoded"):
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return RedactedValue
		}
		for key := range values {
			if shouldRedactKey(key) || key == "code" {
				values[key] = []string{RedactedValue}
			}
		}
		return values.Encode()
	case strings.Contains(contentType, "json"):
		var decoded map[string]any
		if err := json.Unmarshal(body, &decoded); err != nil {
			return string(body)
		}
		encoded, err := json.Marshal(redactSensitiveMap(decoded))
		if err != nil {
			return RedactedValue
		}
		return string(encoded)
	default:
		return string(body)
	}
}

func shouldRedactKey(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" || isTraceabilityKey(key) {
		return false
	}
	for _, token := range []string{
		"password",
		"secret",
		"token",
		"authorization",
		"api_key",
		"apikey",
		"refresh",
		"credential",
	} {
		if strings.Contains(key, token) {
			return true
		}
	}
	return false
}

func isTraceabilityKey(key string) bool {
	switch key {
	case "token_type",
		"token_key",
		"expires_in",
		"operation",
		"request_id",
		"trace_id":
		return true
	default:
		return false
	}
}
