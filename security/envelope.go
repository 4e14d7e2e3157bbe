package security

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	envelopePrefix    = "qonto.secret.v1:"
	envelopeAlgorithm = "aes-256-gcm"
)

type envelope struct {
	KeyID      string `json:"kid"`
	Version    int    `json:"ver"`
	Algorithm  string `json:"alg"`
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

// EnvelopeMetadata describes a sealed value without opening it.
type EnvelopeMetadata struct {
	KeyID     string
	Version   int
	Algorithm string
}

// IsSealed reports whether value carries the sealed envelope prefix.
func IsSealed(value []byte) bool {
	return bytes.HasPrefix(value, []byte(envelopePrefix))
}

func ParseEnvelopeMetadata(sealed []byte) (EnvelopeMetadata, error) {
	env, err := decodeEnvelope(sealed)
	if err != nil {
		return EnvelopeMetadata{}, err
	}
	return EnvelopeMetadata{KeyID: env.KeyID, Version: env.Version, Algorithm: env.Algorithm}, nil
}

func encodeEnvelope(env envelope) ([]byte, error) {
	env.KeyID = strings.TrimSpace(env.KeyID)
	env.Algorithm = strings.ToLower(strings.TrimSpace(env.Algorithm))
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("security: encode envelope: %w", err)
	}
	return append([]byte(envelopePrefix), data...), nil
}

func decodeEnvelope(sealed []byte) (envelope, error) {
	if len(sealed) == 0 {
		return envelope{}, fmt.Errorf("security: sealed value is required")
	}
	if !IsSealed(sealed) {
		return envelope{}, fmt.Errorf("security: invalid sealed value prefix")
	}
	var parsed envelope
	if err := json.Unmarshal(sealed[len(envelopePrefix):], &parsed); err != nil {
		return envelope{}, fmt.Errorf("security: decode envelope: %w", err)
	}
	parsed.KeyID = strings.TrimSpace(parsed.KeyID)
	parsed.Algorithm = strings.ToLower(strings.TrimSpace(parsed.Algorithm))
	if parsed.Ciphertext == "" {
		return envelope{}, fmt.Errorf("security: envelope ciphertext is required")
	}
	return parsed, nil
}

func decodeField(name string, value string) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("security: decode %s: %w", name, err)
	}
	return decoded, nil
}
