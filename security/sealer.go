// Package security seals credentials before they are persisted, using an
// application key and AES-256-GCM.
package security

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// Sealer encrypts values at rest. Open must accept anything Seal produced
// with the same key.
type Sealer interface {
	Seal(ctx context.Context, plaintext []byte) ([]byte, error)
	Open(ctx context.Context, sealed []byte) ([]byte, error)
}

type Option func(*AppKeySealer)

// AppKeySealer seals with a key derived from application key material.
// Sealed values record the key id and version they were sealed with; a
// sealer refuses values from another key.
type AppKeySealer struct {
	key     []byte
	keyID   string
	version int
}

func WithKeyID(id string) Option {
	return func(s *AppKeySealer) {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			s.keyID = trimmed
		}
	}
}

func WithVersion(version int) Option {
	return func(s *AppKeySealer) {
		if version > 0 {
			s.version = version
		}
	}
}

// NewAppKeySealer uses keyMaterial directly when it is a valid AES key size
// and its SHA-256 digest otherwise.
func NewAppKeySealer(keyMaterial []byte, opts ...Option) (*AppKeySealer, error) {
	key := bytes.TrimSpace(keyMaterial)
	if len(key) == 0 {
		return nil, fmt.Errorf("security: key material is required")
	}
	sealer := &AppKeySealer{
		key:     normalizeKey(key),
		keyID:   "app-key",
		version: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(sealer)
		}
	}
	return sealer, nil
}

func NewAppKeySealerFromString(key string, opts ...Option) (*AppKeySealer, error) {
	return NewAppKeySealer([]byte(key), opts...)
}

func (s *AppKeySealer) Seal(_ context.Context, plaintext []byte) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("security: sealer is nil")
	}
	if len(plaintext) == 0 {
		return nil, fmt.Errorf("security: plaintext is required")
	}
	gcm, err := s.aead()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("security: nonce generation failed: %w", err)
	}
	return encodeEnvelope(envelope{
		KeyID:      s.keyID,
		Version:    s.version,
		Algorithm:  envelopeAlgorithm,
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(gcm.Seal(nil, nonce, plaintext, s.additionalData())),
	})
}

func (s *AppKeySealer) Open(_ context.Context, sealed []byte) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("security: sealer is nil")
	}
	env, err := decodeEnvelope(sealed)
	if err != nil {
		return nil, err
	}
	if env.Algorithm != envelopeAlgorithm {
		return nil, fmt.Errorf("security: unsupported algorithm %q", env.Algorithm)
	}
	if env.KeyID != s.keyID {
		return nil, fmt.Errorf("security: key id mismatch: got %q want %q", env.KeyID, s.keyID)
	}
	if env.Version != s.version {
		return nil, fmt.Errorf("security: key version mismatch: got %d want %d", env.Version, s.version)
	}
	nonce, err := decodeField("nonce", env.Nonce)
	if err != nil {
		return nil, err
	}
	payload, err := decodeField("ciphertext", env.Ciphertext)
	if err != nil {
		return nil, err
	}
	gcm, err := s.aead()
	if err != nil {
		return nil, err
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, fmt.Errorf("security: invalid nonce size %d", len(nonce))
	}
	plaintext, err := gcm.Open(nil, nonce, payload, s.additionalData())
	if err != nil {
		return nil, fmt.Errorf("security: open sealed value: %w", err)
	}
	return plaintext, nil
}

func (s *AppKeySealer) KeyID() string {
	if s == nil {
		return ""
	}
	return s.keyID
}

func (s *AppKeySealer) Version() int {
	if s == nil {
		return 0
	}
	return s.version
}

func (s *AppKeySealer) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, fmt.Errorf("security: create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("security: create gcm: %w", err)
	}
	return gcm, nil
}

// additionalData binds the ciphertext to the key metadata, so a tampered
// kid or ver fails authentication.
func (s *AppKeySealer) additionalData() []byte {
	return []byte(fmt.Sprintf("%s:%d", s.keyID, s.version))
}

func normalizeKey(value []byte) []byte {
	if len(value) == 16 || len(value) == 24 || len(value) == 32 {
		return append([]byte(nil), value...)
	}
	sum := sha256.Sum256(value)
	return sum[:]
}

var _ Sealer = (*AppKeySealer)(nil)
