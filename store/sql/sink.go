package sqlstore

import (
	"context"
	"sync"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-qonto/core"
)

// Sink persists tokens handed over by the OAuth commands under one key.
// SetTokens cannot fail, so save errors are logged and kept for Err.
type Sink struct {
	store  *TokenStore
	key    string
	ctx    context.Context
	logger core.Logger

	mu      sync.Mutex
	lastErr error
}

func (s *TokenStore) Sink(ctx context.Context, key string, logger core.Logger) *Sink {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Sink{store: s, key: key, ctx: ctx, logger: glog.Ensure(logger)}
}

func (s *Sink) SetTokens(tokens core.OAuthTokens) {
	err := s.store.Save(s.ctx, s.key, tokens)
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("qonto token store save failed", "token_key", s.key, "error", err)
	}
}

// Err returns the outcome of the last SetTokens call.
func (s *Sink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
