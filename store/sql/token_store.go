// Package sqlstore persists OAuth tokens with bun, on SQLite or Postgres.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-qonto/core"
	"github.com/goliatone/go-qonto/security"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const ErrorTokensNotFound = "QONTO_TOKENS_NOT_FOUND"

// TokenStore keeps one set of OAuth tokens per key, e.g. per organization
// or per end user.
type TokenStore struct {
	db     *bun.DB
	repo   repository.Repository[*oauthTokenRecord]
	sealer security.Sealer
	now    func() time.Time
}

type Option func(*TokenStore)

// WithSealer encrypts access and refresh tokens before they are written.
// Rows written without a sealer are still readable.
func WithSealer(sealer security.Sealer) Option {
	return func(s *TokenStore) {
		s.sealer = sealer
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *TokenStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTokenStore accepts a *bun.DB or anything exposing DB() *bun.DB, such as
// a go-persistence-bun client.
func NewTokenStore(client any, opts ...Option) (*TokenStore, error) {
	db, err := resolveBunDB(client)
	if err != nil {
		return nil, err
	}
	repo := repository.NewRepository[*oauthTokenRecord](db, oauthTokenHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid oauth token repository wiring: %w", err)
		}
	}
	store := &TokenStore{db: db, repo: repo, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store, nil
}

// Save inserts or replaces the tokens stored under key.
func (s *TokenStore) Save(ctx context.Context, key string, tokens core.OAuthTokens) error {
	if s == nil || s.db == nil || s.repo == nil {
		return fmt.Errorf("sqlstore: token store is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("sqlstore: token key is required")
	}
	if tokens.AccessToken == "" {
		return fmt.Errorf("sqlstore: access token is required")
	}
	now := s.now().UTC()
	tokens, err := s.seal(ctx, tokens)
	if err != nil {
		return err
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing := new(oauthTokenRecord)
		err := tx.NewSelect().
			Model(existing).
			Where("?TableAlias.token_key = ?", key).
			Limit(1).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			record := &oauthTokenRecord{ID: uuid.NewString(), TokenKey: key, CreatedAt: now}
			record.apply(tokens, now)
			_, err = s.repo.CreateTx(ctx, tx, record)
			return err
		}
		if err != nil {
			return err
		}
		existing.apply(tokens, now)
		_, err = tx.NewUpdate().
			Model(existing).
			Column("access_token", "refresh_token", "token_type", "expires_at", "updated_at").
			WherePK().
			Exec(ctx)
		return err
	})
}

// Load returns the tokens stored under key, or a not found error.
func (s *TokenStore) Load(ctx context.Context, key string) (core.OAuthTokens, error) {
	if s == nil || s.repo == nil {
		return core.OAuthTokens{}, fmt.Errorf("sqlstore: token store is not configured")
	}
	key = strings.TrimSpace(key)
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("token_key", "=", key),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return core.OAuthTokens{}, err
	}
	if len(records) == 0 {
		return core.OAuthTokens{}, tokensNotFoundError(key)
	}
	return s.open(ctx, records[0].toDomain())
}

// Delete removes the tokens stored under key. Deleting a missing key is not
// an error.
func (s *TokenStore) Delete(ctx context.Context, key string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: token store is not configured")
	}
	_, err := s.db.NewDelete().
		Model((*oauthTokenRecord)(nil)).
		Where("token_key = ?", strings.TrimSpace(key)).
		Exec(ctx)
	return err
}

// ExpiringBefore lists the keys whose access token expires before the given
// instant, soonest first.
func (s *TokenStore) ExpiringBefore(ctx context.Context, before time.Time) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: token store is not configured")
	}
	keys := []string{}
	err := s.db.NewSelect().
		Model((*oauthTokenRecord)(nil)).
		Column("token_key").
		Where("expires_at < ?", before.UTC()).
		Order("expires_at ASC").
		Scan(ctx, &keys)
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *TokenStore) seal(ctx context.Context, tokens core.OAuthTokens) (core.OAuthTokens, error) {
	if s.sealer == nil {
		return tokens, nil
	}
	access, err := s.sealer.Seal(ctx, []byte(tokens.AccessToken))
	if err != nil {
		return core.OAuthTokens{}, fmt.Errorf("sqlstore: seal access token: %w", err)
	}
	tokens.AccessToken = string(access)
	if tokens.RefreshToken != "" {
		refresh, err := s.sealer.Seal(ctx, []byte(tokens.RefreshToken))
		if err != nil {
			return core.OAuthTokens{}, fmt.Errorf("sqlstore: seal refresh token: %w", err)
		}
		tokens.RefreshToken = string(refresh)
	}
	return tokens, nil
}

func (s *TokenStore) open(ctx context.Context, tokens core.OAuthTokens) (core.OAuthTokens, error) {
	access, err := s.openValue(ctx, tokens.AccessToken)
	if err != nil {
		return core.OAuthTokens{}, err
	}
	refresh, err := s.openValue(ctx, tokens.RefreshToken)
	if err != nil {
		return core.OAuthTokens{}, err
	}
	tokens.AccessToken = access
	tokens.RefreshToken = refresh
	return tokens, nil
}

func (s *TokenStore) openValue(ctx context.Context, value string) (string, error) {
	if !security.IsSealed([]byte(value)) {
		return value, nil
	}
	if s.sealer == nil {
		return "", fmt.Errorf("sqlstore: stored token is sealed but no sealer is configured")
	}
	opened, err := s.sealer.Open(ctx, []byte(value))
	if err != nil {
		return "", fmt.Errorf("sqlstore: open stored token: %w", err)
	}
	return string(opened), nil
}

func (s *TokenStore) DB() *bun.DB {
	if s == nil {
		return nil
	}
	return s.db
}

func IsTokensNotFound(err error) bool {
	var rich *goerrors.Error
	return goerrors.As(err, &rich) && rich.TextCode == ErrorTokensNotFound
}

func tokensNotFoundError(key string) error {
	return goerrors.New("sqlstore: no oauth tokens stored for key", goerrors.CategoryNotFound).
		WithTextCode(ErrorTokensNotFound).
		WithMetadata(map[string]any{"token_key": key})
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: database client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported database client type %T", candidate)
	}
}
