package sqlstore_test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	qontocommand "github.com/goliatone/go-qonto/command"
	"github.com/goliatone/go-qonto/core"
	"github.com/goliatone/go-qonto/devkit"
	"github.com/goliatone/go-qonto/security"
	sqlstore "github.com/goliatone/go-qonto/store/sql"
)

func newSQLiteStore(t *testing.T) *sqlstore.TokenStore {
	t.Helper()
	dsn := fmt.Sprintf("file:qonto-tokens-%d?mode=memory&cache=shared", time.Now().UnixNano())
	store, client, err := sqlstore.OpenTokenStore(context.Background(), sqlstore.Config{Driver: "sqlite3", DSN: dsn})
	if err != nil {
		t.Fatalf("open token store: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return store
}

func TestTokenStoreSaveAndLoad(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	expires := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	err := store.Save(ctx, "acme", core.OAuthTokens{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		TokenType:    "bearer",
		ExpiresAt:    expires,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := store.Load(ctx, "acme")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.AccessToken != "access-1" || loaded.RefreshToken != "refresh-1" || loaded.TokenType != "bearer" {
		t.Fatalf("unexpected tokens %+v", loaded)
	}
	if !loaded.ExpiresAt.Equal(expires) {
		t.Fatalf("expected expiry %v, got %v", expires, loaded.ExpiresAt)
	}
}

func TestTokenStoreSaveReplacesExistingKey(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	first := core.OAuthTokens{AccessToken: "access-1", RefreshToken: "refresh-1", ExpiresAt: time.Now().Add(time.Hour)}
	second := core.OAuthTokens{AccessToken: "access-2", RefreshToken: "refresh-2", ExpiresAt: time.Now().Add(2 * time.Hour)}

	if err := store.Save(ctx, "acme", first); err != nil {
		t.Fatalf("save first: %v", err)
	}
	if err := store.Save(ctx, "acme", second); err != nil {
		t.Fatalf("save second: %v", err)
	}
	loaded, err := store.Load(ctx, "acme")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.AccessToken != "access-2" || loaded.RefreshToken != "refresh-2" {
		t.Fatalf("expected replaced tokens, got %+v", loaded)
	}

	var rows int
	rows, err = store.DB().NewSelect().Table("qonto_oauth_tokens").Where("token_key = ?", "acme").Count(ctx)
	if err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected one row per key, got %d", rows)
	}
}

func TestTokenStoreLoadMissingKey(t *testing.T) {
	store := newSQLiteStore(t)
	_, err := store.Load(context.Background(), "unknown")
	if !sqlstore.IsTokensNotFound(err) {
		t.Fatalf("expected tokens not found, got %v", err)
	}
}

func TestTokenStoreDelete(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	if err := store.Save(ctx, "acme", core.OAuthTokens{AccessToken: "access-1", ExpiresAt: time.Now()}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(ctx, "acme"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(ctx, "acme"); !sqlstore.IsTokensNotFound(err) {
		t.Fatalf("expected tokens not found after delete, got %v", err)
	}
	if err := store.Delete(ctx, "acme"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestTokenStoreRejectsInvalidInput(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	if err := store.Save(ctx, " ", core.OAuthTokens{AccessToken: "access-1"}); err == nil {
		t.Fatalf("expected error for blank key")
	}
	if err := store.Save(ctx, "acme", core.OAuthTokens{}); err == nil {
		t.Fatalf("expected error for missing access token")
	}
}

func TestTokenStoreExpiringBefore(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := map[string]time.Time{
		"late":  base.Add(72 * time.Hour),
		"soon":  base.Add(2 * time.Hour),
		"first": base.Add(time.Hour),
	}
	for key, expires := range entries {
		if err := store.Save(ctx, key, core.OAuthTokens{AccessToken: "access-" + key, ExpiresAt: expires}); err != nil {
			t.Fatalf("save %s: %v", key, err)
		}
	}

	keys, err := store.ExpiringBefore(ctx, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("expiring before: %v", err)
	}
	if len(keys) != 2 || keys[0] != "first" || keys[1] != "soon" {
		t.Fatalf("unexpected expiring keys %v", keys)
	}
}

func TestSinkPersistsTokensFromGetTokensCommand(t *testing.T) {
	store := newSQLiteStore(t)
	fake := devkit.NewFakeTransport().JSON(http.MethodPost, "token", http.StatusOK, devkit.TokensJSON)
	client, err := devkit.NewClient(fake)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	sink := store.Sink(context.Background(), "acme", nil)
	cmd := qontocommand.NewGetTokensCommand(client.OAuth, sink)

	err = cmd.Execute(context.Background(), qontocommand.GetTokensMessage{
		Credentials: core.OAuthCredentials{ClientID: "client", ClientSecret: "secret", RedirectURI: "https://app.example.test/cb"},
		Code:        "code-1",
	})
	if err != nil {
		t.Fatalf("get tokens: %v", err)
	}
	if err := sink.Err(); err != nil {
		t.Fatalf("sink save: %v", err)
	}
	loaded, err := store.Load(context.Background(), "acme")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.AccessToken != "access-1" || loaded.RefreshToken != "refresh-1" {
		t.Fatalf("unexpected persisted tokens %+v", loaded)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := sqlstore.Open(context.Background(), sqlstore.Config{Driver: "mysql", DSN: "x"}); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
}

func TestTokenStoreSealsTokensAtRest(t *testing.T) {
	ctx := context.Background()
	dsn := fmt.Sprintf("file:qonto-sealed-%d?mode=memory&cache=shared", time.Now().UnixNano())
	client, err := sqlstore.Open(ctx, sqlstore.Config{Driver: "sqlite3", DSN: dsn})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	sealer, err := security.NewAppKeySealerFromString("token-store-test-key")
	if err != nil {
		t.Fatalf("new sealer: %v", err)
	}
	sealed, err := sqlstore.NewTokenStore(client, sqlstore.WithSealer(sealer))
	if err != nil {
		t.Fatalf("new sealed store: %v", err)
	}
	plain, err := sqlstore.NewTokenStore(client)
	if err != nil {
		t.Fatalf("new plain store: %v", err)
	}

	tokens := core.OAuthTokens{AccessToken: "access-1", RefreshToken: "refresh-1", TokenType: "bearer", ExpiresAt: time.Now().Add(time.Hour)}
	if err := sealed.Save(ctx, "acme", tokens); err != nil {
		t.Fatalf("save sealed: %v", err)
	}

	var stored string
	err = sealed.DB().NewSelect().
		Table("qonto_oauth_tokens").
		Column("access_token").
		Where("token_key = ?", "acme").
		Scan(ctx, &stored)
	if err != nil {
		t.Fatalf("select raw token: %v", err)
	}
	if !security.IsSealed([]byte(stored)) || strings.Contains(stored, "access-1") {
		t.Fatalf("expected access token sealed at rest, got %q", stored)
	}

	loaded, err := sealed.Load(ctx, "acme")
	if err != nil {
		t.Fatalf("load sealed: %v", err)
	}
	if loaded.AccessToken != "access-1" || loaded.RefreshToken != "refresh-1" {
		t.Fatalf("unexpected opened tokens %+v", loaded)
	}
	if _, err := plain.Load(ctx, "acme"); err == nil {
		t.Fatalf("expected a store without sealer to refuse sealed rows")
	}

	if err := plain.Save(ctx, "legacy", core.OAuthTokens{AccessToken: "legacy-access", ExpiresAt: time.Now()}); err != nil {
		t.Fatalf("save plain: %v", err)
	}
	legacy, err := sealed.Load(ctx, "legacy")
	if err != nil {
		t.Fatalf("load plain row through sealed store: %v", err)
	}
	if legacy.AccessToken != "legacy-access" || legacy.RefreshToken != "" {
		t.Fatalf("unexpected legacy tokens %+v", legacy)
	}
}
