package migrations

import (
	"context"
	"database/sql"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	qonto "github.com/goliatone/go-qonto"
	_ "github.com/mattn/go-sqlite3"
)

func TestFilesystemsReturnsPostgresAndSQLite(t *testing.T) {
	filesystems, err := Filesystems()
	if err != nil {
		t.Fatalf("filesystems: %v", err)
	}
	if len(filesystems) != 2 {
		t.Fatalf("expected 2 filesystems, got %d", len(filesystems))
	}
	seen := map[string]bool{}
	for _, spec := range filesystems {
		ups, err := fs.Glob(spec.FS, "*.up.sql")
		if err != nil {
			t.Fatalf("glob %s: %v", spec.Dialect, err)
		}
		if len(ups) != 2 {
			t.Fatalf("expected 2 %s up migrations, got %v", spec.Dialect, ups)
		}
		seen[spec.Dialect] = true
	}
	if !seen[DialectPostgres] || !seen[DialectSQLite] {
		t.Fatalf("expected both dialects, got %v", seen)
	}
}

func TestFilesystemsAcceptsFlatSource(t *testing.T) {
	source := fstest.MapFS{
		"00001_a.up.sql":        {Data: []byte("SELECT 1;")},
		"sqlite/00001_a.up.sql": {Data: []byte("SELECT 1;")},
	}
	filesystems, err := Filesystems(source)
	if err != nil {
		t.Fatalf("filesystems: %v", err)
	}
	if filesystems[0].Path != "." || filesystems[1].Path != "sqlite" {
		t.Fatalf("unexpected paths %q and %q", filesystems[0].Path, filesystems[1].Path)
	}
}

func TestFilesystemsRejectsTreeWithoutUpMigrations(t *testing.T) {
	source := fstest.MapFS{
		"00001_a.up.sql":          {Data: []byte("SELECT 1;")},
		"sqlite/00001_a.down.sql": {Data: []byte("SELECT 1;")},
	}
	if _, err := Filesystems(source); err == nil {
		t.Fatalf("expected error for sqlite tree without up migrations")
	}
}

func TestRegisterHonoursDialects(t *testing.T) {
	var calls []string
	reg, err := Register(context.Background(), func(_ context.Context, dialect string, label string, _ fs.FS) error {
		calls = append(calls, dialect+":"+label)
		return nil
	}, WithDialects(" SQLite "))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(calls) != 1 || calls[0] != "sqlite:go-qonto" {
		t.Fatalf("unexpected registrations %v", calls)
	}
	if reg.SourceLabel != DefaultSourceLabel {
		t.Fatalf("unexpected source label %q", reg.SourceLabel)
	}
}

func TestRegisterRequiresFunction(t *testing.T) {
	if _, err := Register(context.Background(), nil); err == nil {
		t.Fatalf("expected error without register function")
	}
}

func TestDialectForDriver(t *testing.T) {
	cases := map[string]string{
		"sqlite3":  DialectSQLite,
		"postgres": DialectPostgres,
		"pgx":      DialectPostgres,
	}
	for driver, want := range cases {
		got, err := DialectForDriver(driver)
		if err != nil || got != want {
			t.Fatalf("driver %s: got %q, %v", driver, got, err)
		}
	}
	if _, err := DialectForDriver("mysql"); err == nil {
		t.Fatalf("expected mysql to be rejected")
	}
}

func TestOAuthTokenMigrationPairsExistForBothDialects(t *testing.T) {
	root := qonto.GetMigrationsFS()
	paths := []string{
		"data/sql/migrations/00001_qonto_oauth_tokens.up.sql",
		"data/sql/migrations/00001_qonto_oauth_tokens.down.sql",
		"data/sql/migrations/sqlite/00001_qonto_oauth_tokens.up.sql",
		"data/sql/migrations/sqlite/00001_qonto_oauth_tokens.down.sql",
	}
	for _, path := range paths {
		content, err := fs.ReadFile(root, path)
		if err != nil {
			t.Fatalf("read migration %s: %v", path, err)
		}
		if strings.TrimSpace(string(content)) == "" {
			t.Fatalf("expected migration %s to have SQL content", path)
		}
	}
}

func TestSQLiteOAuthTokenMigrationApplyAndRollback(t *testing.T) {
	db, err := sql.Open("sqlite3", "file:migrations-oauth-tokens?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	defer func() { _ = db.Close() }()
	ctx := context.Background()

	sqliteMigrations, err := fs.Sub(qonto.GetMigrationsFS(), "data/sql/migrations/sqlite")
	if err != nil {
		t.Fatalf("resolve sqlite migrations: %v", err)
	}
	for _, name := range []string{"00001_qonto_oauth_tokens.up.sql", "00002_qonto_oauth_tokens_expiry.up.sql"} {
		if err := execSQLMigration(ctx, db, sqliteMigrations, name); err != nil {
			t.Fatalf("apply %s: %v", name, err)
		}
	}

	insert := `INSERT INTO qonto_oauth_tokens (id, token_key, access_token, expires_at) VALUES (?, ?, ?, ?)`
	if _, err := db.ExecContext(ctx, insert, "id-1", "acme", "access-1", "2026-01-01 00:00:00"); err != nil {
		t.Fatalf("insert token: %v", err)
	}
	if _, err := db.ExecContext(ctx, insert, "id-2", "acme", "access-2", "2026-01-01 00:00:00"); err == nil {
		t.Fatalf("expected unique token_key violation")
	}

	for _, name := range []string{"00002_qonto_oauth_tokens_expiry.down.sql", "00001_qonto_oauth_tokens.down.sql"} {
		if err := execSQLMigration(ctx, db, sqliteMigrations, name); err != nil {
			t.Fatalf("rollback %s: %v", name, err)
		}
	}
	var count int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`,
		"qonto_oauth_tokens",
	).Scan(&count); err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected qonto_oauth_tokens to be dropped")
	}
}

func execSQLMigration(ctx context.Context, db *sql.DB, fsys fs.FS, name string) error {
	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, string(content))
	return err
}
