package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strings"

	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-qonto/migrations"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Config selects the database. Driver is a database/sql driver name:
// "sqlite3" or "postgres".
type Config struct {
	Driver string
	DSN    string
	Debug  bool
}

func (c Config) GetDebug() bool {
	return c.Debug
}

func (c Config) GetDriver() string {
	return c.Driver
}

func (c Config) GetServer() string {
	return c.DSN
}

// Open connects, applies the embedded migrations for the driver's dialect
// and returns the persistence client.
func Open(ctx context.Context, cfg Config) (*persistence.Client, error) {
	dialect, err := migrations.DialectForDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("sqlstore: dsn is required")
	}
	sqlDB, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", cfg.Driver, err)
	}

	var client *persistence.Client
	switch dialect {
	case migrations.DialectSQLite:
		sqlDB.SetMaxOpenConns(1)
		client, err = persistence.New(cfg, sqlDB, sqlitedialect.New())
	default:
		client, err = persistence.New(cfg, sqlDB, pgdialect.New())
	}
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlstore: persistence client: %w", err)
	}

	_, err = migrations.Register(ctx, func(_ context.Context, _ string, _ string, fsys fs.FS) error {
		client.RegisterSQLMigrations(fsys)
		return nil
	}, migrations.WithDialects(dialect))
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	if err := client.Migrate(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("sqlstore: migrate: %w", err)
	}
	return client, nil
}

// OpenTokenStore is Open followed by NewTokenStore.
func OpenTokenStore(ctx context.Context, cfg Config, opts ...Option) (*TokenStore, *persistence.Client, error) {
	client, err := Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := NewTokenStore(client, opts...)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return store, client, nil
}
