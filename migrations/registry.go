// Package migrations registers the embedded token store schema with a
// migration runner, one filesystem per SQL dialect.
package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	qonto "github.com/goliatone/go-qonto"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"

	DefaultSourceLabel = "go-qonto"

	migrationsDir = "data/sql/migrations"
)

type FilesystemSpec struct {
	Dialect string
	Path    string
	FS      fs.FS
}

type Registration struct {
	SourceLabel string
	Dialects    []string
	Filesystems []FilesystemSpec
}

// RegisterFunc hands one dialect's migration tree to a runner, e.g.
// persistence.Client.RegisterSQLMigrations.
type RegisterFunc func(ctx context.Context, dialect string, sourceLabel string, fsys fs.FS) error

type Option func(*Registration)

func WithSourceLabel(label string) Option {
	return func(r *Registration) {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			r.SourceLabel = trimmed
		}
	}
}

// WithDialects restricts registration to the named dialects.
func WithDialects(dialects ...string) Option {
	return func(r *Registration) {
		if next := normalizeDialects(dialects); len(next) > 0 {
			r.Dialects = next
		}
	}
}

// WithFilesystems replaces the embedded trees.
func WithFilesystems(filesystems ...FilesystemSpec) Option {
	return func(r *Registration) {
		copied := make([]FilesystemSpec, 0, len(filesystems))
		for _, spec := range filesystems {
			dialect := strings.TrimSpace(strings.ToLower(spec.Dialect))
			if dialect == "" || spec.FS == nil {
				continue
			}
			copied = append(copied, FilesystemSpec{Dialect: dialect, Path: spec.Path, FS: spec.FS})
		}
		if len(copied) > 0 {
			r.Filesystems = copied
		}
	}
}

// DialectForDriver maps a database/sql driver name to its migration dialect.
func DialectForDriver(driver string) (string, error) {
	switch strings.TrimSpace(strings.ToLower(driver)) {
	case "sqlite3", "sqlite":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pgx":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("migrations: unsupported driver %q", driver)
	}
}

// Filesystems splits a migration tree into its Postgres root and SQLite
// subdirectory. Without a source it uses the embedded tree.
func Filesystems(sources ...fs.FS) ([]FilesystemSpec, error) {
	root := qonto.GetMigrationsFS()
	if len(sources) > 0 && sources[0] != nil {
		root = sources[0]
	}

	base, basePath, err := locateRoot(root)
	if err != nil {
		return nil, err
	}
	sqliteFS, err := fs.Sub(base, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("migrations: resolve sqlite filesystem: %w", err)
	}

	filesystems := []FilesystemSpec{
		{Dialect: DialectPostgres, Path: basePath, FS: base},
		{Dialect: DialectSQLite, Path: joinPath(basePath, "sqlite"), FS: sqliteFS},
	}
	for _, spec := range filesystems {
		ups, err := fs.Glob(spec.FS, "*.up.sql")
		if err != nil {
			return nil, fmt.Errorf("migrations: glob %s %s: %w", spec.Dialect, spec.Path, err)
		}
		if len(ups) == 0 {
			return nil, fmt.Errorf("migrations: %s filesystem %q has no *.up.sql files", spec.Dialect, spec.Path)
		}
	}
	return filesystems, nil
}

// Register calls registerFn once for every filesystem whose dialect is
// selected. Both dialects are selected by default.
func Register(ctx context.Context, registerFn RegisterFunc, opts ...Option) (Registration, error) {
	reg := Registration{
		SourceLabel: DefaultSourceLabel,
		Dialects:    []string{DialectPostgres, DialectSQLite},
	}
	filesystems, err := Filesystems()
	if err != nil {
		return reg, err
	}
	reg.Filesystems = filesystems

	for _, opt := range opts {
		if opt != nil {
			opt(&reg)
		}
	}
	if registerFn == nil {
		return reg, fmt.Errorf("migrations: register function is required")
	}

	for _, spec := range reg.Filesystems {
		if !slices.Contains(reg.Dialects, spec.Dialect) {
			continue
		}
		if err := registerFn(ctx, spec.Dialect, reg.SourceLabel, spec.FS); err != nil {
			return reg, fmt.Errorf("migrations: register %s (%s): %w", spec.Dialect, spec.Path, err)
		}
	}
	return reg, nil
}

func locateRoot(root fs.FS) (fs.FS, string, error) {
	if _, err := fs.Stat(root, migrationsDir); err == nil {
		sub, err := fs.Sub(root, migrationsDir)
		if err != nil {
			return nil, "", fmt.Errorf("migrations: resolve %s: %w", migrationsDir, err)
		}
		return sub, migrationsDir, nil
	}
	if ups, err := fs.Glob(root, "*.sql"); err == nil && len(ups) > 0 {
		return root, ".", nil
	}
	return nil, "", fmt.Errorf("migrations: %s not found", migrationsDir)
}

func normalizeDialects(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		dialect := strings.TrimSpace(strings.ToLower(value))
		if dialect == "" || slices.Contains(out, dialect) {
			continue
		}
		out = append(out, dialect)
	}
	return out
}

func joinPath(base string, suffix string) string {
	if base == "." {
		return suffix
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(suffix, "/")
}
