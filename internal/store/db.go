package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Supported SQL dialects.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// DB wraps sql.DB for Postgres (pgx) or SQLite (go-sqlite3).
type DB struct {
	Client  *sql.DB
	Dialect string
}

// NewDB opens a connection pool for the given dialect and verifies it with a ping.
// For SQLite the dsn is a file path or ":memory:".
func NewDB(ctx context.Context, dialect, dsn string) (*DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch dialect {
	case Postgres:
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(time.Hour)
	case SQLite:
		if dsn != ":memory:" {
			if dir := filepath.Dir(dsn); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return nil, fmt.Errorf("create sqlite dir: %w", err)
				}
			}
			dsn += "?_busy_timeout=5000&_journal_mode=WAL"
		}
		db, err = sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, err
		}
		// a single connection keeps :memory: databases shared and serializes writers
		db.SetMaxOpenConns(1)
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	return &DB{Client: db, Dialect: dialect}, nil
}

// Migrate applies the embedded schema for the connection's dialect. Statements are idempotent.
func (d *DB) Migrate(ctx context.Context) error {
	raw, err := schemaFS.ReadFile("schema/" + d.Dialect + ".sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	for _, stmt := range strings.Split(string(raw), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := d.Client.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Healthy verifies database connectivity.
func (d *DB) Healthy(ctx context.Context) bool {
	if d == nil || d.Client == nil {
		return false
	}
	return d.Client.PingContext(ctx) == nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}
