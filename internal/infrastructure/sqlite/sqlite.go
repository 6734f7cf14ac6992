package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	infraconfig "txboundary/internal/infrastructure/config"

	_ "modernc.org/sqlite"
)

type DB struct{ SQL *sql.DB }

// Open opens (creating if needed) the database file at path and ensures the
// schema. SQLite allows one writer, so the pool is capped at one connection.
func Open(ctx context.Context, path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", path, infraconfig.DefaultSQLiteBusyMS)
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqldb.SetMaxOpenConns(1)
	db := &DB{SQL: sqldb}
	if err := db.ensureSchema(ctx); err != nil {
		_ = sqldb.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close() error                   { return d.SQL.Close() }
func (d *DB) Ping(ctx context.Context) error { return d.SQL.PingContext(ctx) }

func (d *DB) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL,
  pay_status TEXT NOT NULL CHECK (pay_status IN ('pending', 'waiting', 'complete')),
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`
	if _, err := d.SQL.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create orders table: %w", err)
	}
	return nil
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (d *DB) conn(ctx context.Context) querier {
	if tx := txFromCtx(ctx); tx != nil {
		return tx
	}
	return d.SQL
}
