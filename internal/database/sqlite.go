package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// SQLiteDriver is the database/sql driver name registered with the SQL
// functions the repositories rely on.
const SQLiteDriver = "sqlite3_stockroom"

func init() {
	sql.Register(SQLiteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// SQLite's built-in lower() folds ASCII only.
			return conn.RegisterFunc("unicode_lower", strings.ToLower, true)
		},
	})
}

//go:embed sqlite_schema.sql
var sqliteSchema string

// SQLite wraps a database/sql handle on a SQLite file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) a SQLite database and applies the schema.
// path may be a file name or a DSN such as "file:x?mode=memory&cache=shared".
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		path = "stockroom.db"
	}
	d, err := sql.Open(SQLiteDriver, path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// One writer at a time; transactions hold the only connection.
	d.SetMaxOpenConns(1)

	if err := d.PingContext(ctx); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}
	if _, err := d.ExecContext(ctx, `PRAGMA busy_timeout=5000`); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := d.ExecContext(ctx, sqliteSchema); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("applying sqlite schema: %w", err)
	}

	return &SQLite{db: d}, nil
}

// Close closes the database handle.
func (s *SQLite) Close() {
	_ = s.db.Close()
}

// Ping verifies the database is reachable.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DB returns the underlying handle for repository use.
func (s *SQLite) DB() *sql.DB {
	return s.db
}
