// pkg/db/sqlite.go
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDSN returns the go-sqlite3 DSN for path with WAL, a busy timeout and foreign keys on.
func SQLiteDSN(path string) string {
	return path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on"
}

// NewSQLiteDB opens an embedded SQLite database, used for local development and tests.
//
// The pool is capped at one connection. Callers must not wait on anything else while
// holding it open in a transaction.
func NewSQLiteDB(cfg Config) (*sqlx.DB, error) {
	if cfg.SQLitePath == "" {
		return nil, fmt.Errorf("sqlite path cannot be empty")
	}

	db, err := sqlx.Open("sqlite3", SQLiteDSN(cfg.SQLitePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), durationOr(cfg.PingTimeout, 5*time.Second))
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return db, nil
}
