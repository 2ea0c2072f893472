// internal/testutil/sqlite.go
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"micro-ledger/pkg/db"
)

// SQLiteConfig returns a database config pointing at a fresh file in the test's temp dir.
func SQLiteConfig(t testing.TB) db.Config {
	t.Helper()
	return db.Config{
		Driver:     db.DialectSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "ledger.db"),
	}
}

// NewSQLiteDB opens a migrated SQLite database that is closed when the test ends.
func NewSQLiteDB(t testing.TB) *sqlx.DB {
	t.Helper()

	cfg := SQLiteConfig(t)
	database, err := db.NewSQLiteDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.Migrate(context.Background(), database, cfg))
	return database
}
