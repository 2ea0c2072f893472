// pkg/db/db.go
package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Dialect identifies the SQL backend in use.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Config holds database connection configuration.
type Config struct {
	Driver   Dialect
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	// SQLitePath is the database file used when Driver is DialectSQLite.
	SQLitePath string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
}

// Open connects to the backend selected by cfg.Driver.
func Open(cfg Config) (*sqlx.DB, error) {
	switch cfg.Driver {
	case DialectPostgres, "":
		return NewPostgresDB(cfg)
	case DialectSQLite:
		return NewSQLiteDB(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// DialectOf maps a sqlx driver name back to its Dialect.
func DialectOf(database *sqlx.DB) Dialect {
	if database.DriverName() == "sqlite3" {
		return DialectSQLite
	}
	return DialectPostgres
}

// ForUpdate returns the row-locking suffix for SELECTs in the given dialect.
// SQLite has no row locks; its single writer already serializes transactions.
func (d Dialect) ForUpdate() string {
	if d == DialectPostgres {
		return " FOR UPDATE"
	}
	return ""
}
