// pkg/db/migrate.go
package db

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3" // sqlite3:// URLs
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrate applies all pending schema migrations for the dialect of cfg.
//
// Postgres runs over a dedicated connection borrowed from database so closing the
// migrator leaves the pool open. SQLite opens its own handle on cfg.SQLitePath.
func Migrate(ctx context.Context, database *sqlx.DB, cfg Config) error {
	dialect := cfg.Driver
	if dialect == "" {
		dialect = DialectOf(database)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+string(dialect))
	if err != nil {
		return fmt.Errorf("failed to load %s migrations: %w", dialect, err)
	}

	var m *migrate.Migrate
	switch dialect {
	case DialectPostgres:
		conn, err := database.Conn(ctx)
		if err != nil {
			return fmt.Errorf("failed to acquire migration connection: %w", err)
		}
		driver, err := migratepg.WithConnection(ctx, conn, &migratepg.Config{})
		if err != nil {
			_ = conn.Close()
			return fmt.Errorf("failed to create postgres migration driver: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, "postgres", driver)
		if err != nil {
			_ = driver.Close()
			return fmt.Errorf("failed to create migrator: %w", err)
		}
	case DialectSQLite:
		m, err = migrate.NewWithSourceInstance("iofs", src, "sqlite3://"+cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to create migrator: %w", err)
		}
	default:
		return fmt.Errorf("unsupported database driver %q", dialect)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			zap.L().Warn("Failed to close migrator", zap.NamedError("source_error", srcErr), zap.NamedError("database_error", dbErr))
		}
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			zap.L().Debug("Schema is up to date", zap.String("dialect", string(dialect)))
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, _, _ := m.Version()
	zap.L().Info("Schema migrated", zap.String("dialect", string(dialect)), zap.Uint("version", version))
	return nil
}
