// internal/repository/db_executor.go
package repository

import (
	"context"
	"database/sql"
)

// DBExecutor is the query surface shared by *sqlx.DB and *sqlx.Tx.
// Reads take the pool; ledger mutations always receive the unit-of-work tx.
type DBExecutor interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	// QueryRowContext is used for INSERT ... RETURNING id.
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
