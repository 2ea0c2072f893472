// pkg/db/transaction_manager.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// TxFunc is the body of a unit of work. The tx is only valid until the func returns.
type TxFunc func(ctx context.Context, tx *sqlx.Tx) error

// DBTxBeginner defines the interface for beginning transactions.
// *sqlx.DB implements this.
type DBTxBeginner interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// TransactionManager runs units of work against a database.
type TransactionManager struct {
	beginner DBTxBeginner
	opts     *sql.TxOptions
}

// NewTransactionManager creates a TransactionManager. opts may be nil for driver defaults.
func NewTransactionManager(beginner DBTxBeginner, opts *sql.TxOptions) *TransactionManager {
	return &TransactionManager{beginner: beginner, opts: opts}
}

// WithinTx begins a transaction, runs fn, and commits if fn returns nil.
// On error or panic the transaction is rolled back; a panic is re-raised after rollback.
func (m *TransactionManager) WithinTx(ctx context.Context, fn TxFunc) (err error) {
	tx, err := m.beginner.BeginTxx(ctx, m.opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			zap.L().Warn("Failed to roll back transaction", zap.Error(rbErr))
		}
		if p := recover(); p != nil {
			panic(p)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}
