// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"micro-ledger/internal/domain"
)

// TransactionRepository is the append-only transaction ledger. Stored transactions are
// never edited.
type TransactionRepository interface {
	// Append stores a transaction with a terminal status and sets its ID.
	Append(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// ListForAccount returns transactions where the account is source or destination,
	// newest first with ties broken by ID descending. A limit <= 0 returns all rows.
	ListForAccount(ctx context.Context, q DBExecutor, accountID int64, limit, offset int) ([]domain.Transaction, error)
	// ListRecent returns the latest transactions across all accounts, same ordering.
	ListRecent(ctx context.Context, q DBExecutor, limit int) ([]domain.Transaction, error)
	// CountByType counts transactions of a type with the given status.
	CountByType(ctx context.Context, q DBExecutor, txType domain.TransactionType, status domain.TransactionStatus) (int64, error)
}
