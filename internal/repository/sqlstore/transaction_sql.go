// internal/repository/sqlstore/transaction_sql.go
package sqlstore

import (
	"context"
	"fmt"

	"micro-ledger/internal/domain"
	"micro-ledger/internal/repository"
)

// Listing queries resolve the owning users through the accounts on either side.
const transactionListSelect = `
		SELECT t.id, t.type, t.status, t.amount_cents, t.from_account_id, t.to_account_id,
		       t.description, t.created_at, fa.user_id AS from_user_id, ta.user_id AS to_user_id
		FROM transactions t
		LEFT JOIN accounts fa ON fa.id = t.from_account_id
		LEFT JOIN accounts ta ON ta.id = t.to_account_id`

const transactionListOrder = ` ORDER BY t.created_at DESC, t.id DESC`

// TransactionRepository implements repository.TransactionRepository for PostgreSQL and SQLite.
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository() repository.TransactionRepository {
	return &TransactionRepository{}
}

// Append inserts a finalized transaction record using the provided DBExecutor.
func (r *TransactionRepository) Append(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	if err := transaction.Validate(); err != nil {
		return fmt.Errorf("refusing to store transaction: %w", err)
	}

	query := `INSERT INTO transactions (type, status, amount_cents, from_account_id, to_account_id, description, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		transaction.Type,
		transaction.Status,
		transaction.AmountCents,
		transaction.FromAccountID,
		transaction.ToAccountID,
		transaction.Description,
		transaction.CreatedAt,
	).Scan(&transaction.ID)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// ListForAccount retrieves the transactions touching an account, newest first.
// Offset only applies when limit is positive.
func (r *TransactionRepository) ListForAccount(ctx context.Context, q repository.DBExecutor, accountID int64, limit, offset int) ([]domain.Transaction, error) {
	transactions := []domain.Transaction{}

	query := transactionListSelect + `
		WHERE t.from_account_id = $1 OR t.to_account_id = $1` + transactionListOrder
	args := []interface{}{accountID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, max(offset, 0))
	}

	if err := q.SelectContext(ctx, &transactions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for account %d: %w", accountID, err)
	}
	return transactions, nil
}

// ListRecent retrieves the latest transactions across the whole ledger.
func (r *TransactionRepository) ListRecent(ctx context.Context, q repository.DBExecutor, limit int) ([]domain.Transaction, error) {
	transactions := []domain.Transaction{}
	query := transactionListSelect + transactionListOrder + ` LIMIT $1`
	if err := q.SelectContext(ctx, &transactions, query, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch recent transactions: %w", err)
	}
	return transactions, nil
}

// CountByType counts transactions of txType with the given status.
func (r *TransactionRepository) CountByType(ctx context.Context, q repository.DBExecutor, txType domain.TransactionType, status domain.TransactionStatus) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM transactions WHERE type = $1 AND status = $2`
	if err := q.GetContext(ctx, &count, query, txType, status); err != nil {
		return 0, fmt.Errorf("failed to count %s transactions: %w", txType, err)
	}
	return count, nil
}
