// internal/repository/account_repo.go
package repository

import (
	"context"

	"micro-ledger/internal/domain"
)

// AccountRepository owns account balance state. ApplyDelta is the only method that
// changes a balance.
type AccountRepository interface {
	// CreateAccount adds a new zero-balance account.
	CreateAccount(ctx context.Context, q DBExecutor, account *domain.Account) error
	// GetAccountByID retrieves an account by its ID.
	GetAccountByID(ctx context.Context, q DBExecutor, id int64) (*domain.Account, error)
	// GetAccountByUserID retrieves the primary account of a user.
	GetAccountByUserID(ctx context.Context, q DBExecutor, userID int64) (*domain.Account, error)
	// LockAccounts takes row locks on the given accounts in ascending ID order.
	// It must be called inside a transaction.
	LockAccounts(ctx context.Context, q DBExecutor, ids ...int64) error
	// ApplyDelta adds deltaCents to the balance and returns the updated account.
	// It fails with util.ErrInsufficientFunds, leaving the balance untouched, if the
	// result would be negative.
	ApplyDelta(ctx context.Context, q DBExecutor, accountID int64, deltaCents int64) (*domain.Account, error)
	// SumBalances returns the total of all account balances in minor units.
	SumBalances(ctx context.Context, q DBExecutor) (int64, error)
}
