// internal/repository/sqlstore/account_sql.go
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"micro-ledger/internal/domain"
	"micro-ledger/internal/repository"
	"micro-ledger/internal/util"
	"micro-ledger/pkg/db"
)

const accountColumns = `id, user_id, currency, balance_cents, created_at, updated_at`

// AccountRepository implements repository.AccountRepository for PostgreSQL and SQLite.
type AccountRepository struct {
	dialect db.Dialect
}

// NewAccountRepository creates a new AccountRepository for the given dialect.
func NewAccountRepository(dialect db.Dialect) repository.AccountRepository {
	return &AccountRepository{dialect: dialect}
}

// CreateAccount inserts a new account into the database using the provided DBExecutor.
func (r *AccountRepository) CreateAccount(ctx context.Context, q repository.DBExecutor, account *domain.Account) error {
	query := `INSERT INTO accounts (user_id, currency, balance_cents, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := q.QueryRowContext(ctx, query, account.UserID, account.Currency, account.BalanceCents, account.CreatedAt, account.UpdatedAt).Scan(&account.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("%w: user %d already has an account", util.ErrDuplicateEntry, account.UserID)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetAccountByID retrieves an account by its ID using the provided DBExecutor.
func (r *AccountRepository) GetAccountByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	err := q.GetContext(ctx, &account, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", util.ErrAccountNotFound, id)
		}
		return nil, fmt.Errorf("failed to get account by ID %d: %w", id, err)
	}
	return &account, nil
}

// GetAccountByUserID retrieves the account owned by userID.
func (r *AccountRepository) GetAccountByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1`
	err := q.GetContext(ctx, &account, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no account for user %d", util.ErrAccountNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get account for user %d: %w", userID, err)
	}
	return &account, nil
}

// LockAccounts takes a row lock on each account, one statement per row in ascending ID
// order. On SQLite the surrounding transaction is already the only writer and this only
// checks that the accounts exist.
func (r *AccountRepository) LockAccounts(ctx context.Context, q repository.DBExecutor, ids ...int64) error {
	query := `SELECT id FROM accounts WHERE id = $1` + r.dialect.ForUpdate()
	for _, id := range domain.LockOrder(ids...) {
		var locked int64
		if err := q.GetContext(ctx, &locked, query, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %d", util.ErrAccountNotFound, id)
			}
			return fmt.Errorf("failed to lock account %d: %w", id, err)
		}
	}
	return nil
}

// ApplyDelta adds deltaCents to the balance with a single conditional UPDATE. A debit that
// would overdraw the account, or a credit that would overflow it, changes nothing.
func (r *AccountRepository) ApplyDelta(ctx context.Context, q repository.DBExecutor, accountID int64, deltaCents int64) (*domain.Account, error) {
	guard := `balance_cents + $1 >= 0`
	if deltaCents > 0 {
		guard = fmt.Sprintf(`balance_cents <= %d - $1`, int64(math.MaxInt64))
	}

	var account domain.Account
	query := `UPDATE accounts SET balance_cents = balance_cents + $1, updated_at = $2
              WHERE id = $3 AND ` + guard + `
              RETURNING ` + accountColumns
	err := q.GetContext(ctx, &account, query, deltaCents, domain.Now(), accountID)
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to update balance for account %d: %w", accountID, err)
	}

	// Zero rows: the account is missing or the guard rejected the delta.
	if _, err := r.GetAccountByID(ctx, q, accountID); err != nil {
		return nil, err
	}
	if deltaCents > 0 {
		return nil, fmt.Errorf("%w: account %d balance limit exceeded", util.ErrInvalidAmount, accountID)
	}
	return nil, fmt.Errorf("%w: account %d cannot cover %d", util.ErrInsufficientFunds, accountID, -deltaCents)
}

// SumBalances returns the total held across all accounts.
func (r *AccountRepository) SumBalances(ctx context.Context, q repository.DBExecutor) (int64, error) {
	var total int64
	query := `SELECT CAST(COALESCE(SUM(balance_cents), 0) AS BIGINT) FROM accounts`
	if err := q.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("failed to sum account balances: %w", err)
	}
	return total, nil
}
