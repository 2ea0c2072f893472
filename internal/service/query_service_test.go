// internal/service/query_service_test.go
package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"micro-ledger/internal/domain"
	"micro-ledger/internal/repository/sqlstore"
	"micro-ledger/internal/util"
	"micro-ledger/pkg/db"
)

func TestQueryService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, aliceAccount := f.newUser(t, "Alice", "")
	bob, _ := f.newUser(t, "Bob", "")

	_, err := f.ledger.Deposit(ctx, alice.ID, amount("100.00"), "")
	require.NoError(t, err)
	_, err = f.ledger.Transfer(ctx, alice.ID, bob.ID, amount("25.50"), "")
	require.NoError(t, err)
	_, err = f.ledger.Withdraw(ctx, bob.ID, amount("5.50"), "")
	require.NoError(t, err)
	_, err = f.ledger.Withdraw(ctx, bob.ID, amount("1000.00"), "")
	require.ErrorIs(t, err, util.ErrInsufficientFunds)

	t.Run("GetBalance", func(t *testing.T) {
		balance, err := f.queries.GetBalance(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, aliceAccount.ID, balance.AccountID)
		assert.Equal(t, int64(7450), balance.BalanceCents)
		assert.Equal(t, "KES", balance.Currency)

		_, err = f.queries.GetBalance(ctx, 9999)
		assert.ErrorIs(t, err, util.ErrUserNotFound)
	})

	t.Run("ListTransactions", func(t *testing.T) {
		list, err := f.queries.ListTransactions(ctx, bob.ID, 0, 0)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, domain.TransactionStatusFailed, list[0].Status)
		assert.Equal(t, domain.TransactionTypeTransfer, list[2].Type)
		assert.Equal(t, alice.ID, *list[2].FromUserID)
		assert.Equal(t, bob.ID, *list[2].ToUserID)

		page, err := f.queries.ListTransactions(ctx, bob.ID, 1, 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, list[1].ID, page[0].ID)
	})

	t.Run("ReadsDoNotMutate", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			_, err := f.queries.GetBalance(ctx, alice.ID)
			require.NoError(t, err)
			_, err = f.queries.ListTransactions(ctx, alice.ID, 0, 0)
			require.NoError(t, err)
		}
		assert.Equal(t, int64(7450), f.balance(t, aliceAccount.ID))
		assert.Len(t, f.history(t, aliceAccount.ID), 2)
	})

	t.Run("RecentActivity", func(t *testing.T) {
		list, err := f.queries.RecentActivity(ctx, 2)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, domain.TransactionStatusFailed, list[0].Status)

		all, err := f.queries.RecentActivity(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})

	t.Run("Summary", func(t *testing.T) {
		summary, err := f.queries.Summary(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), summary.TotalUsers)
		assert.Equal(t, int64(9450), summary.TotalValueCents)
		assert.Equal(t, int64(1), summary.TotalTransfers)
		assert.Equal(t, int64(1), summary.TotalWithdrawals)
		assert.Equal(t, "KES", summary.Currency)
	})
}

func TestQueryService_RecentActivityLimits(t *testing.T) {
	ctx := context.Background()
	database := newFixture(t).db

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "Default", limit: 0, want: DefaultActivityLimit},
		{name: "Negative", limit: -3, want: DefaultActivityLimit},
		{name: "Within", limit: 25, want: 25},
		{name: "Capped", limit: 1000, want: MaxActivityLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockTransactionRepository)
			repo.On("ListRecent", mock.Anything, mock.Anything, tt.want).Return([]domain.Transaction{}, nil).Once()
			queries := NewQueryService(database, sqlstore.NewUserRepository(), sqlstore.NewAccountRepository(db.DialectSQLite), repo, DefaultLedgerSettings())

			_, err := queries.RecentActivity(ctx, tt.limit)
			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}

	t.Run("StorageError", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		repo.On("ListRecent", mock.Anything, mock.Anything, DefaultActivityLimit).Return(nil, errors.New("connection reset")).Once()
		queries := NewQueryService(database, sqlstore.NewUserRepository(), sqlstore.NewAccountRepository(db.DialectSQLite), repo, DefaultLedgerSettings())

		_, err := queries.RecentActivity(ctx, 0)
		assert.ErrorIs(t, err, util.ErrPersistenceFailure)
	})
}
