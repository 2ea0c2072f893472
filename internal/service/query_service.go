// internal/service/query_service.go
package service

import (
	"context"

	"micro-ledger/internal/domain"
	"micro-ledger/internal/repository"
)

// DefaultActivityLimit and MaxActivityLimit bound RecentActivity.
const (
	DefaultActivityLimit = 10
	MaxActivityLimit     = 100
)

// Balance is a user's current position.
type Balance struct {
	UserID       int64
	AccountID    int64
	BalanceCents int64
	Currency     string
}

// Summary is the ledger-wide aggregate shown to administrators.
type Summary struct {
	TotalUsers       int64
	TotalValueCents  int64
	TotalTransfers   int64
	TotalWithdrawals int64
	Currency         string
}

// QueryService serves read-only projections. None of its methods write.
type QueryService interface {
	GetBalance(ctx context.Context, userID int64) (*Balance, error)
	ListTransactions(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, error)
	RecentActivity(ctx context.Context, limit int) ([]domain.Transaction, error)
	Summary(ctx context.Context) (*Summary, error)
}

type queryService struct {
	dbExecutor      repository.DBExecutor
	userRepo        repository.UserRepository
	accountRepo     repository.AccountRepository
	transactionRepo repository.TransactionRepository
	settings        LedgerSettings
}

// NewQueryService creates a new instance of QueryService.
func NewQueryService(
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	accountRepo repository.AccountRepository,
	transactionRepo repository.TransactionRepository,
	settings LedgerSettings,
) QueryService {
	return &queryService{
		dbExecutor:      dbExecutor,
		userRepo:        userRepo,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		settings:        settings,
	}
}

// GetBalance returns the balance of the user's primary account.
func (s *queryService) GetBalance(ctx context.Context, userID int64) (*Balance, error) {
	account, err := accountForUser(ctx, s.accountRepo, s.dbExecutor, userID)
	if err != nil {
		return nil, classifyStorageError("get balance", err)
	}
	return &Balance{
		UserID:       userID,
		AccountID:    account.ID,
		BalanceCents: account.BalanceCents,
		Currency:     account.Currency,
	}, nil
}

// ListTransactions returns the user's transactions newest first. A limit <= 0 returns all.
func (s *queryService) ListTransactions(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, error) {
	account, err := accountForUser(ctx, s.accountRepo, s.dbExecutor, userID)
	if err != nil {
		return nil, classifyStorageError("list transactions", err)
	}

	transactions, err := s.transactionRepo.ListForAccount(ctx, s.dbExecutor, account.ID, limit, offset)
	if err != nil {
		return nil, classifyStorageError("list transactions", err)
	}
	return transactions, nil
}

// RecentActivity returns the latest transactions across all users. The limit is clamped
// to [1, MaxActivityLimit]; zero or less means DefaultActivityLimit.
func (s *queryService) RecentActivity(ctx context.Context, limit int) ([]domain.Transaction, error) {
	switch {
	case limit <= 0:
		limit = DefaultActivityLimit
	case limit > MaxActivityLimit:
		limit = MaxActivityLimit
	}

	transactions, err := s.transactionRepo.ListRecent(ctx, s.dbExecutor, limit)
	if err != nil {
		return nil, classifyStorageError("recent activity", err)
	}
	return transactions, nil
}

// Summary counts users, total value held, and successful transfers and withdrawals.
func (s *queryService) Summary(ctx context.Context) (*Summary, error) {
	users, err := s.userRepo.CountUsers(ctx, s.dbExecutor)
	if err != nil {
		return nil, classifyStorageError("summary", err)
	}
	total, err := s.accountRepo.SumBalances(ctx, s.dbExecutor)
	if err != nil {
		return nil, classifyStorageError("summary", err)
	}
	transfers, err := s.transactionRepo.CountByType(ctx, s.dbExecutor, domain.TransactionTypeTransfer, domain.TransactionStatusSuccess)
	if err != nil {
		return nil, classifyStorageError("summary", err)
	}
	withdrawals, err := s.transactionRepo.CountByType(ctx, s.dbExecutor, domain.TransactionTypeWithdraw, domain.TransactionStatusSuccess)
	if err != nil {
		return nil, classifyStorageError("summary", err)
	}

	return &Summary{
		TotalUsers:       users,
		TotalValueCents:  total,
		TotalTransfers:   transfers,
		TotalWithdrawals: withdrawals,
		Currency:         s.settings.Currency,
	}, nil
}
