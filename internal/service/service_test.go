// internal/service/service_test.go
package service

import (
	"context"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"micro-ledger/internal/domain"
	"micro-ledger/internal/events"
	"micro-ledger/internal/lock"
	"micro-ledger/internal/repository"
	"micro-ledger/internal/repository/sqlstore"
	"micro-ledger/internal/testutil"
	"micro-ledger/pkg/db"
)

// MockTransactionRepository is a mock implementation of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Append(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	args := m.Called(ctx, q, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListForAccount(ctx context.Context, q repository.DBExecutor, accountID int64, limit, offset int) ([]domain.Transaction, error) {
	args := m.Called(ctx, q, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListRecent(ctx context.Context, q repository.DBExecutor, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, q, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CountByType(ctx context.Context, q repository.DBExecutor, txType domain.TransactionType, status domain.TransactionStatus) (int64, error) {
	args := m.Called(ctx, q, txType, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockLocker is a mock implementation of lock.Locker.
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Lock(ctx context.Context, accountIDs ...int64) (lock.ReleaseFunc, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(lock.ReleaseFunc), args.Error(1)
}

// capturePublisher records every event it is handed.
type capturePublisher struct {
	mu     sync.Mutex
	events []events.TransactionRecorded
	err    error
}

func (p *capturePublisher) PublishTransactionRecorded(_ context.Context, event events.TransactionRecorded) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) recorded() []events.TransactionRecorded {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.TransactionRecorded(nil), p.events...)
}

// fixture wires the services over a migrated SQLite database.
type fixture struct {
	db           *sqlx.DB
	accounts     repository.AccountRepository
	transactions repository.TransactionRepository
	publisher    *capturePublisher
	ledger       LedgerService
	queries      QueryService
	users        UserService
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	transactions repository.TransactionRepository
	locker       lock.Locker
}

func withTransactionRepository(repo repository.TransactionRepository) fixtureOption {
	return func(c *fixtureConfig) { c.transactions = repo }
}

func withLocker(l lock.Locker) fixtureOption {
	return func(c *fixtureConfig) { c.locker = l }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	database := testutil.NewSQLiteDB(t)
	cfg := fixtureConfig{
		transactions: sqlstore.NewTransactionRepository(),
		locker:       lock.NewMemoryLocker(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	settings := DefaultLedgerSettings()
	logger := zap.NewNop()
	uow := db.NewTransactionManager(database, nil)
	userRepo := sqlstore.NewUserRepository()
	accountRepo := sqlstore.NewAccountRepository(db.DialectSQLite)
	publisher := &capturePublisher{}

	return &fixture{
		db:           database,
		accounts:     accountRepo,
		transactions: sqlstore.NewTransactionRepository(),
		publisher:    publisher,
		ledger:       NewLedgerService(database, uow, accountRepo, cfg.transactions, cfg.locker, publisher, settings, logger),
		queries:      NewQueryService(database, userRepo, accountRepo, sqlstore.NewTransactionRepository(), settings),
		users:        NewUserService(database, uow, userRepo, accountRepo, settings, logger),
	}
}

// newUser registers a user and funds the account directly, without a ledger entry.
func (f *fixture) newUser(t *testing.T, name string, balance string) (*domain.User, *domain.Account) {
	t.Helper()
	ctx := context.Background()

	user, account, err := f.users.CreateUser(ctx, name, nil)
	require.NoError(t, err)

	if balance != "" {
		cents, err := domain.ToMinorUnits(decimal.RequireFromString(balance), domain.DefaultScale)
		require.NoError(t, err)
		account, err = f.accounts.ApplyDelta(ctx, f.db, account.ID, cents)
		require.NoError(t, err)
	}
	return user, account
}

func (f *fixture) balance(t *testing.T, accountID int64) int64 {
	t.Helper()
	account, err := f.accounts.GetAccountByID(context.Background(), f.db, accountID)
	require.NoError(t, err)
	return account.BalanceCents
}

func (f *fixture) history(t *testing.T, accountID int64) []domain.Transaction {
	t.Helper()
	list, err := f.transactions.ListForAccount(context.Background(), f.db, accountID, 0, 0)
	require.NoError(t, err)
	return list
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
