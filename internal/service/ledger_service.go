// internal/service/ledger_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"micro-ledger/internal/domain"
	"micro-ledger/internal/events"
	"micro-ledger/internal/lock"
	"micro-ledger/internal/repository"
	"micro-ledger/internal/util"
	"micro-ledger/pkg/db"
)

const publishTimeout = 5 * time.Second

// UnitOfWork runs fn inside one database transaction. *db.TransactionManager implements it.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn db.TxFunc) error
}

// LedgerService moves money between primary accounts.
//
// Every operation is atomic. A rejection for insufficient funds is still recorded as a
// FAILED transaction and returned together with util.ErrInsufficientFunds.
type LedgerService interface {
	Deposit(ctx context.Context, userID int64, amount decimal.Decimal, description string) (*domain.Transaction, error)
	Withdraw(ctx context.Context, userID int64, amount decimal.Decimal, description string) (*domain.Transaction, error)
	Transfer(ctx context.Context, fromUserID, toUserID int64, amount decimal.Decimal, description string) (*domain.Transaction, error)
}

// ledgerService implements the LedgerService interface.
type ledgerService struct {
	dbExecutor      repository.DBExecutor // account resolution before locking
	uow             UnitOfWork
	accountRepo     repository.AccountRepository
	transactionRepo repository.TransactionRepository
	locker          lock.Locker
	publisher       events.Publisher
	settings        LedgerSettings
	logger          *zap.Logger
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(
	dbExecutor repository.DBExecutor,
	uow UnitOfWork,
	accountRepo repository.AccountRepository,
	transactionRepo repository.TransactionRepository,
	locker lock.Locker,
	publisher events.Publisher,
	settings LedgerSettings,
	logger *zap.Logger,
) LedgerService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ledgerService{
		dbExecutor:      dbExecutor,
		uow:             uow,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		locker:          locker,
		publisher:       publisher,
		settings:        settings,
		logger:          logger,
	}
}

// mutation changes balances inside the unit of work. Returning util.ErrInsufficientFunds
// records the transaction as FAILED; any other error aborts the unit of work.
type mutation func(ctx context.Context, q repository.DBExecutor) error

// Deposit credits the user's account.
func (s *ledgerService) Deposit(ctx context.Context, userID int64, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	desc, err := s.settings.normalizeDescription(description)
	if err != nil {
		return nil, fmt.Errorf("deposit: %w", err)
	}

	account, err := accountForUser(ctx, s.accountRepo, s.dbExecutor, userID)
	if err != nil {
		return nil, classifyStorageError("deposit", err)
	}

	cents, err := domain.ToMinorUnits(amount, s.settings.Scale)
	if err != nil {
		return nil, fmt.Errorf("deposit: %w", err)
	}

	transaction := domain.NewTransaction(domain.TransactionTypeDeposit, cents, nil, &account.ID, desc)
	return s.execute(ctx, "deposit", transaction, []int64{account.ID}, func(ctx context.Context, q repository.DBExecutor) error {
		_, err := s.accountRepo.ApplyDelta(ctx, q, account.ID, cents)
		return err
	})
}

// Withdraw debits the user's account.
func (s *ledgerService) Withdraw(ctx context.Context, userID int64, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	desc, err := s.settings.normalizeDescription(description)
	if err != nil {
		return nil, fmt.Errorf("withdraw: %w", err)
	}

	account, err := accountForUser(ctx, s.accountRepo, s.dbExecutor, userID)
	if err != nil {
		return nil, classifyStorageError("withdraw", err)
	}

	cents, err := domain.ToMinorUnits(amount, s.settings.Scale)
	if err != nil {
		return nil, fmt.Errorf("withdraw: %w", err)
	}

	transaction := domain.NewTransaction(domain.TransactionTypeWithdraw, cents, &account.ID, nil, desc)
	return s.execute(ctx, "withdraw", transaction, []int64{account.ID}, func(ctx context.Context, q repository.DBExecutor) error {
		_, err := s.accountRepo.ApplyDelta(ctx, q, account.ID, -cents)
		return err
	})
}

// Transfer moves money from one user's account to another's.
func (s *ledgerService) Transfer(ctx context.Context, fromUserID, toUserID int64, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	if fromUserID == toUserID {
		return nil, fmt.Errorf("transfer: %w", util.ErrSameAccountTransfer)
	}

	desc, err := s.settings.normalizeDescription(description)
	if err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}

	source, err := accountForUser(ctx, s.accountRepo, s.dbExecutor, fromUserID)
	if err != nil {
		return nil, classifyStorageError("transfer", err)
	}
	destination, err := accountForUser(ctx, s.accountRepo, s.dbExecutor, toUserID)
	if err != nil {
		return nil, classifyStorageError("transfer", err)
	}
	if source.ID == destination.ID {
		return nil, fmt.Errorf("transfer: %w", util.ErrSameAccountTransfer)
	}

	cents, err := domain.ToMinorUnits(amount, s.settings.Scale)
	if err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}

	transaction := domain.NewTransaction(domain.TransactionTypeTransfer, cents, &source.ID, &destination.ID, desc)
	return s.execute(ctx, "transfer", transaction, []int64{source.ID, destination.ID}, func(ctx context.Context, q repository.DBExecutor) error {
		// The debit is conditional, so a short source leaves both balances untouched.
		if _, err := s.accountRepo.ApplyDelta(ctx, q, source.ID, -cents); err != nil {
			return err
		}
		_, err := s.accountRepo.ApplyDelta(ctx, q, destination.ID, cents)
		return err
	})
}

// accountForUser resolves the primary account of userID. A user without an account does
// not exist as far as callers are concerned.
func accountForUser(ctx context.Context, accounts repository.AccountRepository, q repository.DBExecutor, userID int64) (*domain.Account, error) {
	account, err := accounts.GetAccountByUserID(ctx, q, userID)
	if err != nil {
		if errors.Is(err, util.ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: %d", util.ErrUserNotFound, userID)
		}
		return nil, err
	}
	return account, nil
}

// execute locks the accounts, then runs mutate and appends the finalized transaction in
// one unit of work. Locks are taken before the database transaction begins and released
// after it ends.
func (s *ledgerService) execute(ctx context.Context, op string, transaction *domain.Transaction, accountIDs []int64, mutate mutation) (*domain.Transaction, error) {
	release, err := s.locker.Lock(ctx, accountIDs...)
	if err != nil {
		return nil, classifyStorageError(op, err)
	}
	defer release()

	var rejection error
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.accountRepo.LockAccounts(ctx, tx, accountIDs...); err != nil {
			return err
		}

		if err := mutate(ctx, tx); err != nil {
			if !errors.Is(err, util.ErrInsufficientFunds) {
				return err
			}
			rejection = err
			if err := transaction.MarkFailed(); err != nil {
				return err
			}
		} else if err := transaction.MarkSucceeded(); err != nil {
			return err
		}

		return s.transactionRepo.Append(ctx, tx, transaction)
	})
	if err != nil {
		s.logger.Error("Ledger operation aborted",
			zap.String("operation", op),
			zap.Int64s("account_ids", accountIDs),
			zap.Error(err),
		)
		return nil, classifyStorageError(op, err)
	}

	s.logger.Info("Ledger transaction recorded",
		zap.String("operation", op),
		zap.Int64("transaction_id", transaction.ID),
		zap.String("status", string(transaction.Status)),
		zap.Int64("amount_cents", transaction.AmountCents),
	)
	s.publish(ctx, transaction)

	if rejection != nil {
		return transaction, fmt.Errorf("%s: %w", op, rejection)
	}
	return transaction, nil
}

// publish emits TransactionRecorded. The transaction is already committed, so failures
// are only logged.
func (s *ledgerService) publish(ctx context.Context, transaction *domain.Transaction) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := events.NewTransactionRecorded(transaction, s.settings.Currency, s.settings.Scale)
	if err := s.publisher.PublishTransactionRecorded(ctx, event); err != nil {
		s.logger.Warn("Failed to publish transaction event",
			zap.Int64("transaction_id", transaction.ID),
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
	}
}
