// internal/service/user_service.go
package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"micro-ledger/internal/domain"
	"micro-ledger/internal/repository"
	"micro-ledger/internal/util"
)

// UserService registers users together with their primary account.
type UserService interface {
	CreateUser(ctx context.Context, name string, email *string) (*domain.User, *domain.Account, error)
	GetUser(ctx context.Context, userID int64) (*domain.User, *domain.Account, error)
}

type userService struct {
	dbExecutor  repository.DBExecutor
	uow         UnitOfWork
	userRepo    repository.UserRepository
	accountRepo repository.AccountRepository
	settings    LedgerSettings
	logger      *zap.Logger
}

// NewUserService creates a new instance of UserService.
func NewUserService(
	dbExecutor repository.DBExecutor,
	uow UnitOfWork,
	userRepo repository.UserRepository,
	accountRepo repository.AccountRepository,
	settings LedgerSettings,
	logger *zap.Logger,
) UserService {
	return &userService{
		dbExecutor:  dbExecutor,
		uow:         uow,
		userRepo:    userRepo,
		accountRepo: accountRepo,
		settings:    settings,
		logger:      logger,
	}
}

// CreateUser stores a user and a zero-balance account in the ledger currency.
// A blank email is treated as absent; a repeated one fails with util.ErrDuplicateEntry.
func (s *userService) CreateUser(ctx context.Context, name string, email *string) (*domain.User, *domain.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, fmt.Errorf("create user: %w: name is required", util.ErrInvalidInput)
	}

	var address *string
	if email != nil {
		if trimmed := strings.TrimSpace(*email); trimmed != "" {
			parsed, err := mail.ParseAddress(trimmed)
			if err != nil || parsed.Address != trimmed {
				return nil, nil, fmt.Errorf("create user: %w: invalid email %q", util.ErrInvalidInput, trimmed)
			}
			address = &parsed.Address
		}
	}

	user := domain.NewUser(name, address)
	var account *domain.Account
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.userRepo.CreateUser(ctx, tx, user); err != nil {
			return err
		}
		account = domain.NewAccount(user.ID, s.settings.Currency)
		return s.accountRepo.CreateAccount(ctx, tx, account)
	})
	if err != nil {
		return nil, nil, classifyStorageError("create user", err)
	}

	s.logger.Info("User registered", zap.Int64("user_id", user.ID), zap.Int64("account_id", account.ID))
	return user, account, nil
}

// GetUser returns a registered user and its primary account.
func (s *userService) GetUser(ctx context.Context, userID int64) (*domain.User, *domain.Account, error) {
	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, nil, classifyStorageError("get user", err)
	}
	account, err := accountForUser(ctx, s.accountRepo, s.dbExecutor, user.ID)
	if err != nil {
		return nil, nil, classifyStorageError("get user", err)
	}
	return user, account, nil
}
