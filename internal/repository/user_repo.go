// internal/repository/user_repo.go
package repository

import (
	"context"

	"micro-ledger/internal/domain"
)

// UserRepository stores ledger participants. Users are never updated or removed.
type UserRepository interface {
	// CreateUser inserts user and sets its ID. A taken email yields util.ErrDuplicateEntry.
	CreateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// GetUserByID fails with util.ErrUserNotFound when no row matches.
	GetUserByID(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	CountUsers(ctx context.Context, q DBExecutor) (int64, error)
}
