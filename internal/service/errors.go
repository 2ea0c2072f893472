// internal/service/errors.go
package service

import (
	"context"
	"errors"
	"fmt"

	"micro-ledger/internal/util"
	"micro-ledger/pkg/db"
)

// classified lists the errors callers can already tell apart. They pass through unchanged.
var classified = []error{
	util.ErrNotFound,
	util.ErrUserNotFound,
	util.ErrAccountNotFound,
	util.ErrInvalidInput,
	util.ErrInvalidAmount,
	util.ErrInsufficientFunds,
	util.ErrSameAccountTransfer,
	util.ErrDuplicateEntry,
	util.ErrConcurrencyConflict,
	util.ErrPersistenceFailure,
	context.Canceled,
	context.DeadlineExceeded,
}

// classifyStorageError maps a raw storage error to ErrConcurrencyConflict or
// ErrPersistenceFailure, keeping the original in the chain.
func classifyStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, target := range classified {
		if errors.Is(err, target) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	if db.IsConflict(err) {
		return fmt.Errorf("%s: %w: %w", op, util.ErrConcurrencyConflict, err)
	}
	return fmt.Errorf("%s: %w: %w", op, util.ErrPersistenceFailure, err)
}
