// internal/domain/transaction.go
package domain

import (
	"errors"
	"fmt"
	"time"
)

// TransactionType defines the type of a ledger transaction.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

// TransactionStatus defines the status of a ledger transaction.
//
// PENDING only exists inside a unit of work. SUCCESS and FAILED are terminal.
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

// IsTerminal reports whether s is SUCCESS or FAILED.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusSuccess || s == TransactionStatusFailed
}

var (
	ErrTransactionFinalized = errors.New("transaction already has a terminal status")
	ErrMalformedTransaction = errors.New("malformed transaction")
)

// Transaction is the immutable audit record of one money-movement attempt.
type Transaction struct {
	ID            int64             `db:"id" json:"id"`
	Type          TransactionType   `db:"type" json:"type"`
	Status        TransactionStatus `db:"status" json:"status"`
	AmountCents   int64             `db:"amount_cents" json:"amount_cents"`
	FromAccountID *int64            `db:"from_account_id" json:"from_account_id"` // nil for deposits
	ToAccountID   *int64            `db:"to_account_id" json:"to_account_id"`     // nil for withdrawals
	Description   *string           `db:"description" json:"description"`
	CreatedAt     time.Time         `db:"created_at" json:"created_at"`

	// Resolved by listing queries through the owning accounts; not stored on the row.
	FromUserID *int64 `db:"from_user_id" json:"from_user_id,omitempty"`
	ToUserID   *int64 `db:"to_user_id" json:"to_user_id,omitempty"`
}

// NewTransaction creates a PENDING transaction.
func NewTransaction(
	txType TransactionType,
	amountCents int64,
	fromAccountID *int64,
	toAccountID *int64,
	description *string,
) *Transaction {
	return &Transaction{
		Type:          txType,
		Status:        TransactionStatusPending,
		AmountCents:   amountCents,
		FromAccountID: fromAccountID,
		ToAccountID:   toAccountID,
		Description:   description,
		CreatedAt:     Now(),
	}
}

// MarkSucceeded moves a pending transaction to SUCCESS.
func (t *Transaction) MarkSucceeded() error {
	return t.finalize(TransactionStatusSuccess)
}

// MarkFailed moves a pending transaction to FAILED.
func (t *Transaction) MarkFailed() error {
	return t.finalize(TransactionStatusFailed)
}

func (t *Transaction) finalize(status TransactionStatus) error {
	if t.Status.IsTerminal() {
		return fmt.Errorf("%w: %d is %s", ErrTransactionFinalized, t.ID, t.Status)
	}
	t.Status = status
	return nil
}

// Validate checks the shape invariants a transaction must satisfy before it is stored.
func (t *Transaction) Validate() error {
	if t.AmountCents <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %d", ErrMalformedTransaction, t.AmountCents)
	}
	if !t.Status.IsTerminal() {
		return fmt.Errorf("%w: status %q is not terminal", ErrMalformedTransaction, t.Status)
	}

	hasFrom, hasTo := t.FromAccountID != nil, t.ToAccountID != nil
	switch t.Type {
	case TransactionTypeDeposit:
		if hasFrom || !hasTo {
			return fmt.Errorf("%w: deposit requires a destination only", ErrMalformedTransaction)
		}
	case TransactionTypeWithdraw:
		if !hasFrom || hasTo {
			return fmt.Errorf("%w: withdrawal requires a source only", ErrMalformedTransaction)
		}
	case TransactionTypeTransfer:
		if !hasFrom || !hasTo {
			return fmt.Errorf("%w: transfer requires source and destination", ErrMalformedTransaction)
		}
		if *t.FromAccountID == *t.ToAccountID {
			return fmt.Errorf("%w: transfer source and destination are the same account", ErrMalformedTransaction)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrMalformedTransaction, t.Type)
	}
	return nil
}
