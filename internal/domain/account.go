// internal/domain/account.go
package domain

import "time"

// Account is a user's primary account. BalanceCents is the only mutable field and is
// only ever changed through AccountRepository.ApplyDelta.
type Account struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	Currency     string    `db:"currency" json:"currency"`
	BalanceCents int64     `db:"balance_cents" json:"balance_cents"` // minor units, never negative
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// NewAccount creates a zero-balance account for userID.
func NewAccount(userID int64, currency string) *Account {
	now := Now()
	return &Account{
		UserID:       userID,
		Currency:     currency,
		BalanceCents: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
