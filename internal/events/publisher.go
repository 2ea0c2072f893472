// internal/events/publisher.go
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"micro-ledger/internal/domain"
)

// TransactionRecorded is emitted once a transaction has been committed, whatever its status.
type TransactionRecorded struct {
	EventID       string    `json:"event_id"`
	TransactionID int64     `json:"transaction_id"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	FromAccountID *int64    `json:"from_account_id,omitempty"`
	ToAccountID   *int64    `json:"to_account_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewTransactionRecorded builds the event for a committed transaction.
func NewTransactionRecorded(tx *domain.Transaction, currency string, scale int32) TransactionRecorded {
	return TransactionRecorded{
		EventID:       uuid.NewString(),
		TransactionID: tx.ID,
		Type:          string(tx.Type),
		Status:        string(tx.Status),
		Amount:        domain.FormatMinorUnits(tx.AmountCents, scale),
		Currency:      currency,
		FromAccountID: tx.FromAccountID,
		ToAccountID:   tx.ToAccountID,
		OccurredAt:    tx.CreatedAt,
	}
}

// Publisher delivers ledger events. Delivery is best effort; the ledger row is the record.
type Publisher interface {
	PublishTransactionRecorded(ctx context.Context, event TransactionRecorded) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishTransactionRecorded(context.Context, TransactionRecorded) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
