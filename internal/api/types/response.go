// internal/api/types/response.go
package types

import (
	"time"

	"micro-ledger/internal/domain"
	"micro-ledger/internal/service"
)

// ListResponse wraps a list of items with the paging that produced it.
// Limit and Offset are omitted when the whole list was returned.
type ListResponse[T any] struct {
	Transactions []T `json:"transactions"`
	Limit        int `json:"limit,omitempty"`
	Offset       int `json:"offset,omitempty"`
}

// TransactionView is the public shape of a transaction. Amount is a decimal string.
type TransactionView struct {
	ID            int64     `json:"id"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	Amount        string    `json:"amount"`
	FromUserID    *int64    `json:"from_user_id"`
	ToUserID      *int64    `json:"to_user_id"`
	FromAccountID *int64    `json:"from_account_id"`
	ToAccountID   *int64    `json:"to_account_id"`
	Description   *string   `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewTransactionView renders tx at the given scale.
func NewTransactionView(tx *domain.Transaction, scale int32) TransactionView {
	return TransactionView{
		ID:            tx.ID,
		Type:          string(tx.Type),
		Status:        string(tx.Status),
		Amount:        domain.FormatMinorUnits(tx.AmountCents, scale),
		FromUserID:    tx.FromUserID,
		ToUserID:      tx.ToUserID,
		FromAccountID: tx.FromAccountID,
		ToAccountID:   tx.ToAccountID,
		Description:   tx.Description,
		CreatedAt:     tx.CreatedAt,
	}
}

// NewTransactionViews renders a list of transactions.
func NewTransactionViews(txs []domain.Transaction, scale int32) []TransactionView {
	views := make([]TransactionView, 0, len(txs))
	for i := range txs {
		views = append(views, NewTransactionView(&txs[i], scale))
	}
	return views
}

// MovementResponse is returned by deposit, withdraw and transfer.
type MovementResponse struct {
	Status        string          `json:"status"`
	TransactionID int64           `json:"transaction_id"`
	Transaction   TransactionView `json:"transaction"`
}

// ErrorResponse carries an error message. TransactionID is set when a failed attempt was recorded.
type ErrorResponse struct {
	Error         string `json:"error"`
	TransactionID *int64 `json:"transaction_id,omitempty"`
}

// BalanceResponse is a user's balance.
type BalanceResponse struct {
	UserID   int64  `json:"user_id"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

// NewBalanceResponse renders b at the given scale.
func NewBalanceResponse(b *service.Balance, scale int32) BalanceResponse {
	return BalanceResponse{
		UserID:   b.UserID,
		Balance:  domain.FormatMinorUnits(b.BalanceCents, scale),
		Currency: b.Currency,
	}
}

// SummaryResponse is the admin summary.
type SummaryResponse struct {
	TotalUsers       int64  `json:"total_users"`
	TotalValue       string `json:"total_value"`
	TotalTransfers   int64  `json:"total_transfers"`
	TotalWithdrawals int64  `json:"total_withdrawals"`
	Currency         string `json:"currency"`
}

// NewSummaryResponse renders s at the given scale.
func NewSummaryResponse(s *service.Summary, scale int32) SummaryResponse {
	return SummaryResponse{
		TotalUsers:       s.TotalUsers,
		TotalValue:       domain.FormatMinorUnits(s.TotalValueCents, scale),
		TotalTransfers:   s.TotalTransfers,
		TotalWithdrawals: s.TotalWithdrawals,
		Currency:         s.Currency,
	}
}

// UserResponse is a registered user with its primary account.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	AccountID int64     `json:"account_id"`
	Currency  string    `json:"currency"`
}

// NewUserResponse combines a user and its account.
func NewUserResponse(u *domain.User, a *domain.Account) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		AccountID: a.ID,
		Currency:  a.Currency,
	}
}
