// internal/api/handler/ledger.go
package handler

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"micro-ledger/internal/api/types"
	"micro-ledger/internal/domain"
	"micro-ledger/internal/service"
	"micro-ledger/internal/util"
)

// LedgerHandler handles HTTP requests that move money.
type LedgerHandler struct {
	responder
	service service.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(svc service.LedgerService, scale int32, logger *zap.Logger) *LedgerHandler {
	return &LedgerHandler{
		responder: responder{logger: logger, scale: scale},
		service:   svc,
	}
}

// DepositRequest represents the request body for deposit. Withdraw uses the same shape.
type DepositRequest struct {
	UserID      int64           `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// TransferRequest represents the request body for transfer.
type TransferRequest struct {
	FromUserID  int64           `json:"from_user_id"`
	ToUserID    int64           `json:"to_user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// Deposit handles the deposit money request.
// POST /deposit
func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req DepositRequest
	if err := decode(w, r, &req); err != nil {
		h.respondWithError(w, err, nil)
		return
	}
	if req.UserID <= 0 {
		h.respondWithError(w, fmt.Errorf("%w: user_id is required", util.ErrInvalidInput), nil)
		return
	}

	transaction, err := h.service.Deposit(r.Context(), req.UserID, req.Amount, req.Description)
	h.respondWithMovement(w, transaction, err)
}

// Withdraw handles the withdraw money request.
// POST /withdraw
func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req DepositRequest
	if err := decode(w, r, &req); err != nil {
		h.respondWithError(w, err, nil)
		return
	}
	if req.UserID <= 0 {
		h.respondWithError(w, fmt.Errorf("%w: user_id is required", util.ErrInvalidInput), nil)
		return
	}

	transaction, err := h.service.Withdraw(r.Context(), req.UserID, req.Amount, req.Description)
	h.respondWithMovement(w, transaction, err)
}

// Transfer handles the transfer money request.
// POST /transfer
func (h *LedgerHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := decode(w, r, &req); err != nil {
		h.respondWithError(w, err, nil)
		return
	}
	if req.FromUserID <= 0 || req.ToUserID <= 0 {
		h.respondWithError(w, fmt.Errorf("%w: from_user_id and to_user_id are required", util.ErrInvalidInput), nil)
		return
	}

	transaction, err := h.service.Transfer(r.Context(), req.FromUserID, req.ToUserID, req.Amount, req.Description)
	h.respondWithMovement(w, transaction, err)
}

func (h *LedgerHandler) respondWithMovement(w http.ResponseWriter, transaction *domain.Transaction, err error) {
	if err != nil {
		h.respondWithError(w, err, transaction)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.MovementResponse{
		Status:        "success",
		TransactionID: transaction.ID,
		Transaction:   types.NewTransactionView(transaction, h.scale),
	})
}
