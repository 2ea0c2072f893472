// internal/api/handler/query.go
package handler

import (
	"net/http"

	"go.uber.org/zap"

	"micro-ledger/internal/api/types"
	"micro-ledger/internal/service"
)

// QueryHandler serves balances, histories and admin projections.
type QueryHandler struct {
	responder
	service service.QueryService
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(svc service.QueryService, scale int32, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{
		responder: responder{logger: logger, scale: scale},
		service:   svc,
	}
}

// GetBalance handles the get balance request.
// GET /balance/{userID}
func (h *QueryHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		h.respondWithError(w, err, nil)
		return
	}

	balance, err := h.service.GetBalance(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err, nil)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewBalanceResponse(balance, h.scale))
}

// GetTransactions handles the transaction history request. Without a limit the whole
// history is returned.
// GET /transactions/{userID}?limit=&offset=
func (h *QueryHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		h.respondWithError(w, err, nil)
		return
	}
	limit, err := intQuery(r, "limit")
	if err != nil {
		h.respondWithError(w, err, nil)
		return
	}
	offset, err := intQuery(r, "offset")
	if err != nil {
		h.respondWithError(w, err, nil)
		return
	}

	transactions, err := h.service.ListTransactions(r.Context(), userID, limit, offset)
	if err != nil {
		h.respondWithError(w, err, nil)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.ListResponse[types.TransactionView]{
		Transactions: types.NewTransactionViews(transactions, h.scale),
		Limit:        limit,
		Offset:       offset,
	})
}

// GetActivity handles the recent activity request.
// GET /admin/activity?limit=
func (h *QueryHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		h.respondWithError(w, err, nil)
		return
	}

	transactions, err := h.service.RecentActivity(r.Context(), limit)
	if err != nil {
		h.respondWithError(w, err, nil)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.ListResponse[types.TransactionView]{
		Transactions: types.NewTransactionViews(transactions, h.scale),
	})
}

// GetSummary handles the admin summary request.
// GET /admin/summary
func (h *QueryHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.respondWithError(w, err, nil)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewSummaryResponse(summary, h.scale))
}
