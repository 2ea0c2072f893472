// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"micro-ledger/internal/api/types"
	"micro-ledger/internal/domain"
	"micro-ledger/internal/util"
)

// DefaultTimeout bounds the handling of a single request.
const DefaultTimeout = 15 * time.Second

const maxBodyBytes = 1 << 20

// retryAfterSeconds is advertised on responses the client may resubmit unchanged.
const retryAfterSeconds = "1"

// responder holds the JSON helpers shared by every handler.
type responder struct {
	logger *zap.Logger
	scale  int32
}

// Helper function to send JSON responses.
func (h *responder) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps err to a status code. failed, when not nil, is the recorded
// FAILED transaction of a rejected money movement.
func (h *responder) respondWithError(w http.ResponseWriter, err error, failed *domain.Transaction) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput), util.IsError(err, util.ErrInvalidAmount):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrSameAccountTransfer):
		statusCode = http.StatusBadRequest
		message = "Cannot transfer to the same account"
	case util.IsNotFound(err):
		statusCode = http.StatusNotFound
		message = "Resource not found"
		if util.IsError(err, util.ErrUserNotFound) {
			message = "User not found"
		}
	case util.IsError(err, util.ErrInsufficientFunds):
		statusCode = http.StatusPaymentRequired
		message = "Insufficient funds"
	case util.IsError(err, util.ErrDuplicateEntry):
		statusCode = http.StatusConflict
		message = err.Error()
	case util.IsError(err, util.ErrConcurrencyConflict):
		statusCode = http.StatusConflict
		message = "Account is busy, please retry"
	case util.IsError(err, util.ErrPersistenceFailure):
		statusCode = http.StatusServiceUnavailable
		message = "Temporarily unable to record the request, please retry"
		h.logger.Error("Persistence failure", zap.Error(err))
	default:
		h.logger.Error("Unhandled service error", zap.Error(err))
	}

	if util.IsRetryable(err) {
		w.Header().Set("Retry-After", retryAfterSeconds)
	}

	body := types.ErrorResponse{Error: message}
	if failed != nil && failed.ID != 0 {
		body.TransactionID = &failed.ID
	}
	h.respondWithJSON(w, statusCode, body)
}

// decode reads a JSON request body into dst.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return util.ErrInvalidInput
		}
		return fmt.Errorf("%w: malformed request body: %v", util.ErrInvalidInput, err)
	}
	return nil
}

// userIDParam parses the {userID} URL parameter.
func userIDParam(r *http.Request) (int64, error) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || userID <= 0 {
		return 0, util.ErrInvalidInput
	}
	return userID, nil
}

// intQuery parses an optional non-negative integer query parameter.
func intQuery(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, util.ErrInvalidInput
	}
	return value, nil
}
