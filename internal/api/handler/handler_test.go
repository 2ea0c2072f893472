// internal/api/handler/handler_test.go
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"micro-ledger/internal/domain"
	"micro-ledger/internal/util"
)

// MockLedgerService is a mock implementation of service.LedgerService.
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Deposit(ctx context.Context, userID int64, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) Withdraw(ctx context.Context, userID int64, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) Transfer(ctx context.Context, fromUserID, toUserID int64, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	args := m.Called(ctx, fromUserID, toUserID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func TestLedgerHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
		wantRetry  bool
	}{
		{name: "InvalidAmount", err: fmt.Errorf("withdraw: %w", util.ErrInvalidAmount), wantStatus: http.StatusBadRequest, wantError: "withdraw: invalid amount"},
		{name: "UserNotFound", err: util.ErrUserNotFound, wantStatus: http.StatusNotFound, wantError: "User not found"},
		{name: "Conflict", err: fmt.Errorf("withdraw: %w", util.ErrConcurrencyConflict), wantStatus: http.StatusConflict, wantError: "Account is busy, please retry", wantRetry: true},
		{name: "Duplicate", err: fmt.Errorf("create user: %w", util.ErrDuplicateEntry), wantStatus: http.StatusConflict},
		{name: "Persistence", err: fmt.Errorf("withdraw: %w: disk full", util.ErrPersistenceFailure), wantStatus: http.StatusServiceUnavailable, wantRetry: true},
		{name: "Unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantError: "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockLedgerService)
			svc.On("Withdraw", mock.Anything, int64(1), mock.Anything, "").Return(nil, tt.err).Once()
			h := NewLedgerHandler(svc, domain.DefaultScale, zap.NewNop())

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/withdraw", strings.NewReader(`{"user_id": 1, "amount": 5}`))
			h.Withdraw(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			}
			assert.NotContains(t, body, "transaction_id")
			if tt.wantRetry {
				assert.Equal(t, "1", rec.Header().Get("Retry-After"))
			} else {
				assert.Empty(t, rec.Header().Get("Retry-After"))
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestLedgerHandler_InsufficientFundsCarriesFailedTransaction(t *testing.T) {
	from := int64(3)
	failed := domain.NewTransaction(domain.TransactionTypeWithdraw, 20000, &from, nil, nil)
	failed.ID = 77
	require.NoError(t, failed.MarkFailed())

	svc := new(MockLedgerService)
	svc.On("Withdraw", mock.Anything, int64(1), mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(200))
	}), "rent").Return(failed, fmt.Errorf("withdraw: %w", util.ErrInsufficientFunds)).Once()
	h := NewLedgerHandler(svc, domain.DefaultScale, zap.NewNop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/withdraw", strings.NewReader(`{"user_id": 1, "amount": "200", "description": "rent"}`))
	h.Withdraw(rec, req)

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Insufficient funds", body["error"])
	assert.Equal(t, float64(77), body["transaction_id"])
	svc.AssertExpectations(t)
}

func TestLedgerHandler_Transfer(t *testing.T) {
	from, to := int64(1), int64(2)
	tx := domain.NewTransaction(domain.TransactionTypeTransfer, 3050, &from, &to, nil)
	tx.ID = 5
	require.NoError(t, tx.MarkSucceeded())

	svc := new(MockLedgerService)
	svc.On("Transfer", mock.Anything, int64(10), int64(20), mock.Anything, "").Return(tx, nil).Once()
	h := NewLedgerHandler(svc, domain.DefaultScale, zap.NewNop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transfer", strings.NewReader(`{"from_user_id": 10, "to_user_id": 20, "amount": 30.5}`))
	h.Transfer(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status        string `json:"status"`
		TransactionID int64  `json:"transaction_id"`
		Transaction   struct {
			Amount string `json:"amount"`
			Status string `json:"status"`
		} `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, int64(5), body.TransactionID)
	assert.Equal(t, "30.50", body.Transaction.Amount)
	assert.Equal(t, "SUCCESS", body.Transaction.Status)
}
