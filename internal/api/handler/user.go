// internal/api/handler/user.go
package handler

import (
	"net/http"

	"go.uber.org/zap"

	"micro-ledger/internal/api/types"
	"micro-ledger/internal/service"
)

// UserHandler handles user registration and lookup.
type UserHandler struct {
	responder
	service service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		responder: responder{logger: logger},
		service:   svc,
	}
}

// CreateUserRequest represents the request body for user registration.
type CreateUserRequest struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
}

// CreateUser registers a user and opens its primary account.
// POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decode(w, r, &req); err != nil {
		h.respondWithError(w, err, nil)
		return
	}

	user, account, err := h.service.CreateUser(r.Context(), req.Name, req.Email)
	if err != nil {
		h.respondWithError(w, err, nil)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, types.NewUserResponse(user, account))
}

// GetUser returns a user with its primary account.
// GET /users/{userID}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		h.respondWithError(w, err, nil)
		return
	}

	user, account, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err, nil)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewUserResponse(user, account))
}
