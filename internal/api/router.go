// internal/api/router.go
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"micro-ledger/internal/api/handler"
	"micro-ledger/internal/api/middleware"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Ledger *handler.LedgerHandler
	Query  *handler.QueryHandler
	User   *handler.UserHandler
}

// NewRouter sets up and returns a new HTTP router. Browser requests are only
// allowed from allowedOrigins; none disables CORS handling.
func NewRouter(h Handlers, allowedOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Post("/users", h.User.CreateUser)
	r.Get("/users/{userID}", h.User.GetUser)

	// Money movement
	r.Post("/deposit", h.Ledger.Deposit)
	r.Post("/withdraw", h.Ledger.Withdraw)
	r.Post("/transfer", h.Ledger.Transfer)

	r.Get("/balance/{userID}", h.Query.GetBalance)
	r.Get("/transactions/{userID}", h.Query.GetTransactions)

	r.Route("/admin", func(r chi.Router) {
		r.Get("/summary", h.Query.GetSummary)
		r.Get("/activity", h.Query.GetActivity)
	})

	return r
}
