// Package server is the HTTP surface: a chi router over the controller
// façade, with bearer-token authentication on everything but login and
// health.
package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okavango-bank/corebank/internal/auth"
	"github.com/okavango-bank/corebank/internal/controller"
)

// NewRouter wires the HTTP routes.
func NewRouter(logger *slog.Logger, handlers *Handlers, tokens *auth.TokenService, session *controller.Session) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", handlers.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(requireToken(tokens, session))

			r.Post("/auth/logout", handlers.handleLogout)
			r.Post("/auth/password", handlers.handleChangePassword)

			r.Post("/users", handlers.handleCreateUser)
			r.Delete("/users/{userID}", handlers.handleDeleteUser)

			r.Get("/customers", handlers.handleListCustomers)
			r.Post("/customers", handlers.handleCreateCustomer)
			r.Get("/customers/{customerID}", handlers.handleGetCustomer)
			r.Put("/customers/{customerID}", handlers.handleUpdateCustomer)
			r.Delete("/customers/{customerID}", handlers.handleDeleteCustomer)
			r.Get("/customers/{customerID}/accounts", handlers.handleCustomerAccounts)

			r.Post("/accounts", handlers.handleOpenAccount)
			r.Get("/accounts", handlers.handleListAccounts)
			r.Get("/accounts/statistics", handlers.handleAccountStatistics)
			r.Delete("/accounts/{number}", handlers.handleCloseAccount)
			r.Get("/accounts/{number}/balance", handlers.handleGetBalance)
			r.Get("/accounts/{number}/transactions", handlers.handleTransactionHistory)
			r.Post("/accounts/{number}/deposit", handlers.handleDeposit)
			r.Post("/accounts/{number}/withdraw", handlers.handleWithdraw)
			r.Post("/accounts/{number}/salary", handlers.handleCreditSalary)
			r.Put("/accounts/{number}/employment", handlers.handleUpdateEmployment)

			r.Post("/operations/interest-sweep", handlers.handleInterestSweep)
		})
	})

	return r
}

// requireToken validates the bearer token and checks it names the principal
// currently bound to the session. A token minted for an earlier login stops
// working the moment someone else logs in.
func requireToken(tokens *auth.TokenService, session *controller.Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or expired token"})
				return
			}

			current := session.User()
			if current == nil || current.ID != claims.UserID || !current.IsAuthenticated(current.ID) {
				respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "session is no longer active"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
