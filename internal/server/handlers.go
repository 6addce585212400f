package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/okavango-bank/corebank/internal/auth"
	"github.com/okavango-bank/corebank/internal/controller"
	"github.com/okavango-bank/corebank/internal/domain"
)

// Handlers exposes the controllers over HTTP. Authorization lives in the
// controllers; the handlers translate requests and results.
type Handlers struct {
	login     *controller.LoginController
	customers *controller.CustomerController
	accounts  *controller.AccountController
	tokens    *auth.TokenService
	logger    *slog.Logger
}

// NewHandlers creates the HTTP handler set.
func NewHandlers(login *controller.LoginController, customers *controller.CustomerController, accounts *controller.AccountController, tokens *auth.TokenService, logger *slog.Logger) *Handlers {
	return &Handlers{
		login:     login,
		customers: customers,
		accounts:  accounts,
		tokens:    tokens,
		logger:    logger,
	}
}

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	result := h.login.Login(r.Context(), req.UserID, req.Password)
	if !result.Success {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: result.Message})
		return
	}

	token, expiresAt, err := h.tokens.Generate(result.User)
	if err != nil {
		h.logger.Error("token generation failed", "user_id", result.User.ID, "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to issue session token"})
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      viewUser(result.User),
	})
}

func (h *Handlers) handleLogout(w http.ResponseWriter, _ *http.Request) {
	h.login.Logout()
	respondJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
}

func (h *Handlers) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	result := h.login.ChangePassword(r.Context(), req.CurrentPassword, req.NewPassword)
	if !result.Success {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: result.Message})
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: result.Message})
}

func (h *Handlers) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	result := h.login.RegisterUser(r.Context(), req.UserID, req.Username, req.Password, domain.Role(strings.ToUpper(req.Role)))
	if !result.Success {
		respondJSON(w, statusForDenial(result.Message), errorResponse{Error: result.Message})
		return
	}
	respondJSON(w, http.StatusCreated, messageResponse{Message: result.Message})
}

func (h *Handlers) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	result := h.login.DeleteUser(r.Context(), chi.URLParam(r, "userID"))
	if !result.Success {
		respondJSON(w, statusForDenial(result.Message), errorResponse{Error: result.Message})
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: result.Message})
}

func (h *Handlers) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	if term := r.URL.Query().Get("search"); term != "" {
		matches, err := h.customers.SearchCustomers(r.Context(), term)
		if err != nil {
			if errors.Is(err, domain.ErrPermissionDenied) {
				respondJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
				return
			}
			h.logger.Error("customer search failed", "error", err)
			respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "search failed"})
			return
		}
		respondJSON(w, http.StatusOK, viewCustomers(matches))
		return
	}

	customers := h.customers.GetAllCustomers()
	if customers == nil {
		respondJSON(w, http.StatusForbidden, errorResponse{Error: "You don't have permission to view customers"})
		return
	}
	respondJSON(w, http.StatusOK, viewCustomers(customers))
}

func (h *Handlers) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	result := h.customers.RegisterCustomer(r.Context(), req.FirstName, req.Surname, req.Address, req.Phone, req.Email)
	if !result.Success {
		respondJSON(w, statusForDenial(result.Message), errorResponse{Error: result.Message})
		return
	}
	respondJSON(w, http.StatusCreated, viewCustomer(result.Customer))
}

func (h *Handlers) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	result := h.customers.GetCustomer(r.Context(), chi.URLParam(r, "customerID"))
	if !result.Success {
		respondJSON(w, statusForDenial(result.Message), errorResponse{Error: result.Message})
		return
	}
	respondJSON(w, http.StatusOK, viewCustomer(result.Customer))
}

func (h *Handlers) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	update := controller.CustomerUpdate{
		FirstName: req.FirstName,
		Surname:   req.Surname,
		Address:   req.Address,
		Phone:     req.Phone,
		Email:     req.Email,
	}
	result := h.customers.UpdateCustomer(r.Context(), chi.URLParam(r, "customerID"), update)
	if !result.Success {
		respondJSON(w, statusForDenial(result.Message), errorResponse{Error: result.Message})
		return
	}
	respondJSON(w, http.StatusOK, viewCustomer(result.Customer))
}

func (h *Handlers) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	result := h.customers.DeleteCustomer(r.Context(), chi.URLParam(r, "customerID"))
	if !result.Success {
		respondJSON(w, statusForDenial(result.Message), errorResponse{Error: result.Message})
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: result.Message})
}

func (h *Handlers) handleCustomerAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.GetCustomerAccounts(chi.URLParam(r, "customerID"))
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}
		respondJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, viewAccounts(accounts))
}

func (h *Handlers) handleOpenAccount(w http.ResponseWriter, r *http.Request) {
	var req openAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	opening, err := decimal.NewFromString(strings.TrimSpace(req.OpeningBalance))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid opening balance"})
		return
	}

	var result controller.AccountResult
	switch domain.AccountType(strings.ToUpper(req.Type)) {
	case domain.AccountSavings:
		result = h.accounts.OpenSavingsAccount(r.Context(), req.CustomerID, opening, req.Branch)
	case domain.AccountInvestment:
		result = h.accounts.OpenInvestmentAccount(r.Context(), req.CustomerID, opening, req.Branch)
	case domain.AccountCheque:
		result = h.accounts.OpenChequeAccount(r.Context(), req.CustomerID, opening, req.Branch, req.CompanyName, req.CompanyAddress)
	default:
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "account type must be SAVINGS, INVESTMENT, or CHEQUE"})
		return
	}

	if !result.Success {
		respondJSON(w, statusForDenial(result.Message), errorResponse{Error: result.Message})
		return
	}
	respondJSON(w, http.StatusCreated, viewAccount(result.Account))
}

func (h *Handlers) handleListAccounts(w http.ResponseWriter, _ *http.Request) {
	accounts := h.accounts.GetAllAccounts()
	if accounts == nil {
		respondJSON(w, http.StatusForbidden, errorResponse{Error: "You don't have permission to view all accounts"})
		return
	}
	respondJSON(w, http.StatusOK, viewAccounts(accounts))
}

func (h *Handlers) handleAccountStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.accounts.GetAccountStatistics(r.Context())
	if err != nil {
		respondJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, statisticsResponse{
		Savings:    stats.SavingsCount,
		Investment: stats.InvestmentCount,
		Cheque:     stats.ChequeCount,
		Total:      stats.TotalCount,
	})
}

func (h *Handlers) handleCloseAccount(w http.ResponseWriter, r *http.Request) {
	result := h.accounts.CloseAccount(r.Context(), chi.URLParam(r, "number"))
	if !result.Success {
		respondJSON(w, statusForDenial(result.Message), errorResponse{Error: result.Message})
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: result.Message})
}

func (h *Handlers) handleDeposit(w http.ResponseWriter, r *http.Request) {
	h.handleMovement(w, r, func(number string, amount decimal.Decimal, _ string) controller.TransactionResult {
		return h.accounts.Deposit(r.Context(), number, amount)
	})
}

func (h *Handlers) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	h.handleMovement(w, r, func(number string, amount decimal.Decimal, _ string) controller.TransactionResult {
		return h.accounts.Withdraw(r.Context(), number, amount)
	})
}

func (h *Handlers) handleCreditSalary(w http.ResponseWriter, r *http.Request) {
	h.handleMovement(w, r, func(number string, amount decimal.Decimal, ref string) controller.TransactionResult {
		return h.accounts.CreditSalary(r.Context(), number, amount, ref)
	})
}

func (h *Handlers) handleMovement(w http.ResponseWriter, r *http.Request, move func(number string, amount decimal.Decimal, employerRef string) controller.TransactionResult) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid amount"})
		return
	}

	result := move(chi.URLParam(r, "number"), amount, req.EmployerReference)
	if !result.Success {
		respondJSON(w, statusForDenial(result.Message), errorResponse{Error: result.Message})
		return
	}
	respondJSON(w, http.StatusOK, movementResponse{
		Message:    result.Message,
		NewBalance: result.NewBalance.StringFixed(2),
	})
}

func (h *Handlers) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	result := h.accounts.GetBalance(chi.URLParam(r, "number"))
	if !result.Success {
		respondJSON(w, statusForDenial(result.Message), errorResponse{Error: result.Message})
		return
	}
	respondJSON(w, http.StatusOK, balanceResponse{
		AccountNumber: result.Account.Number,
		Balance:       result.Balance.StringFixed(2),
	})
}

func (h *Handlers) handleTransactionHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.accounts.GetTransactionHistory(chi.URLParam(r, "number"))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}
		respondJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, viewTransactions(entries))
}

func (h *Handlers) handleUpdateEmployment(w http.ResponseWriter, r *http.Request) {
	var req employmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	result := h.accounts.UpdateEmploymentInfo(r.Context(), chi.URLParam(r, "number"), req.CompanyName, req.CompanyAddress)
	if !result.Success {
		respondJSON(w, statusForDenial(result.Message), errorResponse{Error: result.Message})
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: result.Message})
}

func (h *Handlers) handleInterestSweep(w http.ResponseWriter, r *http.Request) {
	result := h.accounts.ProcessMonthlyInterest(r.Context())
	if !result.Success {
		respondJSON(w, statusForDenial(result.Message), errorResponse{Error: result.Message})
		return
	}
	respondJSON(w, http.StatusOK, interestSweepResponse{
		AccountsProcessed: result.AccountsProcessed,
		TotalInterest:     result.TotalInterest.StringFixed(2),
	})
}

// statusForDenial maps a controller failure message onto an HTTP status.
// Permission refusals phrase themselves consistently, and lookups name the
// missing entity.
func statusForDenial(message string) int {
	switch {
	case strings.Contains(message, "permission"):
		return http.StatusForbidden
	case strings.Contains(message, "not found") || strings.Contains(message, "does not exist"):
		return http.StatusNotFound
	case strings.Contains(message, "Failed to"):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}
