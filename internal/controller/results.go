package controller

import (
	"github.com/shopspring/decimal"

	"github.com/okavango-bank/corebank/internal/domain"
)

// Every façade operation returns a result value carrying a success flag and a
// human-readable message; the presentation layer consumes these and nothing
// else. Failures are outcomes, never panics.

// Result is the outcome of an operation with no payload.
type Result struct {
	Success bool
	Message string
}

// LoginResult is the outcome of a login attempt.
type LoginResult struct {
	Success bool
	Message string
	User    *domain.User
}

// CustomerResult is the outcome of a customer operation.
type CustomerResult struct {
	Success  bool
	Message  string
	Customer *domain.Customer
}

// AccountResult is the outcome of an account-opening operation.
type AccountResult struct {
	Success bool
	Message string
	Account *domain.Account
}

// TransactionResult is the outcome of a deposit, withdrawal or salary credit.
type TransactionResult struct {
	Success    bool
	Message    string
	NewBalance decimal.Decimal
}

// BalanceResult is the outcome of a balance enquiry.
type BalanceResult struct {
	Success bool
	Message string
	Balance decimal.Decimal
	Account *domain.Account
}

// InterestResult is the outcome of a monthly interest sweep.
type InterestResult struct {
	Success           bool
	Message           string
	AccountsProcessed int
	TotalInterest     decimal.Decimal
}

// AccountStatistics counts accounts per variant.
type AccountStatistics struct {
	SavingsCount    int
	InvestmentCount int
	ChequeCount     int
	TotalCount      int
}
