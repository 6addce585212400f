package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okavango-bank/corebank/internal/domain"
)

// AccountController handles account opening, money movement, balance and
// history queries, and the monthly interest sweep.
//
// The in-memory registry is authoritative. Every mutation is mirrored to the
// repositories; a persistence failure after the registry mutation is reported
// as a failed result so the operator retries against the already-updated
// registry state.
type AccountController struct {
	bank         *domain.Bank
	accounts     domain.AccountRepository
	transactions domain.TransactionRepository
	session      *Session
	publisher    domain.EventPublisher
	logger       *slog.Logger
}

// NewAccountController creates an AccountController. The publisher may be nil
// when no broker is configured.
func NewAccountController(bank *domain.Bank, accounts domain.AccountRepository, transactions domain.TransactionRepository, session *Session, publisher domain.EventPublisher, logger *slog.Logger) *AccountController {
	return &AccountController{
		bank:         bank,
		accounts:     accounts,
		transactions: transactions,
		session:      session,
		publisher:    publisher,
		logger:       logger,
	}
}

// OpenSavingsAccount opens a savings account for an existing customer.
func (c *AccountController) OpenSavingsAccount(ctx context.Context, customerID string, openingBalance decimal.Decimal, branch string) AccountResult {
	return c.openAccount(ctx, customerID, openingBalance, branch, func(customerID string) (*domain.Account, error) {
		return c.bank.OpenSavingsAccount(customerID, openingBalance, branch)
	})
}

// OpenInvestmentAccount opens an investment account for an existing customer.
// The opening balance is checked against the variant minimum before any
// registry state changes.
func (c *AccountController) OpenInvestmentAccount(ctx context.Context, customerID string, openingBalance decimal.Decimal, branch string) AccountResult {
	if openingBalance.LessThan(domain.MinimumInvestmentOpeningBalance) {
		return AccountResult{Message: fmt.Sprintf("Investment accounts require a minimum opening balance of %s",
			domain.MinimumInvestmentOpeningBalance.StringFixed(2))}
	}
	return c.openAccount(ctx, customerID, openingBalance, branch, func(customerID string) (*domain.Account, error) {
		return c.bank.OpenInvestmentAccount(customerID, openingBalance, branch)
	})
}

// OpenChequeAccount opens a cheque account. Employer name and address are
// mandatory.
func (c *AccountController) OpenChequeAccount(ctx context.Context, customerID string, openingBalance decimal.Decimal, branch, companyName, companyAddress string) AccountResult {
	if strings.TrimSpace(companyName) == "" || strings.TrimSpace(companyAddress) == "" {
		return AccountResult{Message: "Company name and address are required for cheque accounts"}
	}
	return c.openAccount(ctx, customerID, openingBalance, branch, func(customerID string) (*domain.Account, error) {
		return c.bank.OpenChequeAccount(customerID, openingBalance, branch, companyName, companyAddress)
	})
}

func (c *AccountController) openAccount(ctx context.Context, customerID string, openingBalance decimal.Decimal, branch string, open func(customerID string) (*domain.Account, error)) AccountResult {
	if !c.session.HasPermission(domain.PermOpenAccount) {
		return AccountResult{Message: "You don't have permission to open accounts"}
	}
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return AccountResult{Message: "Customer ID is required"}
	}
	if openingBalance.IsNegative() {
		return AccountResult{Message: "Opening balance cannot be negative"}
	}

	account, err := open(customerID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCustomerNotFound):
			return AccountResult{Message: "Customer not found: " + customerID}
		case errors.Is(err, domain.ErrMinimumOpeningBalance):
			return AccountResult{Message: fmt.Sprintf("Investment accounts require a minimum opening balance of %s",
				domain.MinimumInvestmentOpeningBalance.StringFixed(2))}
		case errors.Is(err, domain.ErrEmploymentInfoRequired):
			return AccountResult{Message: "Company name and address are required for cheque accounts"}
		default:
			return AccountResult{Message: err.Error()}
		}
	}

	if err := c.accounts.Save(ctx, account); err != nil {
		c.logger.Error("account save failed", "account", account.Number, "error", err)
		return AccountResult{Message: "Failed to save account to database"}
	}

	c.logger.Info("account opened",
		"account", account.Number,
		"type", account.Type,
		"customer_id", customerID)
	return AccountResult{Success: true, Message: "Account opened successfully: " + account.Number, Account: account}
}

// CloseAccount removes an account from the registry and the store. Only
// accounts with a zero balance may be closed.
func (c *AccountController) CloseAccount(ctx context.Context, number string) Result {
	if !c.session.HasPermission(domain.PermCloseAccount) {
		return Result{Message: "You don't have permission to close accounts"}
	}
	number = strings.TrimSpace(number)
	if number == "" {
		return Result{Message: "Account number is required"}
	}

	account := c.bank.Account(number)
	if account == nil {
		return Result{Message: "Account not found: " + number}
	}
	if !account.Balance().IsZero() {
		return Result{Message: "Account must have a zero balance before it can be closed"}
	}

	if err := c.bank.CloseAccount(number); err != nil {
		return Result{Message: err.Error()}
	}
	if err := c.accounts.Delete(ctx, number); err != nil {
		c.logger.Error("account delete failed", "account", number, "error", err)
		return Result{Message: "Failed to delete account from database"}
	}

	c.logger.Info("account closed", "account", number)
	return Result{Success: true, Message: "Account closed successfully"}
}

// Deposit credits the amount to the account and persists the new balance plus
// the ledger entry.
func (c *AccountController) Deposit(ctx context.Context, number string, amount decimal.Decimal) TransactionResult {
	if !c.session.HasPermission(domain.PermDeposit) {
		return TransactionResult{Message: "You don't have permission to make deposits"}
	}
	return c.applyMovement(ctx, number, "Deposit successful", func(account *domain.Account) (domain.Transaction, error) {
		return account.Deposit(amount)
	})
}

// Withdraw debits the amount from the account. Savings accounts refuse every
// withdrawal; no account may overdraw.
func (c *AccountController) Withdraw(ctx context.Context, number string, amount decimal.Decimal) TransactionResult {
	if !c.session.HasPermission(domain.PermWithdraw) {
		return TransactionResult{Message: "You don't have permission to make withdrawals"}
	}
	return c.applyMovement(ctx, number, "Withdrawal successful", func(account *domain.Account) (domain.Transaction, error) {
		return account.Withdraw(amount)
	})
}

// CreditSalary credits an employer salary payment to a cheque account.
func (c *AccountController) CreditSalary(ctx context.Context, number string, amount decimal.Decimal, employerReference string) TransactionResult {
	if !c.session.HasPermission(domain.PermDeposit) {
		return TransactionResult{Message: "You don't have permission to credit salaries"}
	}
	return c.applyMovement(ctx, number, "Salary credited successfully", func(account *domain.Account) (domain.Transaction, error) {
		return account.CreditSalary(amount, employerReference)
	})
}

// applyMovement runs one balance mutation against the registry account, then
// mirrors the new balance and that movement's ledger entry to the store and
// publishes the entry. The account serializes concurrent movements itself;
// the entry the mutation returns carries the balance-after snapshot of this
// movement even when another lands right behind it. Store and publish
// failures after the mutation do not roll the registry back.
func (c *AccountController) applyMovement(ctx context.Context, number, successMessage string, mutate func(*domain.Account) (domain.Transaction, error)) TransactionResult {
	number = strings.TrimSpace(number)
	if number == "" {
		return TransactionResult{Message: "Account number is required"}
	}

	account := c.bank.Account(number)
	if account == nil {
		return TransactionResult{Message: "Account not found: " + number}
	}

	entry, err := mutate(account)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			return TransactionResult{Message: "Amount must be greater than zero"}
		case errors.Is(err, domain.ErrInsufficientFunds):
			return TransactionResult{Message: "Insufficient funds"}
		case errors.Is(err, domain.ErrWithdrawalsNotAllowed):
			return TransactionResult{Message: "Withdrawals are not permitted from savings accounts"}
		case errors.Is(err, domain.ErrSalaryNotSupported):
			return TransactionResult{Message: "Salary credits are only supported on cheque accounts"}
		default:
			return TransactionResult{Message: err.Error()}
		}
	}

	c.persistMovement(ctx, account, entry)
	return TransactionResult{Success: true, Message: successMessage, NewBalance: entry.BalanceAfter}
}

// persistMovement mirrors the account's balance and the given ledger entry to
// the store and publishes the entry. Failures are logged; the registry stays
// authoritative.
func (c *AccountController) persistMovement(ctx context.Context, account *domain.Account, entry domain.Transaction) {
	if err := c.accounts.UpdateBalance(ctx, account); err != nil {
		c.logger.Error("balance update failed", "account", account.Number, "error", err)
	}
	if err := c.transactions.Save(ctx, entry); err != nil {
		c.logger.Error("ledger entry save failed",
			"account", account.Number,
			"transaction_id", entry.ID,
			"error", err)
	}
	if c.publisher != nil {
		if err := c.publisher.PublishLedgerEntry(ctx, entry); err != nil {
			c.logger.Warn("ledger event publish failed",
				"account", account.Number,
				"transaction_id", entry.ID,
				"error", err)
		}
	}
}

// GetBalance returns an account's current balance.
func (c *AccountController) GetBalance(number string) BalanceResult {
	if !c.session.HasPermission(domain.PermViewBalance) {
		return BalanceResult{Message: "You don't have permission to view balances"}
	}
	number = strings.TrimSpace(number)
	if number == "" {
		return BalanceResult{Message: "Account number is required"}
	}

	account := c.bank.Account(number)
	if account == nil {
		return BalanceResult{Message: "Account not found: " + number}
	}
	return BalanceResult{Success: true, Message: "Balance retrieved", Balance: account.Balance(), Account: account}
}

// GetTransactionHistory returns the account's ledger in insertion order.
func (c *AccountController) GetTransactionHistory(number string) ([]domain.Transaction, error) {
	if !c.session.HasPermission(domain.PermViewTransactions) {
		return nil, errors.New("you don't have permission to view transactions")
	}
	number = strings.TrimSpace(number)

	account := c.bank.Account(number)
	if account == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, number)
	}
	return account.TransactionHistory(), nil
}

// UpdateEmploymentInfo replaces the employer details of a cheque account.
// Empty fields keep their current value.
func (c *AccountController) UpdateEmploymentInfo(ctx context.Context, number, companyName, companyAddress string) Result {
	if !c.session.HasPermission(domain.PermOpenAccount) {
		return Result{Message: "You don't have permission to update accounts"}
	}
	number = strings.TrimSpace(number)

	account := c.bank.Account(number)
	if account == nil {
		return Result{Message: "Account not found: " + number}
	}
	if account.Type != domain.AccountCheque {
		return Result{Message: "Employment information only applies to cheque accounts"}
	}

	account.UpdateEmploymentInfo(companyName, companyAddress)
	if err := c.accounts.UpdateBalance(ctx, account); err != nil {
		c.logger.Error("account update failed", "account", number, "error", err)
		return Result{Message: "Failed to update account"}
	}
	return Result{Success: true, Message: "Employment information updated"}
}

// ProcessMonthlyInterest runs the registry's interest sweep, then mirrors
// each posting to the store. The sweep never stops early: per-account
// persistence failures are logged and the run continues.
func (c *AccountController) ProcessMonthlyInterest(ctx context.Context) InterestResult {
	if !c.session.HasPermission(domain.PermOverrideLimit) {
		return InterestResult{Message: "You don't have permission to process interest"}
	}

	postings, total := c.bank.ProcessMonthlyInterest()
	for _, posting := range postings {
		c.persistMovement(ctx, posting.Account, posting.Entry)
	}
	processed := len(postings)

	sweep := domain.InterestSweep{AccountsProcessed: processed, TotalInterest: total, SweptAt: time.Now()}
	if c.publisher != nil {
		if err := c.publisher.PublishInterestSweep(ctx, sweep); err != nil {
			c.logger.Warn("interest sweep event publish failed", "error", err)
		}
	}

	c.logger.Info("monthly interest processed",
		"accounts", processed,
		"total_interest", total.StringFixed(2))
	return InterestResult{
		Success:           true,
		Message:           fmt.Sprintf("Interest applied to %d accounts, total %s", processed, total.StringFixed(2)),
		AccountsProcessed: processed,
		TotalInterest:     total,
	}
}

// GetCustomerAccounts returns every account owned by the customer.
func (c *AccountController) GetCustomerAccounts(customerID string) ([]*domain.Account, error) {
	if !c.session.HasPermission(domain.PermViewBalance) {
		return nil, errors.New("you don't have permission to view accounts")
	}
	customerID = strings.TrimSpace(customerID)

	customer := c.bank.Customer(customerID)
	if customer == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, customerID)
	}
	return customer.Accounts(), nil
}

// GetAllAccounts returns every open account. Restricted to admins.
func (c *AccountController) GetAllAccounts() []*domain.Account {
	if !c.session.HasPermission(domain.PermViewAllAccounts) {
		return nil
	}
	return c.bank.AllAccounts()
}

// GetAccountStatistics counts open accounts per variant from the store.
func (c *AccountController) GetAccountStatistics(ctx context.Context) (AccountStatistics, error) {
	if !c.session.HasPermission(domain.PermViewAllAccounts) {
		return AccountStatistics{}, errors.New("you don't have permission to view account statistics")
	}

	var stats AccountStatistics
	var err error
	if stats.SavingsCount, err = c.accounts.CountByType(ctx, domain.AccountSavings); err != nil {
		return AccountStatistics{}, fmt.Errorf("count savings accounts: %w", err)
	}
	if stats.InvestmentCount, err = c.accounts.CountByType(ctx, domain.AccountInvestment); err != nil {
		return AccountStatistics{}, fmt.Errorf("count investment accounts: %w", err)
	}
	if stats.ChequeCount, err = c.accounts.CountByType(ctx, domain.AccountCheque); err != nil {
		return AccountStatistics{}, fmt.Errorf("count cheque accounts: %w", err)
	}
	stats.TotalCount = stats.SavingsCount + stats.InvestmentCount + stats.ChequeCount
	return stats, nil
}
