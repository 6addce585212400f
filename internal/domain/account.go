package domain

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is the closed set of account variants. Each variant carries its
// own withdrawal and interest policy; there is no other variance between them.
type AccountType string

const (
	AccountSavings    AccountType = "SAVINGS"
	AccountInvestment AccountType = "INVESTMENT"
	AccountCheque     AccountType = "CHEQUE"
)

// MinimumInvestmentOpeningBalance is the smallest balance an investment
// account may be opened with.
var MinimumInvestmentOpeningBalance = decimal.RequireFromString("500.00")

// accountPolicy fixes the per-variant rules: whether withdrawals are allowed
// at all, and the monthly interest rate applied by the interest sweep.
type accountPolicy struct {
	allowWithdrawals bool
	monthlyRate      decimal.Decimal
	displayName      string
}

var accountPolicies = map[AccountType]accountPolicy{
	AccountSavings:    {allowWithdrawals: false, monthlyRate: decimal.RequireFromString("0.0005"), displayName: "Savings Account"},
	AccountInvestment: {allowWithdrawals: true, monthlyRate: decimal.RequireFromString("0.05"), displayName: "Investment Account"},
	AccountCheque:     {allowWithdrawals: true, monthlyRate: decimal.Zero, displayName: "Cheque Account"},
}

// Account is one bank account. The balance and ledger are only mutated through
// the deposit, withdraw, interest and salary operations, which keep the two in
// step: every balance change appends exactly one ledger entry whose
// balance-after snapshot equals the balance at that moment.
//
// The account's own mutex guards the balance, the ledger and the employment
// details. Each movement's balance check and ledger append happen inside one
// critical section, so concurrent movements on the same account serialize
// instead of losing updates.
type Account struct {
	Number   string
	Type     AccountType
	Branch   string
	OpenedAt time.Time

	mu             sync.RWMutex
	balance        decimal.Decimal
	openingBalance decimal.Decimal
	customer       *Customer

	// employment details, cheque accounts only
	companyName    string
	companyAddress string

	ledger []Transaction
}

func newAccount(number string, accountType AccountType, openingBalance decimal.Decimal, branch string, customer *Customer) (*Account, error) {
	if customer == nil {
		return nil, ErrCustomerRequired
	}
	return &Account{
		Number:         number,
		Type:           accountType,
		Branch:         branch,
		OpenedAt:       time.Now(),
		balance:        openingBalance,
		openingBalance: openingBalance,
		customer:       customer,
	}, nil
}

// NewSavingsAccount constructs a savings account. Savings accounts accept
// deposits and earn interest but never permit withdrawals.
func NewSavingsAccount(number string, openingBalance decimal.Decimal, branch string, customer *Customer) (*Account, error) {
	return newAccount(number, AccountSavings, openingBalance, branch, customer)
}

// NewInvestmentAccount constructs an investment account. The opening balance
// must be at least MinimumInvestmentOpeningBalance.
func NewInvestmentAccount(number string, openingBalance decimal.Decimal, branch string, customer *Customer) (*Account, error) {
	if openingBalance.LessThan(MinimumInvestmentOpeningBalance) {
		return nil, ErrMinimumOpeningBalance
	}
	return newAccount(number, AccountInvestment, openingBalance, branch, customer)
}

// NewChequeAccount constructs a cheque account. Company name and address are
// mandatory employment information.
func NewChequeAccount(number string, openingBalance decimal.Decimal, branch string, customer *Customer, companyName, companyAddress string) (*Account, error) {
	if strings.TrimSpace(companyName) == "" || strings.TrimSpace(companyAddress) == "" {
		return nil, ErrEmploymentInfoRequired
	}
	account, err := newAccount(number, AccountCheque, openingBalance, branch, customer)
	if err != nil {
		return nil, err
	}
	account.companyName = companyName
	account.companyAddress = companyAddress
	return account, nil
}

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.balance
}

// OpeningBalance returns the balance the account was opened with.
func (a *Account) OpeningBalance() decimal.Decimal {
	return a.openingBalance
}

// Customer returns the owning customer. Every account has exactly one.
func (a *Account) Customer() *Customer {
	return a.customer
}

// CompanyName returns the employer name of a cheque account, or "".
func (a *Account) CompanyName() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.companyName
}

// CompanyAddress returns the employer address of a cheque account, or "".
func (a *Account) CompanyAddress() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.companyAddress
}

// DisplayType returns the human-readable variant name.
func (a *Account) DisplayType() string {
	return accountPolicies[a.Type].displayName
}

// MonthlyInterestRate returns the variant's fixed monthly rate.
func (a *Account) MonthlyInterestRate() decimal.Decimal {
	return accountPolicies[a.Type].monthlyRate
}

// Deposit increases the balance and appends a DEPOSIT ledger entry, which is
// returned. Non-positive amounts leave balance and ledger untouched.
func (a *Account) Deposit(amount decimal.Decimal) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, ErrInvalidAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balance = a.balance.Add(amount)
	return a.record(TransactionDeposit, amount, "Deposit to account"), nil
}

// Withdraw decreases the balance and appends a WITHDRAWAL ledger entry, which
// is returned. Savings accounts refuse every withdrawal. No variant may
// overdraw.
func (a *Account) Withdraw(amount decimal.Decimal) (Transaction, error) {
	if !accountPolicies[a.Type].allowWithdrawals {
		return Transaction{}, ErrWithdrawalsNotAllowed
	}
	if !amount.IsPositive() {
		return Transaction{}, ErrInvalidAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if amount.GreaterThan(a.balance) {
		return Transaction{}, ErrInsufficientFunds
	}
	a.balance = a.balance.Sub(amount)
	return a.record(TransactionWithdrawal, amount, fmt.Sprintf("Withdrawal from %s", a.DisplayType())), nil
}

// CalculateInterest returns one month's interest on the current balance.
// It has no side effects; cheque accounts always yield zero.
func (a *Account) CalculateInterest() decimal.Decimal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.balance.Mul(accountPolicies[a.Type].monthlyRate)
}

// ApplyInterest credits one month's interest and appends an INTEREST ledger
// entry, which is returned. A zero interest result (cheque accounts, zero
// balances) is a no-op: it produces no entry and reports false.
func (a *Account) ApplyInterest() (Transaction, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	interest := a.balance.Mul(accountPolicies[a.Type].monthlyRate)
	if !interest.IsPositive() {
		return Transaction{}, false
	}
	a.balance = a.balance.Add(interest)
	return a.record(TransactionInterest, interest, "Monthly interest applied"), true
}

// CreditSalary credits an employer salary payment to a cheque account and
// appends a SALARY ledger entry, which is returned, referencing the employer.
func (a *Account) CreditSalary(amount decimal.Decimal, employerReference string) (Transaction, error) {
	if a.Type != AccountCheque {
		return Transaction{}, ErrSalaryNotSupported
	}
	if !amount.IsPositive() {
		return Transaction{}, ErrInvalidAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balance = a.balance.Add(amount)
	return a.record(TransactionSalary, amount,
		fmt.Sprintf("Salary credit from %s (Ref: %s)", a.companyName, employerReference)), nil
}

// UpdateEmploymentInfo replaces the employment details of a cheque account.
// Empty fields keep their current value.
func (a *Account) UpdateEmploymentInfo(companyName, companyAddress string) {
	if a.Type != AccountCheque {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if strings.TrimSpace(companyName) != "" {
		a.companyName = companyName
	}
	if strings.TrimSpace(companyAddress) != "" {
		a.companyAddress = companyAddress
	}
}

// TransactionHistory returns a snapshot of the ledger in insertion order.
// Mutating the returned slice does not affect the account's ledger.
func (a *Account) TransactionHistory() []Transaction {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]Transaction, len(a.ledger))
	copy(out, a.ledger)
	return out
}

// LastTransaction returns the most recent ledger entry, or false if the
// ledger is empty.
func (a *Account) LastTransaction() (Transaction, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if len(a.ledger) == 0 {
		return Transaction{}, false
	}
	return a.ledger[len(a.ledger)-1], true
}

// VerifyLedger replays the full ledger from the opening balance and checks
// every balance-after snapshot plus the final balance. It returns nil when
// the audit trail reconstructs the current balance exactly.
func (a *Account) VerifyLedger() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	final, err := ReplayLedger(a.openingBalance, a.ledger)
	if err != nil {
		return err
	}
	if !final.Equal(a.balance) {
		return fmt.Errorf("replayed balance %s does not match current balance %s", final, a.balance)
	}
	return nil
}

// record appends a ledger entry snapshotting the current balance. Callers
// hold a.mu.
func (a *Account) record(txType TransactionType, amount decimal.Decimal, description string) Transaction {
	entry := NewTransaction(a.Number, txType, amount, a.balance, description)
	a.ledger = append(a.ledger, entry)
	return entry
}

// AccountRecord carries persisted account state for rehydration.
type AccountRecord struct {
	Number         string
	Type           AccountType
	Balance        decimal.Decimal
	OpeningBalance decimal.Decimal
	Branch         string
	OpenedAt       time.Time
	Customer       *Customer
	CompanyName    string
	CompanyAddress string
	Ledger         []Transaction
}

// RestoreAccount rebuilds an account from persisted state. It trusts the
// stored balances and ledger and only checks structural invariants.
func RestoreAccount(rec AccountRecord) (*Account, error) {
	if rec.Customer == nil {
		return nil, ErrCustomerRequired
	}
	if _, ok := accountPolicies[rec.Type]; !ok {
		return nil, fmt.Errorf("unknown account type %q", rec.Type)
	}
	ledger := make([]Transaction, len(rec.Ledger))
	copy(ledger, rec.Ledger)
	return &Account{
		Number:         rec.Number,
		Type:           rec.Type,
		Branch:         rec.Branch,
		OpenedAt:       rec.OpenedAt,
		balance:        rec.Balance,
		openingBalance: rec.OpeningBalance,
		customer:       rec.Customer,
		companyName:    rec.CompanyName,
		companyAddress: rec.CompanyAddress,
		ledger:         ledger,
	}, nil
}
