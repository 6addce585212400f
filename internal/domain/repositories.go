package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// The repository interfaces are the persistence collaborator's contract.
// Implementations map "not found" to the matching sentinel error instead of
// failing hard; everything else surfaces as a wrapped error.

// CustomerRepository persists customers.
type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, customerID string) (*Customer, error)
	FindAll(ctx context.Context) ([]*Customer, error)
	Update(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, customerID string) error
	Exists(ctx context.Context, customerID string) (bool, error)
	SearchByName(ctx context.Context, term string) ([]*Customer, error)
}

// AccountRepository persists accounts. Balance changes go through
// UpdateBalance so the backing row stays in step with the registry.
type AccountRepository interface {
	Save(ctx context.Context, account *Account) error
	FindByNumber(ctx context.Context, number string) (*Account, error)
	FindAll(ctx context.Context) ([]*Account, error)
	UpdateBalance(ctx context.Context, account *Account) error
	Delete(ctx context.Context, number string) error
	Exists(ctx context.Context, number string) (bool, error)
	FindByCustomerID(ctx context.Context, customerID string) ([]*Account, error)
	CountByType(ctx context.Context, accountType AccountType) (int, error)
}

// TransactionRepository persists ledger entries. Entries are append-only;
// there is no update or delete.
type TransactionRepository interface {
	Save(ctx context.Context, entry Transaction) error
	FindByAccountNumber(ctx context.Context, number string) ([]Transaction, error)
}

// UserRepository persists staff users.
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	FindByID(ctx context.Context, userID string) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, userID string) error
	Exists(ctx context.Context, userID string) (bool, error)
}

// InterestSweep summarises one monthly interest run.
type InterestSweep struct {
	AccountsProcessed int
	TotalInterest     decimal.Decimal
	SweptAt           time.Time
}

// EventPublisher emits ledger events to external consumers. A nil publisher
// means no events; publishing is best-effort and never blocks an operation's
// outcome.
type EventPublisher interface {
	PublishLedgerEntry(ctx context.Context, entry Transaction) error
	PublishInterestSweep(ctx context.Context, sweep InterestSweep) error
}
