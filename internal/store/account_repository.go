package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/okavango-bank/corebank/internal/domain"
)

// AccountRepository implements domain.AccountRepository using PostgreSQL.
// Read methods reassemble full accounts: the owning customer comes from a
// join and the ledger from the transactions table in insertion order.
type AccountRepository struct {
	pool         *pgxpool.Pool
	transactions *TransactionRepository
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool, transactions: NewTransactionRepository(pool)}
}

// Save inserts an account row.
func (r *AccountRepository) Save(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (account_number, customer_id, account_type, balance,
		                      opening_balance, branch, date_opened, company_name, company_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := runner(ctx, r.pool).Exec(ctx, query,
		account.Number,
		account.Customer().ID,
		string(account.Type),
		account.Balance(),
		account.OpeningBalance(),
		account.Branch,
		account.OpenedAt,
		account.CompanyName(),
		account.CompanyAddress(),
	)
	if err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

// FindByNumber retrieves one account with its owning customer and full ledger.
func (r *AccountRepository) FindByNumber(ctx context.Context, number string) (*domain.Account, error) {
	row := runner(ctx, r.pool).QueryRow(ctx, accountSelect+` WHERE a.account_number = $1`, number)
	account, err := r.scanAccount(ctx, row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, number)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// FindAll retrieves every account ordered by account number.
func (r *AccountRepository) FindAll(ctx context.Context) ([]*domain.Account, error) {
	return r.findMany(ctx, accountSelect+` ORDER BY a.account_number`)
}

// FindByCustomerID retrieves the accounts owned by one customer in opening
// order.
func (r *AccountRepository) FindByCustomerID(ctx context.Context, customerID string) ([]*domain.Account, error) {
	return r.findMany(ctx, accountSelect+` WHERE a.customer_id = $1 ORDER BY a.account_number`, customerID)
}

// UpdateBalance mirrors the registry account's current balance and employer
// details to the backing row.
func (r *AccountRepository) UpdateBalance(ctx context.Context, account *domain.Account) error {
	query := `
		UPDATE accounts
		SET balance = $2, company_name = $3, company_address = $4
		WHERE account_number = $1
	`
	tag, err := runner(ctx, r.pool).Exec(ctx, query,
		account.Number,
		account.Balance(),
		account.CompanyName(),
		account.CompanyAddress(),
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, account.Number)
	}
	return nil
}

// Delete removes an account row. The ledger rows cascade.
func (r *AccountRepository) Delete(ctx context.Context, number string) error {
	tag, err := runner(ctx, r.pool).Exec(ctx, `DELETE FROM accounts WHERE account_number = $1`, number)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, number)
	}
	return nil
}

// Exists reports whether an account row exists.
func (r *AccountRepository) Exists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := runner(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE account_number = $1)`, number).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return exists, nil
}

// CountByType counts open accounts of one variant.
func (r *AccountRepository) CountByType(ctx context.Context, accountType domain.AccountType) (int, error) {
	var count int
	err := runner(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM accounts WHERE account_type = $1`, string(accountType)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

const accountSelect = `
	SELECT a.account_number, a.account_type, a.balance, a.opening_balance,
	       a.branch, a.date_opened, a.company_name, a.company_address,
	       c.customer_id, c.first_name, c.surname, c.address, c.phone_number, c.email
	FROM accounts a
	JOIN customers c ON c.customer_id = a.customer_id`

func (r *AccountRepository) findMany(ctx context.Context, query string, args ...any) ([]*domain.Account, error) {
	rows, err := runner(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var out []*domain.Account
	for rows.Next() {
		account, err := r.scanAccount(ctx, rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		out = append(out, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}
	return out, nil
}

func (r *AccountRepository) scanAccount(ctx context.Context, row pgx.Row) (*domain.Account, error) {
	var (
		rec      domain.AccountRecord
		accType  string
		balance  decimal.Decimal
		opening  decimal.Decimal
		openedAt time.Time
		customer domain.Customer
	)
	err := row.Scan(
		&rec.Number,
		&accType,
		&balance,
		&opening,
		&rec.Branch,
		&openedAt,
		&rec.CompanyName,
		&rec.CompanyAddress,
		&customer.ID,
		&customer.FirstName,
		&customer.Surname,
		&customer.Address,
		&customer.Phone,
		&customer.Email,
	)
	if err != nil {
		return nil, err
	}

	ledger, err := r.transactions.FindByAccountNumber(ctx, rec.Number)
	if err != nil {
		return nil, err
	}

	rec.Type = domain.AccountType(accType)
	rec.Balance = balance
	rec.OpeningBalance = opening
	rec.OpenedAt = openedAt
	rec.Customer = &customer
	rec.Ledger = ledger
	return domain.RestoreAccount(rec)
}
