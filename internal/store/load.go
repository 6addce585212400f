package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/okavango-bank/corebank/internal/domain"
)

// LoadBank rebuilds the registry from the store: customers first, then
// accounts linked to the already-loaded customer objects, each with its full
// ledger. The registry's identifier counters advance past every loaded
// sequence, so identifiers issued after a restart never collide with
// persisted ones.
func LoadBank(ctx context.Context, pool *pgxpool.Pool, bank *domain.Bank) error {
	customers := NewCustomerRepository(pool)
	transactions := NewTransactionRepository(pool)

	all, err := customers.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load customers: %w", err)
	}
	byID := make(map[string]*domain.Customer, len(all))
	for _, customer := range all {
		if err := bank.LoadCustomer(customer); err != nil {
			return fmt.Errorf("load customer %s: %w", customer.ID, err)
		}
		byID[customer.ID] = customer
	}

	query := `
		SELECT account_number, customer_id, account_type, balance, opening_balance,
		       branch, date_opened, company_name, company_address
		FROM accounts
		ORDER BY account_number
	`
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	defer rows.Close()

	type accountRow struct {
		rec        domain.AccountRecord
		customerID string
	}
	var loaded []accountRow
	for rows.Next() {
		var (
			row      accountRow
			accType  string
			balance  decimal.Decimal
			opening  decimal.Decimal
			openedAt time.Time
		)
		err := rows.Scan(
			&row.rec.Number,
			&row.customerID,
			&accType,
			&balance,
			&opening,
			&row.rec.Branch,
			&openedAt,
			&row.rec.CompanyName,
			&row.rec.CompanyAddress,
		)
		if err != nil {
			return fmt.Errorf("scan account: %w", err)
		}
		row.rec.Type = domain.AccountType(accType)
		row.rec.Balance = balance
		row.rec.OpeningBalance = opening
		row.rec.OpenedAt = openedAt
		loaded = append(loaded, row)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read accounts: %w", err)
	}

	for _, row := range loaded {
		customer, ok := byID[row.customerID]
		if !ok {
			return fmt.Errorf("account %s references unknown customer %s", row.rec.Number, row.customerID)
		}
		ledger, err := transactions.FindByAccountNumber(ctx, row.rec.Number)
		if err != nil {
			return fmt.Errorf("load ledger for %s: %w", row.rec.Number, err)
		}
		row.rec.Customer = customer
		row.rec.Ledger = ledger

		account, err := domain.RestoreAccount(row.rec)
		if err != nil {
			return fmt.Errorf("restore account %s: %w", row.rec.Number, err)
		}
		if err := account.VerifyLedger(); err != nil {
			return fmt.Errorf("ledger verification failed for %s: %w", row.rec.Number, err)
		}
		if err := bank.LoadAccount(account); err != nil {
			return fmt.Errorf("load account %s: %w", row.rec.Number, err)
		}
	}
	return nil
}
