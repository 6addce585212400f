package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okavango-bank/corebank/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository using
// PostgreSQL. Ledger rows are append-only; the seq column fixes the
// insertion order a replay depends on.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Save appends one ledger entry.
func (r *TransactionRepository) Save(ctx context.Context, entry domain.Transaction) error {
	query := `
		INSERT INTO transactions (transaction_id, account_number, transaction_type,
		                          amount, balance_after, description, transaction_timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := runner(ctx, r.pool).Exec(ctx, query,
		entry.ID,
		entry.AccountNumber,
		string(entry.Type),
		entry.Amount,
		entry.BalanceAfter,
		entry.Description,
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// FindByAccountNumber retrieves an account's ledger in insertion order.
func (r *TransactionRepository) FindByAccountNumber(ctx context.Context, number string) ([]domain.Transaction, error) {
	query := `
		SELECT transaction_id, account_number, transaction_type,
		       amount, balance_after, description, transaction_timestamp
		FROM transactions
		WHERE account_number = $1
		ORDER BY seq
	`
	rows, err := runner(ctx, r.pool).Query(ctx, query, number)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var (
			entry  domain.Transaction
			txType string
		)
		err := rows.Scan(
			&entry.ID,
			&entry.AccountNumber,
			&txType,
			&entry.Amount,
			&entry.BalanceAfter,
			&entry.Description,
			&entry.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		entry.Type = domain.TransactionType(txType)
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return out, nil
}
