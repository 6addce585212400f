package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is the full DDL. Every statement is idempotent so Migrate can run at
// every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id VARCHAR(20) PRIMARY KEY,
		username VARCHAR(100) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id VARCHAR(20) PRIMARY KEY,
		first_name VARCHAR(100) NOT NULL,
		surname VARCHAR(100) NOT NULL,
		address VARCHAR(255) NOT NULL,
		phone_number VARCHAR(20),
		email VARCHAR(100)
	)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		account_number VARCHAR(20) PRIMARY KEY,
		customer_id VARCHAR(20) NOT NULL REFERENCES customers(customer_id),
		account_type VARCHAR(20) NOT NULL,
		balance NUMERIC(15,2) NOT NULL,
		opening_balance NUMERIC(15,2) NOT NULL,
		branch VARCHAR(100),
		date_opened TIMESTAMPTZ NOT NULL,
		company_name VARCHAR(100),
		company_address VARCHAR(255)
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		seq BIGSERIAL,
		transaction_id VARCHAR(40) PRIMARY KEY,
		account_number VARCHAR(20) NOT NULL REFERENCES accounts(account_number) ON DELETE CASCADE,
		transaction_type VARCHAR(20) NOT NULL,
		amount NUMERIC(15,2) NOT NULL,
		balance_after NUMERIC(15,2) NOT NULL,
		description VARCHAR(255),
		transaction_timestamp TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_accounts_customer ON accounts(customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account_number, seq)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
