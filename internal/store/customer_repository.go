package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okavango-bank/corebank/internal/domain"
)

// CustomerRepository implements domain.CustomerRepository using PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// Save inserts a customer row.
func (r *CustomerRepository) Save(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (customer_id, first_name, surname, address, phone_number, email)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := runner(ctx, r.pool).Exec(ctx, query,
		customer.ID,
		customer.FirstName,
		customer.Surname,
		customer.Address,
		customer.Phone,
		customer.Email,
	)
	if err != nil {
		return fmt.Errorf("failed to save customer: %w", err)
	}
	return nil
}

// FindByID retrieves one customer by identifier.
func (r *CustomerRepository) FindByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `
		SELECT customer_id, first_name, surname, address, phone_number, email
		FROM customers
		WHERE customer_id = $1
	`
	row := runner(ctx, r.pool).QueryRow(ctx, query, customerID)
	customer, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, customerID)
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

// FindAll retrieves every customer ordered by identifier.
func (r *CustomerRepository) FindAll(ctx context.Context) ([]*domain.Customer, error) {
	query := `
		SELECT customer_id, first_name, surname, address, phone_number, email
		FROM customers
		ORDER BY customer_id
	`
	rows, err := runner(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()
	return collectCustomers(rows)
}

// Update replaces a customer's identity and contact fields.
func (r *CustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	query := `
		UPDATE customers
		SET first_name = $2, surname = $3, address = $4, phone_number = $5, email = $6
		WHERE customer_id = $1
	`
	tag, err := runner(ctx, r.pool).Exec(ctx, query,
		customer.ID,
		customer.FirstName,
		customer.Surname,
		customer.Address,
		customer.Phone,
		customer.Email,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, customer.ID)
	}
	return nil
}

// Delete removes a customer row.
func (r *CustomerRepository) Delete(ctx context.Context, customerID string) error {
	tag, err := runner(ctx, r.pool).Exec(ctx, `DELETE FROM customers WHERE customer_id = $1`, customerID)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, customerID)
	}
	return nil
}

// Exists reports whether a customer row exists.
func (r *CustomerRepository) Exists(ctx context.Context, customerID string) (bool, error) {
	var exists bool
	err := runner(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM customers WHERE customer_id = $1)`, customerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check customer existence: %w", err)
	}
	return exists, nil
}

// SearchByName finds customers whose first name or surname contains the term,
// case-insensitively.
func (r *CustomerRepository) SearchByName(ctx context.Context, term string) ([]*domain.Customer, error) {
	query := `
		SELECT customer_id, first_name, surname, address, phone_number, email
		FROM customers
		WHERE first_name ILIKE '%' || $1 || '%'
		   OR surname ILIKE '%' || $1 || '%'
		ORDER BY customer_id
	`
	rows, err := runner(ctx, r.pool).Query(ctx, query, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	defer rows.Close()
	return collectCustomers(rows)
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var customer domain.Customer
	err := row.Scan(
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
	return &customer, nil
}

func collectCustomers(rows pgx.Rows) ([]*domain.Customer, error) {
	var out []*domain.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		out = append(out, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read customers: %w", err)
	}
	return out, nil
}
