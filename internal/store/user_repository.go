package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okavango-bank/corebank/internal/crypto"
	"github.com/okavango-bank/corebank/internal/domain"
)

// UserRepository implements domain.UserRepository using PostgreSQL. Loaded
// users verify credentials with the password hashing scheme in
// internal/crypto.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Save inserts a user row.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (user_id, username, password_hash, role)
		VALUES ($1, $2, $3, $4)
	`
	_, err := runner(ctx, r.pool).Exec(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		string(user.Role),
	)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// FindByID retrieves one user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, username, password_hash, role
		FROM users
		WHERE user_id = $1
	`
	var (
		id, username, hash, role string
	)
	err := runner(ctx, r.pool).QueryRow(ctx, query, userID).Scan(&id, &username, &hash, &role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return domain.NewUser(id, username, hash, domain.Role(role), crypto.VerifyPassword), nil
}

// Update replaces a user's mutable fields.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET username = $2, password_hash = $3, role = $4
		WHERE user_id = $1
	`
	tag, err := runner(ctx, r.pool).Exec(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		string(user.Role),
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, user.ID)
	}
	return nil
}

// Delete removes a user row.
func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	tag, err := runner(ctx, r.pool).Exec(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	return nil
}

// Exists reports whether a user row exists.
func (r *UserRepository) Exists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := runner(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}
