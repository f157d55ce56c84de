package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"credential-service/backend/internal/user/domain"
)

// uniqueViolation is the Postgres error code raised when an insert breaks a
// unique constraint.
const uniqueViolation = "23505"

type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns a user repository that uses the given pool for persistence.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// GetByID returns the active user for id, or nil if not found or inactive.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
		SELECT id, full_name, email, is_active, created_at, updated_at
		FROM users
		WHERE id = $1 AND is_active = TRUE`

	u := &domain.User{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.FullName, &u.Email, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// GetByEmail returns the active user with the given normalized email, or nil
// if not found or inactive. It returns an error only for database failures.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
		SELECT id, full_name, email, is_active, created_at, updated_at
		FROM users
		WHERE email = $1 AND is_active = TRUE`

	u := &domain.User{}
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.FullName, &u.Email, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// GetCredentialsByEmail returns the active user including the password hash,
// or nil if not found or inactive. Only the authentication path may use it.
func (r *PostgresRepository) GetCredentialsByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
		SELECT id, full_name, email, password_hash, is_active, created_at, updated_at
		FROM users
		WHERE email = $1 AND is_active = TRUE`

	u := &domain.User{}
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// Create persists the user inside a transaction. The user must have ID and
// timestamps set. Returns ErrDuplicateEmail when the unique email constraint
// rejects the insert; the transaction rolls back on any failure.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	const query = `
		INSERT INTO users (id, full_name, email, password_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, query,
		u.ID, u.FullName, u.Email, u.PasswordHash, u.IsActive, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateEmail
		}
		return err
	}
	return tx.Commit(ctx)
}

// SetActive updates the user's active flag and bumps updated_at. Setting a
// user inactive makes them invisible to all lookup and authentication paths.
func (r *PostgresRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `
		UPDATE users SET is_active = $2, updated_at = $3
		WHERE id = $1`

	_, err := r.pool.Exec(ctx, query, id, active, time.Now().UTC())
	return err
}
