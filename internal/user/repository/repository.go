package repository

import (
	"context"
	"errors"

	"credential-service/backend/internal/user/domain"
)

// ErrDuplicateEmail is returned by Create when the email is already taken.
// It is raised by the storage layer's unique constraint, so concurrent
// registrations of the same email cannot both succeed.
var ErrDuplicateEmail = errors.New("duplicate email")

// Repository defines persistence for users. Lookup methods return only
// active users and report absence as (nil, nil), never as an error.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetCredentialsByEmail is like GetByEmail but includes the password
	// hash; it exists only for the authentication path.
	GetCredentialsByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	SetActive(ctx context.Context, id string, active bool) error
}
