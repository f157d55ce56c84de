// Package service implements the account store: user creation,
// credential verification, and lookups over the user repository.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"credential-service/backend/internal/security"
	"credential-service/backend/internal/user/domain"
	"credential-service/backend/internal/user/repository"
)

// Sentinel errors for the account store; callers map them to their own taxonomy.
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidInput           = errors.New("invalid input")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Repo is the minimal user repository needed by the store.
type Repo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetCredentialsByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	SetActive(ctx context.Context, id string, active bool) error
}

// Store creates, authenticates, and looks up user accounts. Password hashing
// is delegated to the injected hasher; records returned by any method never
// carry a password hash.
type Store struct {
	repo   Repo
	hasher *security.Hasher
}

// NewStore returns a Store with the given dependencies.
func NewStore(repo Repo, hasher *security.Hasher) *Store {
	return &Store{repo: repo, hasher: hasher}
}

// Create registers a new user. The email is normalized to lowercase and the
// name trimmed before storage. Returns ErrEmailAlreadyRegistered when the
// email is taken, whether detected by the pre-insert check or by the storage
// unique constraint under a concurrent race.
func (s *Store) Create(ctx context.Context, fullName, email, password string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	fullName = strings.TrimSpace(fullName)
	if err := validateNewUser(fullName, email, password); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}

	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &domain.User{
		ID:           uuid.New().String(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: hashed,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, err
	}

	created := *u
	created.PasswordHash = ""
	return &created, nil
}

// Authenticate verifies an email/password pair. Returns (nil, nil) both when
// no active user has the email and when the password is wrong; the two cases
// are deliberately indistinguishable so callers cannot probe for accounts.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil
	}

	u, err := s.repo.GetCredentialsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}

	ok, err := s.hasher.Verify(u.PasswordHash, []byte(password))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	authed := *u
	authed.PasswordHash = ""
	return &authed, nil
}

// GetByID returns the active user for id, or nil if absent, inactive, or the
// id is not a well-formed UUID.
func (s *Store) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return s.repo.GetByID(ctx, id)
}

// GetByEmail returns the active user for the normalized email, or nil if absent or inactive.
func (s *Store) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.GetByEmail(ctx, domain.NormalizeEmail(email))
}

// Deactivate soft-deletes the user: the record stays but disappears from
// authentication, lookups, and token resolution.
func (s *Store) Deactivate(ctx context.Context, id string) error {
	return s.repo.SetActive(ctx, id, false)
}

func validateNewUser(fullName, email, password string) error {
	if fullName == "" {
		return fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	return nil
}
