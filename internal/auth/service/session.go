// Package service implements the session façade: the register, login, and
// token-resolution operations composed from the account store and the token
// provider.
package service

import (
	"context"
	"errors"

	"credential-service/backend/internal/security"
	"credential-service/backend/internal/user/domain"
)

// Sentinel errors for the session façade; the HTTP layer maps them to status codes.
var (
	// ErrInvalidCredentials covers both "no such user" and "wrong password";
	// the two must stay indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated covers malformed, tampered, and expired tokens, and
	// structurally valid tokens whose user no longer exists or is inactive.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// AccountStore is the minimal account store needed by the session façade.
type AccountStore interface {
	Create(ctx context.Context, fullName, email, password string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// TokenProvider is the minimal token service needed by the session façade.
type TokenProvider interface {
	Issue(userID, email string) (*security.Bundle, error)
	Validate(token string) (*security.Claims, error)
}

// Service composes the account store and token provider into the three
// operations the transport layer needs.
type Service struct {
	accounts AccountStore
	tokens   TokenProvider
}

// NewService returns a Service with the given dependencies.
func NewService(accounts AccountStore, tokens TokenProvider) *Service {
	return &Service{accounts: accounts, tokens: tokens}
}

// Register creates an account and immediately issues an access token for it.
// Propagates the store's ErrEmailAlreadyRegistered unchanged; any other
// failure is an internal error.
func (s *Service) Register(ctx context.Context, fullName, email, password string) (*domain.User, *security.Bundle, error) {
	u, err := s.accounts.Create(ctx, fullName, email, password)
	if err != nil {
		return nil, nil, err
	}
	bundle, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, nil, err
	}
	return u, bundle, nil
}

// Login authenticates an email/password pair and issues an access token.
// Returns ErrInvalidCredentials when authentication fails for any reason the
// caller is allowed to see.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, *security.Bundle, error) {
	u, err := s.accounts.Authenticate(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}
	if u == nil {
		return nil, nil, ErrInvalidCredentials
	}
	bundle, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, nil, err
	}
	return u, bundle, nil
}

// Resolve validates a bearer token and returns the active user it identifies.
// A valid token whose user has since been deactivated or removed fails with
// ErrUnauthenticated exactly like an invalid token.
func (s *Service) Resolve(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) || errors.Is(err, security.ErrTokenInvalid) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	u, err := s.accounts.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUnauthenticated
	}
	return u, nil
}
