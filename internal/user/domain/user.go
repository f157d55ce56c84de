package domain

import (
	"errors"
	"strings"
	"time"
)

// User is the core user entity. PasswordHash is populated only on the
// credential-fetch path inside the account store and must never be exposed
// to callers outside it.
type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeEmail lowercases and trims an email address. Emails are stored and
// compared in normalized form only.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.FullName == "" {
		return errors.New("full name is required")
	}
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.Email != NormalizeEmail(u.Email) {
		return errors.New("email must be normalized")
	}
	return nil
}
