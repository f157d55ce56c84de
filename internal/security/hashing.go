package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMalformedDigest is returned by Verify when the stored digest is not a
// valid bcrypt hash. A corrupted digest is an internal failure, not a wrong
// password; callers must not map it to an authentication outcome.
var ErrMalformedDigest = errors.New("malformed password digest")

// Hasher hashes and verifies passwords using bcrypt. Each hash embeds a fresh
// random salt, so no separate salt storage is needed. Callers must not log or
// persist plaintext passwords.
type Hasher struct {
	Cost int
}

// NewHasher returns a Hasher with the given bcrypt cost (4–31). Cost 12 is a
// reasonable default for interactive login.
func NewHasher(cost int) *Hasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{Cost: cost}
}

// Hash produces a bcrypt digest of password with a freshly generated salt.
// Returns the digest as a string suitable for storage.
func (h *Hasher) Hash(password []byte) (string, error) {
	b, err := bcrypt.GenerateFromPassword(password, h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify checks password against the stored digest using constant-time
// comparison. Returns (false, nil) on mismatch and (false, ErrMalformedDigest)
// when the digest itself cannot be parsed.
func (h *Hasher) Verify(digest string, password []byte) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), password)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", ErrMalformedDigest, err)
}
