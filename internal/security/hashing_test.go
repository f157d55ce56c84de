package security

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	password := []byte("s3cret!")
	digest, err := h.Hash(password)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if digest == "" {
		t.Fatal("Hash returned empty digest")
	}
	ok, err := h.Verify(digest, password)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Error("Verify should accept the original password")
	}
}

func TestHasher_VerifyWrongPassword(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	digest, _ := h.Hash([]byte("s3cret!"))
	ok, err := h.Verify(digest, []byte("wrong"))
	if err != nil {
		t.Fatalf("Verify with wrong password should not error, got %v", err)
	}
	if ok {
		t.Error("Verify should reject a wrong password")
	}
}

func TestHasher_SaltUniqueness(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	password := []byte("same-password")
	d1, err := h.Hash(password)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	d2, err := h.Hash(password)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if d1 == d2 {
		t.Error("two hashes of the same password should differ (fresh salt per call)")
	}
	for _, d := range []string{d1, d2} {
		ok, err := h.Verify(d, password)
		if err != nil || !ok {
			t.Errorf("Verify(%q) = %v, %v; want true, nil", d, ok, err)
		}
	}
}

func TestHasher_MalformedDigest(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	for _, digest := range []string{"", "not-a-bcrypt-digest", "$2a$xx$garbage"} {
		ok, err := h.Verify(digest, []byte("whatever"))
		if ok {
			t.Errorf("Verify(%q) should not succeed", digest)
		}
		if !errors.Is(err, ErrMalformedDigest) {
			t.Errorf("Verify(%q) error = %v, want ErrMalformedDigest", digest, err)
		}
	}
}

func TestHasher_NoFalsePositives(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	// 32 passwords make 1024 digest/password cross-checks.
	const n = 32
	passwords := make([][]byte, n)
	digests := make([]string, n)
	for i := range passwords {
		b := make([]byte, 12)
		if _, err := rand.Read(b); err != nil {
			t.Fatalf("rand: %v", err)
		}
		passwords[i] = []byte(hex.EncodeToString(b))
		d, err := h.Hash(passwords[i])
		if err != nil {
			t.Fatalf("Hash: %v", err)
		}
		digests[i] = d
	}
	for i := range passwords {
		for j := range digests {
			ok, err := h.Verify(digests[j], passwords[i])
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if ok != (i == j) {
				t.Errorf("Verify(digest[%d], password[%d]) = %v", j, i, ok)
			}
		}
	}
}

func TestHasher_CostClamping(t *testing.T) {
	if h := NewHasher(12); h.Cost != 12 {
		t.Errorf("Cost want 12, got %d", h.Cost)
	}
	if h := NewHasher(0); h.Cost != bcrypt.DefaultCost {
		t.Errorf("zero cost should fall back to DefaultCost, got %d", h.Cost)
	}
	if h := NewHasher(100); h.Cost != bcrypt.MaxCost {
		t.Errorf("oversized cost should clamp to MaxCost, got %d", h.Cost)
	}
}
