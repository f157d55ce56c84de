package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"credential-service/backend/internal/security"
	"credential-service/backend/internal/user/domain"
	"credential-service/backend/internal/user/repository"
	userservice "credential-service/backend/internal/user/service"
)

type memRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
}

func newMemRepo() *memRepo {
	return &memRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (r *memRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok || !u.IsActive {
		return nil, nil
	}
	cp := *u
	cp.PasswordHash = ""
	return &cp, nil
}

func (r *memRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok || !u.IsActive {
		return nil, nil
	}
	cp := *u
	cp.PasswordHash = ""
	return &cp, nil
}

func (r *memRepo) GetCredentialsByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok || !u.IsActive {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[u.Email]; exists {
		return repository.ErrDuplicateEmail
	}
	cp := *u
	r.byID[u.ID] = &cp
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *memRepo) SetActive(ctx context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		u.IsActive = active
	}
	return nil
}

func newService(t *testing.T, ttl time.Duration) (*Service, *userservice.Store) {
	t.Helper()
	store := userservice.NewStore(newMemRepo(), security.NewHasher(bcrypt.MinCost))
	tokens, err := security.NewHMACTokenProvider([]byte("test-signing-secret"), ttl)
	if err != nil {
		t.Fatalf("NewHMACTokenProvider: %v", err)
	}
	return NewService(store, tokens), store
}

func TestRegisterAndResolve(t *testing.T) {
	svc, _ := newService(t, 30*time.Minute)
	ctx := context.Background()

	u, bundle, err := svc.Register(ctx, "Ada Lovelace", "ADA@X.COM", "s3cret!")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "ada@x.com" {
		t.Errorf("Email = %q, want ada@x.com", u.Email)
	}
	if u.PasswordHash != "" {
		t.Error("Register must not expose the password hash")
	}
	if bundle.TokenType != "bearer" {
		t.Errorf("TokenType = %q, want bearer", bundle.TokenType)
	}
	if bundle.ExpiresIn != 1800 {
		t.Errorf("ExpiresIn = %d, want 1800", bundle.ExpiresIn)
	}

	resolved, err := svc.Resolve(ctx, bundle.AccessToken)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.ID != u.ID || resolved.Email != "ada@x.com" {
		t.Errorf("Resolve = %+v, want the registered user", resolved)
	}
}

func TestRegister_DuplicatePropagates(t *testing.T) {
	svc, _ := newService(t, time.Hour)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "Ada Lovelace", "ada@x.com", "s3cret!"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, _, err := svc.Register(ctx, "Someone Else", "ada@x.com", "other")
	if !errors.Is(err, userservice.ErrEmailAlreadyRegistered) {
		t.Errorf("duplicate Register: got %v, want ErrEmailAlreadyRegistered", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newService(t, time.Hour)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "Ada Lovelace", "ada@x.com", "s3cret!"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	u, bundle, err := svc.Login(ctx, "ada@x.com", "s3cret!")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.Email != "ada@x.com" || bundle.AccessToken == "" {
		t.Errorf("Login = %+v / %+v", u, bundle)
	}
}

func TestLogin_InvalidCredentialsIndistinguishable(t *testing.T) {
	svc, _ := newService(t, time.Hour)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "Ada Lovelace", "ada@x.com", "s3cret!"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, errUnknown := svc.Login(ctx, "nobody@example.com", "x")
	_, _, errWrongPw := svc.Login(ctx, "ada@x.com", "wrong-password")

	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", errUnknown)
	}
	if !errors.Is(errWrongPw, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", errWrongPw)
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Error("the two failure modes must be indistinguishable")
	}
}

func TestResolve_ExpiredToken(t *testing.T) {
	svc, _ := newService(t, -time.Minute)
	ctx := context.Background()

	_, bundle, err := svc.Register(ctx, "Ada Lovelace", "ada@x.com", "s3cret!")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Resolve(ctx, bundle.AccessToken); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Resolve expired token: got %v, want ErrUnauthenticated", err)
	}
}

func TestResolve_TamperedToken(t *testing.T) {
	svc, _ := newService(t, time.Hour)
	ctx := context.Background()

	_, bundle, err := svc.Register(ctx, "Ada Lovelace", "ada@x.com", "s3cret!")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	parts := strings.Split(bundle.AccessToken, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := svc.Resolve(ctx, tampered); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Resolve tampered token: got %v, want ErrUnauthenticated", err)
	}
	if _, err := svc.Resolve(ctx, "garbage"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Resolve garbage token: got %v, want ErrUnauthenticated", err)
	}
}

func TestResolve_DeactivatedUser(t *testing.T) {
	svc, store := newService(t, time.Hour)
	ctx := context.Background()

	u, bundle, err := svc.Register(ctx, "Ada Lovelace", "ada@x.com", "s3cret!")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := store.Deactivate(ctx, u.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	// The token is still structurally valid and unexpired, but its user is gone.
	if _, err := svc.Resolve(ctx, bundle.AccessToken); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Resolve for deactivated user: got %v, want ErrUnauthenticated", err)
	}
}
