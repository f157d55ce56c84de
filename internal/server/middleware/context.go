package middleware

import (
	"context"

	"credential-service/backend/internal/user/domain"
)

type contextKey struct{ name string }

var userKey = contextKey{"user"}

// WithUser returns a context carrying the authenticated user.
// Handlers read it back via UserFromContext.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the authenticated user from ctx, or nil if the
// request did not pass the auth middleware.
func UserFromContext(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userKey).(*domain.User)
	return u
}
