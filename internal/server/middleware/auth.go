package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	authservice "credential-service/backend/internal/auth/service"
	"credential-service/backend/internal/user/domain"
)

const bearerPrefix = "bearer "

// Resolver turns a bearer token into the active user it identifies.
// Implemented by the session façade.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

// RequireAuth returns a middleware that validates the Authorization Bearer
// token and sets the resolved user in the request context. Requests with a
// missing, malformed, expired, or otherwise unacceptable token get 401; the
// response body never says which of those it was. Resolver failures that are
// not an authentication verdict (e.g. the database being unreachable) get
// 500 so clients do not discard a still-valid token.
func RequireAuth(sessions Resolver, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)
			if token == "" {
				unauthorized(w)
				return
			}
			u, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				if errors.Is(err, authservice.ErrUnauthenticated) {
					unauthorized(w)
					return
				}
				logger.Error().Err(err).Msg("token resolution failed")
				internalError(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// extractBearer returns the Bearer token from the Authorization header, or "" if missing or malformed.
func extractBearer(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "missing or invalid authorization"})
}

func internalError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}
