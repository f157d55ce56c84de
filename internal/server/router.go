// Package server wires the HTTP router: middleware stack, public endpoints,
// and the bearer-protected profile route.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	authservice "credential-service/backend/internal/auth/service"
	"credential-service/backend/internal/server/handlers"
	"credential-service/backend/internal/server/middleware"
)

// NewRouter assembles the full route tree.
func NewRouter(sessions *authservice.Service, corsOrigins []string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimid.Recoverer)
	r.Use(chimid.Timeout(30 * time.Second))
	r.Use(middleware.CORS(corsOrigins))
	r.Use(middleware.Prometheus)

	auth := handlers.NewAuthHandler(sessions, logger)

	r.Get("/", handlers.Root)
	r.Get("/health", handlers.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", auth.Register)
		r.Post("/login", auth.Login)
		r.With(middleware.RequireAuth(sessions, logger)).Get("/profile", auth.Profile)
	})

	return r
}

// requestLogger logs each request with method, path, status, and latency.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", chimid.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
