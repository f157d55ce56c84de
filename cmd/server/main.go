package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	authservice "credential-service/backend/internal/auth/service"
	"credential-service/backend/internal/config"
	"credential-service/backend/internal/db"
	"credential-service/backend/internal/security"
	"credential-service/backend/internal/server"
	"credential-service/backend/internal/user/repository"
	userservice "credential-service/backend/internal/user/service"
)

func main() {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.DatabaseURL == "" {
		logger.Fatal().Msg("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Open(ctx, cfg.DatabaseURL, cfg.DBPoolMinConns, cfg.DBPoolMaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	tokens, err := newTokenProvider(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build token provider")
	}

	users := userservice.NewStore(repository.NewPostgresRepository(pool), security.NewHasher(cfg.BcryptCost))
	sessions := authservice.NewService(users, tokens)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.NewRouter(sessions, cfg.CORSAllowedOriginsList(), logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Str("jwt_alg", cfg.JWTAlgorithm).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
}

func newLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("APP_ENV") == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return logger
}

// newTokenProvider picks the signing setup from config: HS256 with a shared
// secret, or RS256/ES256 with a PEM key pair.
func newTokenProvider(cfg *config.Config) (*security.TokenProvider, error) {
	ttl := cfg.AccessTTL()
	if cfg.JWTAlgorithm == "HS256" {
		if cfg.JWTSecretKey == "" {
			return nil, errors.New("JWT_SECRET_KEY is required for HS256")
		}
		return security.NewHMACTokenProvider([]byte(cfg.JWTSecretKey), ttl)
	}
	priv, pub, alg, err := security.ParseKeyPair(cfg.JWTPrivateKey, cfg.JWTPublicKey)
	if err != nil {
		return nil, err
	}
	if alg != cfg.JWTAlgorithm {
		return nil, fmt.Errorf("JWT_ALGORITHM is %s but the configured keys are for %s", cfg.JWTAlgorithm, alg)
	}
	return security.NewKeyTokenProvider(priv, pub, ttl)
}
