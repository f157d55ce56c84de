// Seeds a development user so the API is usable immediately after migration.
// Safe to run repeatedly.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"

	"credential-service/backend/internal/config"
	"credential-service/backend/internal/db"
	"credential-service/backend/internal/security"
	"credential-service/backend/internal/user/repository"
	userservice "credential-service/backend/internal/user/service"
)

const (
	seedName     = "Dev User"
	seedEmail    = "dev@example.com"
	seedPassword = "devpassword"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.DatabaseURL == "" {
		logger.Fatal().Msg("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.Open(ctx, cfg.DatabaseURL, cfg.DBPoolMinConns, cfg.DBPoolMaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	store := userservice.NewStore(repository.NewPostgresRepository(pool), security.NewHasher(cfg.BcryptCost))

	u, err := store.Create(ctx, seedName, seedEmail, seedPassword)
	if err != nil {
		if errors.Is(err, userservice.ErrEmailAlreadyRegistered) {
			logger.Info().Str("email", seedEmail).Msg("seed user already exists")
			return
		}
		logger.Fatal().Err(err).Msg("failed to create seed user")
	}
	logger.Info().Str("user_id", u.ID).Str("email", u.Email).Msg("seed user created")
}
