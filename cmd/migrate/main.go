package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"

	"credential-service/backend/internal/config"
	"credential-service/backend/internal/db/migrate"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	direction := flag.String("direction", "up", "migration direction: up or down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	if err := migrate.Run(cfg.DatabaseURL, *direction); err != nil {
		logger.Fatal().Err(err).Str("direction", *direction).Msg("migration failed")
	}
	logger.Info().Str("direction", *direction).Msg("migrations applied")
}
