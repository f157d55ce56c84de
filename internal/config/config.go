// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8000).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// JWTSecretKey is the HMAC signing secret; required when JWT_ALGORITHM is HS256.
	JWTSecretKey string `mapstructure:"JWT_SECRET_KEY"`
	// JWTPrivateKey is the PEM-encoded private key (RSA or ECDSA) or path to file; required for RS256/ES256.
	JWTPrivateKey string `mapstructure:"JWT_PRIVATE_KEY"`
	// JWTPublicKey is the PEM-encoded public key or path to file; required for RS256/ES256.
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY"`
	// JWTAlgorithm is the token signing algorithm: HS256 (default), RS256, or ES256.
	JWTAlgorithm string `mapstructure:"JWT_ALGORITHM"`
	// JWTAccessTTL is the access token lifetime (e.g. "30m").
	JWTAccessTTL string `mapstructure:"JWT_ACCESS_TTL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// DBPoolMinConns is the minimum number of pooled Postgres connections.
	DBPoolMinConns int `mapstructure:"DB_POOL_MIN_CONNS"`
	// DBPoolMaxConns is the maximum number of pooled Postgres connections.
	DBPoolMaxConns int `mapstructure:"DB_POOL_MAX_CONNS"`
	// CORSAllowedOrigins is a comma-separated list of allowed origins; "*" allows any.
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8000")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET_KEY", "")
	v.SetDefault("JWT_PRIVATE_KEY", "")
	v.SetDefault("JWT_PUBLIC_KEY", "")
	v.SetDefault("JWT_ALGORITHM", "HS256")
	v.SetDefault("JWT_ACCESS_TTL", "30m")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("DB_POOL_MIN_CONNS", 1)
	v.SetDefault("DB_POOL_MAX_CONNS", 20)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}

	switch cfg.JWTAlgorithm {
	case "HS256", "RS256", "ES256":
	default:
		return nil, fmt.Errorf("config: JWT_ALGORITHM must be HS256, RS256, or ES256, got %q", cfg.JWTAlgorithm)
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	if cfg.DBPoolMaxConns < 1 {
		return nil, errors.New("config: DB_POOL_MAX_CONNS must be at least 1")
	}
	if cfg.DBPoolMinConns < 0 || cfg.DBPoolMinConns > cfg.DBPoolMaxConns {
		return nil, errors.New("config: DB_POOL_MIN_CONNS must be between 0 and DB_POOL_MAX_CONNS")
	}

	return &cfg, nil
}

// AccessTTL parses JWTAccessTTL as a time.Duration. Returns 30m if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTAccessTTL)
	if err != nil || d <= 0 {
		return 30 * time.Minute
	}
	return d
}

// CORSAllowedOriginsList returns allowed origins from the comma-separated config.
// An empty list disables CORS headers entirely.
func (c *Config) CORSAllowedOriginsList() []string {
	if c == nil || c.CORSAllowedOrigins == "" {
		return nil
	}
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
