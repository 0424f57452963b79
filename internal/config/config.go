package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// DefaultJWTSecret is used when JWT_SECRET is unset. It is refused in production.
const DefaultJWTSecret = "defaultsecret"

// TokenTTL is the fixed lifetime of issued session tokens.
const TokenTTL = 2 * time.Hour

var ErrDefaultSecretInProduction = errors.New("JWT_SECRET must be set in production environment")

// Config is built once at startup and passed explicitly to the components that need it.
type Config struct {
	Port            string
	Env             string
	DatabaseDSN     string
	JWTSecret       string
	JWTExpiry       time.Duration
	LogLevel        slog.Level
	ShutdownTimeout time.Duration
}

// IsProduction reports whether the service runs with ENV=production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "5000"),
		Env:         getEnv("ENV", "development"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),
		JWTSecret:   getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTExpiry:   TokenTTL,
	}

	level, err := parseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	timeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout = timeout

	if cfg.IsProduction() && cfg.JWTSecret == DefaultJWTSecret {
		return Config{}, ErrDefaultSecretInProduction
	}

	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
