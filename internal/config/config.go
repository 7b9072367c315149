package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Port          string
	DatabaseURL   string
	RedisURL      string
	JWTSecret     string
	TokenTTL      time.Duration
	PublicBaseURL string

	// Per-IP request budgets for abuse-prone public endpoints, per minute.
	ContributionRateLimit int
	ApplicationRateLimit  int
	LoginRateLimit        int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		RedisURL:              getEnv("REDIS_URL", ""),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		TokenTTL:              time.Duration(getEnvInt("TOKEN_TTL_HOURS", 72)) * time.Hour,
		PublicBaseURL:         getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		ContributionRateLimit: getEnvInt("CONTRIBUTION_RATE_LIMIT", 30),
		ApplicationRateLimit:  getEnvInt("APPLICATION_RATE_LIMIT", 5),
		LoginRateLimit:        getEnvInt("LOGIN_RATE_LIMIT", 20),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
