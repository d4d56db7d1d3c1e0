package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all service configuration loaded from environment variables.
// It is built once at startup and never mutated; the signing secret and
// algorithm cannot be rotated without a restart.
type Config struct {
	Port          string
	DatabaseURI   string
	SecretKey     string
	Algorithm     string
	TokenLifetime time.Duration
}

func Load() *Config {
	minutes, err := strconv.Atoi(getenv("ACCESS_TOKEN_EXPIRE_MINUTES", "30"))
	if err != nil || minutes <= 0 {
		minutes = 30
	}
	return &Config{
		Port:          getenv("PORT", "8080"),
		DatabaseURI:   getenv("DATABASE_URI", ""),
		SecretKey:     getenv("SECRET_KEY", ""),
		Algorithm:     getenv("ALGORITHM", "HS256"),
		TokenLifetime: time.Duration(minutes) * time.Minute,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
