package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, sourced from the environment.
// A .env file in the working directory is loaded first if present.
type Config struct {
	Port       string
	DBPath     string
	LogLevel   string
	SessionTTL time.Duration
}

func Load() *Config {
	// Missing .env is fine; real deployments set env vars directly.
	_ = godotenv.Load()

	return &Config{
		Port:       getEnv("MESSBOOK_PORT", "8080"),
		DBPath:     getEnv("MESSBOOK_DB_PATH", "messbook.db"),
		LogLevel:   getEnv("MESSBOOK_LOG_LEVEL", "info"),
		SessionTTL: time.Duration(getEnvInt("MESSBOOK_SESSION_TTL_HOURS", 24*30)) * time.Hour,
	}
}

func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("invalid port %q: must be a number", c.Port)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
