package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string

	// Database. Empty selects a local SQLite file.
	DatabaseURL string

	// Redis, used to cache computed schedule results. Empty disables caching.
	RedisURL string

	// RabbitMQ, used to publish domain events. Empty disables publishing.
	RabbitMQURL string

	// Cache
	ResultCacheTTL time.Duration

	// Default working week, "mon-fri" or "continuous".
	DefaultCalendar string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:          getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RedisURL:        getEnv("REDIS_URL", ""),
		RabbitMQURL:     getEnv("RABBITMQ_URL", ""),
		ResultCacheTTL:  getDurationEnv("RESULT_CACHE_TTL", 15*time.Minute),
		DefaultCalendar: getEnv("GANTRY_DEFAULT_CALENDAR", "mon-fri"),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// DefaultSQLitePath returns the fallback database location used when
// DATABASE_URL is empty.
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "gantry.db"
	}
	return filepath.Join(home, ".gantry", "gantry.db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

