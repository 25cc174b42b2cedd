package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Supabase
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseJWTSecret     string
	SupabaseStorageBucket string

	// Database (migrations and change notifications)
	DatabaseURL string

	// Board
	PreferenceSaveDelay time.Duration
	RestoreWindowDays   int
	WorkspaceIdleTTL    time.Duration

	// Logging
	LogLevel  string
	SentryDSN string

	// Server
	Port        string
	Environment string
}

func Load() (*Config, error) {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := &Config{
		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseJWTSecret:     getEnv("SUPABASE_JWT_SECRET", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "lead-photos"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		PreferenceSaveDelay: getDuration("PREFERENCE_SAVE_DELAY", 500*time.Millisecond),
		RestoreWindowDays:   getInt("RESTORE_WINDOW_DAYS", 30),
		WorkspaceIdleTTL:    getDuration("WORKSPACE_IDLE_TTL", 30*time.Minute),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		SentryDSN: getEnv("SENTRY_DSN", ""),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}
	if c.SupabaseJWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	if c.RestoreWindowDays <= 0 {
		return fmt.Errorf("RESTORE_WINDOW_DAYS must be positive")
	}
	return nil
}

func (c *Config) RestoreWindow() time.Duration {
	return time.Duration(c.RestoreWindowDays) * 24 * time.Hour
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
