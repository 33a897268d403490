package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	ServiceName string
	Version     string
	Environment string
	LogLevel    string
	LogFormat   string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// JWTSecret signs and verifies the HS256 tokens the gateway issues.
	JWTSecret string
	JWTIssuer string

	// TokenCacheSize and TokenCacheTTL bound the verified-token cache.
	TokenCacheSize int
	TokenCacheTTL  time.Duration

	// RateLimit is requests per minute per client IP. 0 disables limiting.
	RateLimit int

	// DeadLetterPath is where undeliverable bus events are persisted.
	DeadLetterPath string

	// AuditRetentionDays controls audit_log cleanup.
	AuditRetentionDays int
}

// Load loads the configuration from environment variables.
// A .env file is honored when present but not required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName: getEnv("SERVICE_NAME", "gamify"),
		Version:     getEnv("VERSION", "dev"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),

		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "gamify"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "gamify-auth"),

		DeadLetterPath: getEnv("DEAD_LETTER_PATH", "deadletter.jsonl"),
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = getEnvInt("RATE_LIMIT_PER_MINUTE", 120); err != nil {
		return nil, err
	}
	if cfg.TokenCacheSize, err = getEnvInt("TOKEN_CACHE_SIZE", 1024); err != nil {
		return nil, err
	}
	if cfg.AuditRetentionDays, err = getEnvInt("AUDIT_RETENTION_DAYS", 90); err != nil {
		return nil, err
	}

	ttlSeconds, err := getEnvInt("TOKEN_CACHE_TTL_SECONDS", 300)
	if err != nil {
		return nil, err
	}
	cfg.TokenCacheTTL = time.Duration(ttlSeconds) * time.Second

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable must be set")
	}

	return cfg, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return n, nil
}
