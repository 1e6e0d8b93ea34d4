package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	DatabaseURL string
	// AdminDatabaseURL connects with the role allowed to create accounts.
	AdminDatabaseURL string

	RedisURL string

	JWTSecret       string
	JWTAccessExpiry time.Duration

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOUseSSL    bool
	ArchiveBucket  string

	CORSOrigins string

	ResendAPIKey  string
	FromEmail     string
	PublicBaseURL string

	ChatWebhookURL string
	ChatTimeout    time.Duration

	WebhookSecret string

	DeadlineScanSchedule string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DatabaseURL:      getEnv("DATABASE_URL", ""),
		AdminDatabaseURL: getEnv("ADMIN_DATABASE_URL", getEnv("DATABASE_URL", "")),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: getDurationEnv("JWT_ACCESS_EXPIRY", 15*time.Minute),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOUseSSL:    getBoolEnv("MINIO_USE_SSL", false),
		ArchiveBucket:  getEnv("ARCHIVE_BUCKET", "vcs-webhooks"),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		ResendAPIKey:  getEnv("RESEND_API_KEY", ""),
		FromEmail:     getEnv("FROM_EMAIL", "noreply@example.com"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),

		ChatWebhookURL: getEnv("CHAT_WEBHOOK_URL", ""),
		ChatTimeout:    getDurationEnv("CHAT_TIMEOUT", 10*time.Second),

		WebhookSecret: getEnv("WEBHOOK_SECRET", ""),

		DeadlineScanSchedule: getEnv("DEADLINE_SCAN_SCHEDULE", "0 8 * * *"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
