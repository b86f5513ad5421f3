// Package config provides configuration management for the application.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application.
type Config struct {
	// AWS
	AWSRegion string

	// Model artifacts
	ModelDir       string
	ModelBundleS3  string // bucket holding the artifact bundle; empty = local only
	ModelBundleKey string // key prefix of the bundle in the bucket

	// Policy
	PolicyFile string // optional YAML overriding the built-in policy tables

	// Database
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	// Redis
	RedisAddr     string
	RedisPassword string
	CacheTTLHours int

	// SES
	SESSenderEmail string
	AlertRecipient string

	// Application
	Stage    string
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	cfg := &Config{
		// AWS
		AWSRegion: getEnv("AWS_REGION", "us-east-1"),

		// Model artifacts
		ModelDir:       getEnv("MODEL_DIR", "./artifacts"),
		ModelBundleS3:  getEnv("MODEL_BUNDLE_S3_BUCKET", ""),
		ModelBundleKey: getEnv("MODEL_BUNDLE_S3_PREFIX", "models/latest"),

		// Policy
		PolicyFile: getEnv("POLICY_FILE", ""),

		// Database
		DBHost:     getEnv("DB_HOST", getEnv("CHURN_DB_HOST", "localhost")),
		DBPort:     getEnvInt("DB_PORT", getEnvInt("CHURN_DB_PORT", 5432)),
		DBName:     getEnv("DB_NAME", getEnv("CHURN_DB_NAME", "churn_retention")),
		DBUser:     getEnv("DB_USER", getEnv("CHURN_DB_USER", "postgres")),
		DBPassword: getEnv("DB_PASSWORD", getEnv("CHURN_DB_PASSWORD", "")),

		// Redis
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		CacheTTLHours: getEnvInt("CACHE_TTL_HOURS", 24),

		// SES
		SESSenderEmail: getEnv("SES_SENDER_EMAIL", ""),
		AlertRecipient: getEnv("RETENTION_ALERT_RECIPIENT", ""),

		// Application
		Stage:    getEnv("STAGE", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// DatabaseURL returns the PostgreSQL connection string.
func (c *Config) DatabaseURL() string {
	sslMode := "require" // Use SSL for RDS
	if c.DBHost == "localhost" || c.DBHost == "127.0.0.1" {
		sslMode = "disable" // Disable SSL for local development
	}
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + strconv.Itoa(c.DBPort) + "/" + c.DBName + "?sslmode=" + sslMode
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as int or returns a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
