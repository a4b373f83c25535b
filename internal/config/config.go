package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration. It is loaded once at startup
// and passed by reference into constructors; nothing re-reads the
// environment after Load returns.
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Webhook       WebhookConfig
	HTTPClient    HTTPClientConfig
	ExternalAPI   ExternalAPIConfig
	ObjectStorage ObjectStorageConfig
	SMTP          SMTPConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// Configured reports whether a database connection string was provided
func (c DatabaseConfig) Configured() bool {
	return c.URL != ""
}

// WebhookConfig holds inbound signing and outbound forwarding settings
type WebhookConfig struct {
	SigningSecret   string
	ForwardEndpoint string
}

// HTTPClientConfig holds retry and timeout settings for outbound requests
type HTTPClientConfig struct {
	Timeout       time.Duration
	MaxRetries    int
	BackoffFactor time.Duration
}

// ExternalAPIConfig holds settings for the upstream processing API
type ExternalAPIConfig struct {
	BaseURL string
	APIKey  string
}

// ObjectStorageConfig holds S3 upload settings
type ObjectStorageConfig struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// SMTPConfig holds email notification settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether SMTP credentials were provided
func (c SMTPConfig) Enabled() bool {
	return c.Username != "" && c.Password != ""
}

// Load reads all environment variables. Optional values default or stay
// empty (the dependent feature is disabled at wiring time); malformed
// numeric values are the only load failures.
func Load() (*Config, error) {
	// Load .env in non-production environments; absence is fine
	if os.Getenv("GO_ENV") != "production" {
		_ = godotenv.Load()
	}

	cfg := &Config{}

	var err error
	serverPort := getEnvWithDefault("SERVER_PORT", "8080")
	cfg.Server.Port, err = strconv.Atoi(serverPort)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SERVER_PORT: %w", err)
	}

	cfg.Database.URL = os.Getenv("DATABASE_URL")

	cfg.Webhook.SigningSecret = os.Getenv("WEBHOOK_SECRET")
	cfg.Webhook.ForwardEndpoint = os.Getenv("WEBHOOK_ENDPOINT")

	timeoutSeconds := getEnvWithDefault("HTTP_TIMEOUT_SECONDS", "10")
	seconds, err := strconv.Atoi(timeoutSeconds)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTTP_TIMEOUT_SECONDS: %w", err)
	}
	cfg.HTTPClient.Timeout = time.Duration(seconds) * time.Second

	maxRetries := getEnvWithDefault("HTTP_MAX_RETRIES", "3")
	cfg.HTTPClient.MaxRetries, err = strconv.Atoi(maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTTP_MAX_RETRIES: %w", err)
	}

	backoffFactor := getEnvWithDefault("HTTP_BACKOFF_FACTOR", "0.5")
	factor, err := strconv.ParseFloat(backoffFactor, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTTP_BACKOFF_FACTOR: %w", err)
	}
	cfg.HTTPClient.BackoffFactor = time.Duration(factor * float64(time.Second))

	cfg.ExternalAPI.BaseURL = getEnvWithDefault("API_BASE_URL", "https://api.production-service.com/v1")
	cfg.ExternalAPI.APIKey = os.Getenv("API_KEY")

	cfg.ObjectStorage.Region = getEnvWithDefault("AWS_REGION", "us-east-1")
	cfg.ObjectStorage.Bucket = os.Getenv("S3_BUCKET")
	cfg.ObjectStorage.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	cfg.ObjectStorage.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")

	cfg.SMTP.Host = getEnvWithDefault("SMTP_HOST", "smtp.gmail.com")
	smtpPort := getEnvWithDefault("SMTP_PORT", "587")
	cfg.SMTP.Port, err = strconv.Atoi(smtpPort)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SMTP_PORT: %w", err)
	}
	cfg.SMTP.Username = os.Getenv("SMTP_USER")
	cfg.SMTP.Password = os.Getenv("SMTP_PASSWORD")
	cfg.SMTP.From = getEnvWithDefault("EMAIL_FROM", "noreply@example.com")

	return cfg, nil
}

// getEnvWithDefault retrieves an environment variable or returns a default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
