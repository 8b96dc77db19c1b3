package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is built once at process start and passed to every component that needs it
type Config struct {
	Server    ServerConfig
	Advice    AdviceConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Email     EmailConfig
	Retention RetentionConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	Environment    string // development, staging, production
	GinMode        string
	MaxBodyBytes   int64
	AllowedOrigins []string
}

// AdviceConfig holds the connection parameters of the AI advice backend.
type AdviceConfig struct {
	// BaseURL is the backend endpoint, e.g. https://ai.example.com
	BaseURL string
	// BotID selects the assistant on the backend
	BotID string
	// APIKey is sent as a bearer credential
	APIKey string
	// Timeout bounds a single outbound call
	Timeout time.Duration
	// MaxRetries is the number of extra attempts after the first (0 = single attempt)
	MaxRetries int
	// RetryBaseDelay is the first backoff interval, doubled on each retry
	RetryBaseDelay time.Duration
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string
}

// AuthConfig holds parent token settings.
// An empty JWTSecret disables authentication.
type AuthConfig struct {
	JWTSecret string
}

// Enabled returns true if bearer authentication is required on /api routes
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != ""
}

// StorageConfig selects where uploaded meal photos are stored.
type StorageConfig struct {
	Driver    string // local or s3
	UploadDir string
	S3Bucket  string
	S3Region  string
}

// EmailConfig holds SES settings for advice digests.
// An empty FromEmail disables digests.
type EmailConfig struct {
	FromEmail string
	Region    string
}

// Enabled returns true if advice digests can be sent
func (e EmailConfig) Enabled() bool {
	return e.FromEmail != ""
}

// RetentionConfig controls cleanup of stored daily logs.
type RetentionConfig struct {
	// Days of history to keep; 0 keeps everything
	Days int
}

// Storage drivers
const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

// DefaultAdviceTimeout is the upper bound on a single call to the advice backend
const DefaultAdviceTimeout = 30 * time.Second

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load reads configuration from the environment.
// A .env file is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []error

	maxBody, err := getInt64OrDefault("MAX_BODY_BYTES", 10<<20)
	if err != nil {
		errs = append(errs, err)
	}

	cfg.Server = ServerConfig{
		Port:           getEnvOrDefault("PORT", "8080"),
		Environment:    getEnvOrDefault("APP_ENV", "development"),
		GinMode:        getEnvOrDefault("GIN_MODE", "release"),
		MaxBodyBytes:   maxBody,
		AllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
	}

	timeout, err := getDurationOrDefault("ADVICE_TIMEOUT", DefaultAdviceTimeout)
	if err != nil {
		errs = append(errs, err)
	}
	maxRetries, err := getIntOrDefault("ADVICE_MAX_RETRIES", 0)
	if err != nil {
		errs = append(errs, err)
	}
	retryDelay, err := getDurationOrDefault("ADVICE_RETRY_BASE_DELAY", 500*time.Millisecond)
	if err != nil {
		errs = append(errs, err)
	}

	cfg.Advice = AdviceConfig{
		BaseURL:        strings.TrimRight(os.Getenv("ADVICE_API_BASE_URL"), "/"),
		BotID:          os.Getenv("ADVICE_BOT_ID"),
		APIKey:         os.Getenv("ADVICE_API_KEY"),
		Timeout:        timeout,
		MaxRetries:     maxRetries,
		RetryBaseDelay: retryDelay,
	}

	cfg.Database = DatabaseConfig{
		Path: getEnvOrDefault("DATABASE_PATH", "./data/kidwell.db"),
	}

	cfg.Auth = AuthConfig{
		JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
	}

	cfg.Storage = StorageConfig{
		Driver:    strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", StorageDriverLocal)),
		UploadDir: getEnvOrDefault("UPLOAD_DIR", "./data/uploads"),
		S3Bucket:  os.Getenv("S3_BUCKET"),
		S3Region:  getEnvOrDefault("S3_REGION", os.Getenv("AWS_REGION")),
	}

	cfg.Email = EmailConfig{
		FromEmail: os.Getenv("EMAIL_FROM"),
		Region:    getEnvOrDefault("AWS_REGION", "us-east-1"),
	}

	retentionDays, err := getIntOrDefault("RECORD_RETENTION_DAYS", 0)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.Retention = RetentionConfig{Days: retentionDays}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration parsing failed:\n%w", errors.Join(errs...))
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that all required configuration is present and valid.
func (c *Config) validate() error {
	var errs []error

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.Server.Environment] {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of: development, staging, production (got: %s)", c.Server.Environment))
	}

	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("MAX_BODY_BYTES must be positive"))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must list at least one origin"))
	}

	// The advice backend endpoint and assistant are required; the API key is
	// checked per request so a missing key surfaces as an authentication failure.
	if c.Advice.BaseURL == "" {
		errs = append(errs, errors.New("ADVICE_API_BASE_URL is required"))
	} else if u, err := url.Parse(c.Advice.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("ADVICE_API_BASE_URL must be an absolute URL (got: %s)", c.Advice.BaseURL))
	}
	if c.Advice.BotID == "" {
		errs = append(errs, errors.New("ADVICE_BOT_ID is required"))
	}
	if c.Advice.Timeout <= 0 {
		errs = append(errs, errors.New("ADVICE_TIMEOUT must be positive"))
	}
	if c.Advice.MaxRetries < 0 || c.Advice.MaxRetries > 5 {
		errs = append(errs, errors.New("ADVICE_MAX_RETRIES must be between 0 and 5"))
	}

	if c.Auth.Enabled() {
		secret, err := base64.StdEncoding.DecodeString(c.Auth.JWTSecret)
		if err != nil {
			errs = append(errs, fmt.Errorf("AUTH_JWT_SECRET must be base64 encoded: %w", err))
		} else if len(secret) < 32 {
			errs = append(errs, errors.New("AUTH_JWT_SECRET must decode to at least 32 bytes"))
		}
	}

	switch c.Storage.Driver {
	case StorageDriverLocal:
		if c.Storage.UploadDir == "" {
			errs = append(errs, errors.New("UPLOAD_DIR is required when STORAGE_DRIVER=local"))
		}
	case StorageDriverS3:
		if c.Storage.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required when STORAGE_DRIVER=s3"))
		}
		if c.Storage.S3Region == "" {
			errs = append(errs, errors.New("S3_REGION or AWS_REGION is required when STORAGE_DRIVER=s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be one of: local, s3 (got: %s)", c.Storage.Driver))
	}

	if c.Retention.Days < 0 {
		errs = append(errs, errors.New("RECORD_RETENTION_DAYS cannot be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%w", errors.Join(errs...))
	}

	return nil
}

// getEnvOrDefault returns the env value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getInt64OrDefault(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
