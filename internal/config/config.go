package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrMissingJWTSecret is returned by Load when no signing secret is configured.
var ErrMissingJWTSecret = errors.New("missing JWT_SECRET in environment variables")

// Session revocation modes.
const (
	RevocationNone     = "none"
	RevocationRedis    = "redis"
	RevocationDatabase = "database"
)

// Config holds the application configuration.
type Config struct {
	ServerPort     int
	Environment    string // "production" enables Secure cookies and JSON logs
	LogLevel       string
	DatabaseDriver string // "sqlite" or "pgx"
	DatabaseURL    string
	JWTSecret      string
	AllowedOrigins []string

	SessionRevocation string
	RedisURL          string

	S3Bucket        string
	S3Region        string
	S3Endpoint      string // S3-compatible endpoint, empty for AWS
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string // Prefix for returned object URLs
	UploadMaxBytes  int64

	UnsplashAccessKey string
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	maxBytes, err := strconv.ParseInt(getEnv("UPLOAD_MAX_BYTES", "10485760"), 10, 64)
	if err != nil || maxBytes <= 0 {
		return nil, fmt.Errorf("invalid UPLOAD_MAX_BYTES %q", os.Getenv("UPLOAD_MAX_BYTES"))
	}

	cfg := &Config{
		ServerPort:        port,
		Environment:       getEnv("APP_ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DatabaseDriver:    getEnv("DATABASE_DRIVER", "sqlite"),
		DatabaseURL:       getEnv("DATABASE_URL", "./socialsync.db"),
		JWTSecret:         strings.TrimSpace(os.Getenv("JWT_SECRET")),
		AllowedOrigins:    splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		SessionRevocation: strings.ToLower(getEnv("SESSION_REVOCATION", RevocationNone)),
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379/0"),
		S3Bucket:          getEnv("S3_BUCKET", "socialsync-uploads"),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3AccessKey:       getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:       getEnv("S3_SECRET_KEY", ""),
		S3PublicBaseURL:   getEnv("S3_PUBLIC_BASE_URL", ""),
		UploadMaxBytes:    maxBytes,
		UnsplashAccessKey: getEnv("UNSPLASH_ACCESS_KEY", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the server cannot run without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	switch c.DatabaseDriver {
	case "sqlite", "pgx":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	switch c.SessionRevocation {
	case RevocationNone, RevocationRedis, RevocationDatabase:
	default:
		return fmt.Errorf("unsupported SESSION_REVOCATION %q", c.SessionRevocation)
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
