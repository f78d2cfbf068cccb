package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Database
	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPort      string
	DBSSLMode   string

	// Auth
	JWTSecret      string
	SessionTTL     time.Duration
	LoginRateLimit int
	LoginWindow    time.Duration

	// Cache
	RedisURL string
	CacheTTL time.Duration

	CorsAllowedOrigins []string

	Media MediaConfig
}

type MediaConfig struct {
	Driver    string
	Dir       string
	PublicURL string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool

	MaxBytes int64
}

// Load reads the process environment, after merging an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function so tests can supply a map.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		value := strings.TrimSpace(getenv(key))
		if value == "" {
			return fallback
		}
		return value
	}

	cfg := &Config{
		Port:        get("PORT", "8080"),
		Env:         get("APP_ENV", "development"),
		LogLevel:    get("LOG_LEVEL", "info"),
		DBDriver:    get("DB_DRIVER", "postgres"),
		DatabaseURL: get("DATABASE_URL", ""),
		DBHost:      get("DB_HOST", "localhost"),
		DBUser:      get("DB_USER", "postgres"),
		DBPassword:  get("DB_PASSWORD", ""),
		DBName:      get("DB_NAME", "blogcms"),
		DBPort:      get("DB_PORT", "5432"),
		DBSSLMode:   get("DB_SSLMODE", "disable"),
		JWTSecret:   get("JWT_SECRET_KEY", ""),
		RedisURL:    get("REDIS_URL", ""),

		CorsAllowedOrigins: splitCSV(get("CORS_ALLOWED_ORIGINS", "*")),

		Media: MediaConfig{
			Driver:      strings.ToLower(get("MEDIA_DRIVER", "fs")),
			Dir:         get("MEDIA_DIR", "./uploads"),
			PublicURL:   strings.TrimRight(get("MEDIA_PUBLIC_URL", ""), "/"),
			S3Bucket:    get("MEDIA_S3_BUCKET", ""),
			S3Region:    get("MEDIA_S3_REGION", "us-east-1"),
			S3Endpoint:  get("MEDIA_S3_ENDPOINT", ""),
			S3PathStyle: strings.EqualFold(get("MEDIA_S3_PATH_STYLE", "false"), "true"),
		},
	}

	var err error
	if cfg.SessionTTL, err = time.ParseDuration(get("SESSION_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	if cfg.CacheTTL, err = time.ParseDuration(get("CACHE_TTL", "30m")); err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	if cfg.LoginWindow, err = time.ParseDuration(get("LOGIN_RATE_WINDOW", "1m")); err != nil {
		return nil, fmt.Errorf("invalid LOGIN_RATE_WINDOW: %w", err)
	}
	if cfg.Media.MaxBytes, err = strconv.ParseInt(get("MEDIA_MAX_BYTES", "5242880"), 10, 64); err != nil || cfg.Media.MaxBytes <= 0 {
		return nil, fmt.Errorf("invalid MEDIA_MAX_BYTES: %q", getenv("MEDIA_MAX_BYTES"))
	}
	if cfg.LoginRateLimit, err = strconv.Atoi(get("LOGIN_RATE_LIMIT", "5")); err != nil || cfg.LoginRateLimit <= 0 {
		return nil, fmt.Errorf("invalid LOGIN_RATE_LIMIT: %q", getenv("LOGIN_RATE_LIMIT"))
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY is required")
	}
	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	switch cfg.Media.Driver {
	case "fs":
	case "s3":
		if cfg.Media.S3Bucket == "" {
			return nil, fmt.Errorf("MEDIA_S3_BUCKET is required for the s3 media driver")
		}
	default:
		return nil, fmt.Errorf("unsupported MEDIA_DRIVER %q", cfg.Media.Driver)
	}

	return cfg, nil
}

// IsProduction reports whether APP_ENV selects production behaviour.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// PostgresDSN returns DATABASE_URL when set, otherwise a key/value DSN built
// from the DB_* variables.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s application_name=blogcms",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
