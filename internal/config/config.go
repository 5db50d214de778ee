package config

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	BlobBackendFS = "fs"
	BlobBackendS3 = "s3"
)

type Config struct {
	ServerPort  string `env:"SERVER_PORT" envDefault:"8000"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	DBMaxConns        int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns        int32         `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"10m"`
	DBMaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"5m"`
	RedisPoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RedisDialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`

	JWTSecret        string        `env:"JWT_SECRET"`
	JWTRefreshSecret string        `env:"JWT_REFRESH_SECRET"`
	AccessTokenTTL   time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"30m"`
	RefreshTokenTTL  time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
	ResetTokenTTL    time.Duration `env:"RESET_TOKEN_TTL" envDefault:"1h"`
	BcryptCost       int           `env:"BCRYPT_COST" envDefault:"12"`

	EmailAPIKey string `env:"EMAIL_SERVICE_API_KEY"`
	SenderEmail string `env:"SENDER_EMAIL" envDefault:"noreply@example.com"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	StaticFilesBaseURL string `env:"STATIC_FILES_BASE_URL" envDefault:"http://localhost:8000/static"`
	StaticDir          string `env:"STATIC_DIR" envDefault:"static"`
	BlobBackend        string `env:"BLOB_BACKEND" envDefault:"fs"`
	S3Bucket           string `env:"S3_BUCKET"`
	S3Region           string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint         string `env:"S3_ENDPOINT"`
	S3AccessKey        string `env:"S3_ACCESS_KEY"`
	S3SecretKey        string `env:"S3_SECRET_KEY"`
	S3UsePathStyle     bool   `env:"S3_USE_PATH_STYLE" envDefault:"false"`
	S3PublicBaseURL    string `env:"S3_PUBLIC_BASE_URL"`

	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string   `env:"LOG_FORMAT" envDefault:"json"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	// Validate required fields
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	if cfg.DBMaxConns <= 0 || cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		return nil, fmt.Errorf("invalid pool bounds: DB_MIN_CONNS=%d DB_MAX_CONNS=%d", cfg.DBMinConns, cfg.DBMaxConns)
	}

	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 || cfg.ResetTokenTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}

	cfg.BlobBackend = strings.ToLower(cfg.BlobBackend)
	switch cfg.BlobBackend {
	case BlobBackendFS:
	case BlobBackendS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("S3_BUCKET is required when BLOB_BACKEND is s3")
		}
	default:
		return nil, fmt.Errorf("invalid BLOB_BACKEND %q", cfg.BlobBackend)
	}

	return cfg, nil
}

// AccessSecret signs access tokens.
func (c *Config) AccessSecret() []byte {
	return []byte(c.JWTSecret)
}

// RefreshSecret signs refresh tokens. Without JWT_REFRESH_SECRET it is derived
// from JWT_SECRET so that access and refresh tokens never share a key.
func (c *Config) RefreshSecret() []byte {
	if c.JWTRefreshSecret != "" {
		return []byte(c.JWTRefreshSecret)
	}
	return DeriveSecret(c.JWTSecret, "refresh")
}

// ResetSecret signs password reset tokens.
func (c *Config) ResetSecret() []byte {
	return DeriveSecret(c.JWTSecret, "password-reset")
}

// S3PublicURL is the base URL objects are served from. Defaults to the
// path-style bucket URL on the configured endpoint.
func (c *Config) S3PublicURL() string {
	if c.S3PublicBaseURL != "" {
		return c.S3PublicBaseURL
	}
	if c.S3Endpoint != "" {
		return strings.TrimRight(c.S3Endpoint, "/") + "/" + c.S3Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.S3Bucket, c.S3Region)
}

// DeriveSecret returns HMAC-SHA256(secret, purpose).
func DeriveSecret(secret, purpose string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(purpose))
	return mac.Sum(nil)
}
