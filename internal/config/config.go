package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName      string
	AppEnv       string
	AppURL       string
	Port         string
	FounderEmail string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret     string
	JWTExpiry     time.Duration
	OAuthStateTTL time.Duration

	// OAuth. A provider with missing credentials is disabled entirely;
	// its login routes report unavailable rather than half-working.
	GoogleClientID       string
	GoogleClientSecret   string
	LinkedInClientID     string
	LinkedInClientSecret string
	OAuthRedirectURL     string

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string

	// Photo storage (S3-compatible: MinIO, AWS S3, R2, Spaces)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string
	S3PresignExpiry time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		AppName:      envString("APP_NAME", "Tingles"),
		AppEnv:       envRequired("APP_ENV"), // 'development' or 'production'
		AppURL:       envRequired("APP_URL"),
		Port:         envString("PORT", "8090"),
		FounderEmail: envString("FOUNDER_EMAIL", ""),

		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/tingles.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		JWTSecret:     envRequired("JWT_SECRET"),
		JWTExpiry:     envDuration("JWT_EXPIRY", 168*time.Hour),
		OAuthStateTTL: envDuration("OAUTH_STATE_TTL", 10*time.Minute),

		GoogleClientID:       envString("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   envString("GOOGLE_CLIENT_SECRET", ""),
		LinkedInClientID:     envString("LINKEDIN_CLIENT_ID", ""),
		LinkedInClientSecret: envString("LINKEDIN_CLIENT_SECRET", ""),
		OAuthRedirectURL:     envString("OAUTH_REDIRECT_URL", ""),

		EmailFrom:    envString("EMAIL_FROM", "noreply@tingles.app"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		SentryDSN: envString("SENTRY_DSN", ""),

		S3Region:        envString("S3_REGION", ""),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 24*time.Hour),
	}

	// The redirect URI must byte-for-byte match the one registered with the
	// providers, so it is configured explicitly rather than derived.
	if cfg.OAuthRedirectURL == "" {
		cfg.OAuthRedirectURL = cfg.AppURL + "/auth/callback"
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures required services are configured for production
// deployments. Development allows fallback modes for easier local testing.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
	if cfg.FounderEmail == "" {
		slog.Error("production deployment requires FOUNDER_EMAIL")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) PhotoStorageConfigured() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// Sanitized returns a copy with only public-safe fields: no secrets, no
// credentials. Safe to put in request context.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:      c.AppName,
		AppEnv:       c.AppEnv,
		AppURL:       c.AppURL,
		Port:         c.Port,
		EmailFrom:    c.EmailFrom,
		FounderEmail: c.FounderEmail,

		GoogleClientID:   c.GoogleClientID,
		LinkedInClientID: c.LinkedInClientID,
		OAuthRedirectURL: c.OAuthRedirectURL,
	}
}
