package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultDBDriver     = "sqlite"
	DefaultDBConnection = "./data/goalvoice.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"
)

type Config struct {
	// Application
	AppName    string
	AppEnv     string
	AppURL     string
	Port       string
	APIVersion string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret   string
	JWTExpiry   time.Duration
	CORSOrigins []string

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string

	// Voice pipeline
	VoiceWebhookSecret    string // empty: inbound signatures are not checked
	RelayWebhookURL       string // empty: notifications are attempted and logged as unconfigured
	RelayTimeout          time.Duration
	RelaySigningSecret    string
	ExtractFirstMatchOnly bool
	TranscriptArchive     bool

	// Storage (S3-compatible, only needed for transcript archiving)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
}

// Load reads the configuration and exits the process when it is unusable.
func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	return cfg
}

// FromEnv builds a Config from the process environment.
func FromEnv() (*Config, error) {
	var missing []string
	required := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := &Config{
		// Application
		AppName:    envString("APP_NAME", "Goalvoice"),
		AppEnv:     envString("APP_ENV", "development"),
		AppURL:     envString("APP_URL", "http://localhost:8090"),
		Port:       envString("PORT", "8090"),
		APIVersion: envString("API_VERSION", "v1"),

		// Database
		DBDriver:     envString("DB_DRIVER", DefaultDBDriver),
		DBConnection: envString("DB_CONNECTION", DefaultDBConnection),

		// Security
		JWTSecret:   required("JWT_SECRET"),
		JWTExpiry:   envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days
		CORSOrigins: envList("CORS_ORIGINS", []string{"*"}),

		// Email (RESEND_API_KEY optional, welcome mail is skipped without it)
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Voice pipeline
		VoiceWebhookSecret:    envString("VOICE_WEBHOOK_SECRET", ""),
		RelayWebhookURL:       envString("RELAY_WEBHOOK_URL", envString("PIPEDREAM_WEBHOOK_URL", "")),
		RelayTimeout:          envDuration("RELAY_TIMEOUT", 5*time.Second),
		RelaySigningSecret:    envString("RELAY_SIGNING_SECRET", ""),
		ExtractFirstMatchOnly: envBool("EXTRACT_FIRST_MATCH_ONLY", false),
		TranscriptArchive:     envBool("TRANSCRIPT_ARCHIVE", false),

		// Storage
		S3Region:    envString("S3_REGION", "us-east-1"),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""), // Optional: for non-AWS providers
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required env vars missing: %s", strings.Join(missing, ", "))
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	var errs []error

	if c.DBDriver != "sqlite" && c.DBDriver != "pgx" {
		errs = append(errs, fmt.Errorf("DB_DRIVER must be sqlite or pgx, got %q", c.DBDriver))
	}

	if c.TranscriptArchive && c.S3Bucket == "" {
		errs = append(errs, errors.New("TRANSCRIPT_ARCHIVE requires S3_BUCKET"))
	}

	if c.RelayTimeout <= 0 {
		errs = append(errs, errors.New("RELAY_TIMEOUT must be positive"))
	}

	// Production: stricter secrets, no silent fallbacks
	if c.IsProduction() {
		if len(c.JWTSecret) < 32 {
			errs = append(errs, errors.New("production deployment requires JWT_SECRET of at least 32 characters"))
		}
		if c.VoiceWebhookSecret == "" {
			slog.Warn("VOICE_WEBHOOK_SECRET not set, voice webhooks are accepted unsigned")
		}
	}

	return errors.Join(errs...)
}

// ArchiveEnabled reports whether transcripts should be uploaded to object storage.
func (c *Config) ArchiveEnabled() bool {
	return c.TranscriptArchive && c.S3Bucket != ""
}

// APIPrefix is the path prefix of every versioned endpoint, e.g. /api/v1.
func (c *Config) APIPrefix() string {
	return "/api/" + c.APIVersion
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
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

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	var out []string
	for part := range strings.SplitSeq(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy of the config with only public/safe fields.
// All secrets and credentials are excluded, so it is safe to log.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:    c.AppName,
		AppEnv:     c.AppEnv,
		AppURL:     c.AppURL,
		Port:       c.Port,
		APIVersion: c.APIVersion,

		DBDriver:    c.DBDriver,
		JWTExpiry:   c.JWTExpiry,
		CORSOrigins: c.CORSOrigins,
		EmailFrom:   c.EmailFrom,

		RelayTimeout:          c.RelayTimeout,
		ExtractFirstMatchOnly: c.ExtractFirstMatchOnly,
		TranscriptArchive:     c.TranscriptArchive,

		S3Region:   c.S3Region,
		S3Bucket:   c.S3Bucket,
		S3Endpoint: c.S3Endpoint,
	}
}
