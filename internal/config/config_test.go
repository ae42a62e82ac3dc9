package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/goalvoice/internal/config"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "development")

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/api/v1", cfg.APIPrefix())
	assert.Equal(t, 5*time.Second, cfg.RelayTimeout)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.ExtractFirstMatchOnly)
	assert.False(t, cfg.ArchiveEnabled())
}

func TestFromEnv_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestFromEnv_RelayURLFallback(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("RELAY_WEBHOOK_URL", "")
	t.Setenv("PIPEDREAM_WEBHOOK_URL", "https://relay.example.com/hook")

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://relay.example.com/hook", cfg.RelayWebhookURL)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("API_VERSION", "v2")
	t.Setenv("RELAY_TIMEOUT", "2s")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("EXTRACT_FIRST_MATCH_ONLY", "true")
	t.Setenv("RELAY_WEBHOOK_URL", "https://relay.example.com")

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/api/v2", cfg.APIPrefix())
	assert.Equal(t, 2*time.Second, cfg.RelayTimeout)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.True(t, cfg.ExtractFirstMatchOnly)
}

func TestFromEnv_ArchiveNeedsBucket(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("TRANSCRIPT_ARCHIVE", "true")
	t.Setenv("S3_BUCKET", "")

	_, err := config.FromEnv()
	assert.ErrorContains(t, err, "S3_BUCKET")
}

func TestFromEnv_ProductionSecretLength(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("APP_ENV", "production")

	_, err := config.FromEnv()
	assert.ErrorContains(t, err, "32 characters")
}

func TestSanitized_DropsSecrets(t *testing.T) {
	cfg := &config.Config{
		AppName:            "Goalvoice",
		JWTSecret:          "secret",
		RelaySigningSecret: "whsec",
		S3SecretKey:        "s3",
	}

	safe := cfg.Sanitized()
	assert.Equal(t, "Goalvoice", safe.AppName)
	assert.Empty(t, safe.JWTSecret)
	assert.Empty(t, safe.RelaySigningSecret)
	assert.Empty(t, safe.S3SecretKey)
}
