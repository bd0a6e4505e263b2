package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

var envKeys = []string{
	"FOLIO_CONFIG", "PORT", "GITHUB_USER", "GITHUB_TOKEN", "MEDIUM_USER", "BLOG_SOURCE",
	"DATABASE_URL", "SESSION_SECRET", "LOG_FORMAT", "OWNER_NAME", "OWNER_EMAIL",
	"EMAILJS_SERVICE_ID", "EMAILJS_PUBLIC_KEY", "EMAILJS_PRIVATE_KEY",
	"EMAILJS_AUTOREPLY_TEMPLATE", "EMAILJS_NOTIFY_TEMPLATE", "CORS_ALLOWED_ORIGINS",
	"REFRESH_INTERVAL", "CONTACT_RATE_LIMIT", "SECURE_COOKIES",
}

// cleanEnv blanks every setting so the host environment cannot leak into a test
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func minimalEnv(t *testing.T) {
	t.Helper()
	cleanEnv(t)
	t.Setenv("GITHUB_USER", "ada")
	t.Setenv("MEDIUM_USER", "ada.writes")
	t.Setenv("SESSION_SECRET", secret)
}

func TestLoad_Defaults(t *testing.T) {
	minimalEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "proxy", cfg.Medium.Source)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 15*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 5, cfg.ContactRateLimit)
	assert.Equal(t, "ada", cfg.Site.Owner)
	assert.Equal(t, "ada - Portfolio", cfg.Site.Title)
	assert.False(t, cfg.ContactConfigured())
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	minimalEnv(t)

	path := filepath.Join(t.TempDir(), "folio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
site:
  owner: Ada Lovelace
  owner_email: ada@example.com
github:
  user: from-file
medium:
  user: from-file
  source: rss
refresh_interval: 30m
cors_allowed_origins:
  - https://ada.dev
emailjs:
  service_id: svc
  public_key: pub
  autoreply_template: reply
  notify_template: notify
`), 0o600))

	t.Setenv("FOLIO_CONFIG", path)
	t.Setenv("PORT", "7000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.dev, https://b.dev,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "ada", cfg.GitHub.User)
	assert.Equal(t, "rss", cfg.Medium.Source)
	assert.Equal(t, "Ada Lovelace", cfg.Site.Owner)
	assert.Equal(t, "ada@example.com", cfg.Site.OwnerEmail)
	assert.Equal(t, 30*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, []string{"https://a.dev", "https://b.dev"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.ContactConfigured())
}

func TestLoad_Base64Secrets(t *testing.T) {
	minimalEnv(t)
	t.Setenv("SESSION_SECRET", "base64:"+base64.StdEncoding.EncodeToString([]byte(secret)))
	t.Setenv("GITHUB_TOKEN", "base64:"+base64.StdEncoding.EncodeToString([]byte("ghp_$pecial")))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, secret, cfg.SessionSecret)
	assert.Equal(t, "ghp_$pecial", cfg.GitHub.Token)

	t.Setenv("GITHUB_TOKEN", "base64:!!!")
	_, err = Load()
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorContains(t, err, "GITHUB_TOKEN")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{name: "missing github user", env: map[string]string{"GITHUB_USER": ""}, wantErr: ErrMissing},
		{name: "missing medium user", env: map[string]string{"MEDIUM_USER": ""}, wantErr: ErrMissing},
		{name: "missing session secret", env: map[string]string{"SESSION_SECRET": ""}, wantErr: ErrMissing},
		{name: "short session secret", env: map[string]string{"SESSION_SECRET": "short"}, wantErr: ErrInvalid},
		{name: "unknown blog source", env: map[string]string{"BLOG_SOURCE": "atom"}, wantErr: ErrInvalid},
		{name: "unknown log format", env: map[string]string{"LOG_FORMAT": "xml"}, wantErr: ErrInvalid},
		{name: "bad refresh interval", env: map[string]string{"REFRESH_INTERVAL": "soon"}, wantErr: ErrInvalid},
		{name: "refresh interval too short", env: map[string]string{"REFRESH_INTERVAL": "5s"}, wantErr: ErrInvalid},
		{name: "bad rate limit", env: map[string]string{"CONTACT_RATE_LIMIT": "many"}, wantErr: ErrInvalid},
		{name: "bad secure cookies", env: map[string]string{"SECURE_COOKIES": "maybe"}, wantErr: ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			minimalEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	minimalEnv(t)
	t.Setenv("FOLIO_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.ErrorContains(t, err, "failed to read config file")
}
