// Package config loads server settings from an optional YAML file overlaid by
// environment variables.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort             = "8080"
	defaultRefreshInterval  = 15 * time.Minute
	defaultContactRateLimit = 5
	minSessionSecretLength  = 32
)

var (
	// ErrMissing is returned when a required setting is empty
	ErrMissing = errors.New("required setting is missing")

	// ErrInvalid is returned when a setting has an unusable value
	ErrInvalid = errors.New("invalid setting")
)

// Config holds every server setting.
type Config struct {
	Site               Site          `yaml:"site"`
	GitHub             GitHub        `yaml:"github"`
	Medium             Medium        `yaml:"medium"`
	EmailJS            EmailJS       `yaml:"emailjs"`
	Port               string        `yaml:"port"`
	DatabaseURL        string        `yaml:"database_url"`
	SessionSecret      string        `yaml:"session_secret"`
	LogFormat          string        `yaml:"log_format"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	RefreshInterval    time.Duration `yaml:"refresh_interval"`
	ContactRateLimit   int           `yaml:"contact_rate_limit"` // submissions per client per minute
	SecureCookies      bool          `yaml:"secure_cookies"`
}

// Site describes the page owner
type Site struct {
	Owner       string `yaml:"owner"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	OwnerEmail  string `yaml:"owner_email"`
}

// GitHub configures the repository feed
type GitHub struct {
	User  string `yaml:"user"`
	Token string `yaml:"token"`
}

// Medium configures the post feed
type Medium struct {
	User   string `yaml:"user"`
	Source string `yaml:"source"` // proxy or rss
}

// EmailJS holds the contact relay account
type EmailJS struct {
	ServiceID         string `yaml:"service_id"`
	PublicKey         string `yaml:"public_key"`
	PrivateKey        string `yaml:"private_key"`
	AutoReplyTemplate string `yaml:"autoreply_template"`
	NotifyTemplate    string `yaml:"notify_template"`
}

// Load reads the file named by FOLIO_CONFIG (if set), applies environment
// overrides and defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if path := os.Getenv("FOLIO_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.decodeSecrets(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	override(&c.Port, "PORT")
	override(&c.GitHub.User, "GITHUB_USER")
	override(&c.GitHub.Token, "GITHUB_TOKEN")
	override(&c.Medium.User, "MEDIUM_USER")
	override(&c.Medium.Source, "BLOG_SOURCE")
	override(&c.DatabaseURL, "DATABASE_URL")
	override(&c.SessionSecret, "SESSION_SECRET")
	override(&c.LogFormat, "LOG_FORMAT")
	override(&c.Site.Owner, "OWNER_NAME")
	override(&c.Site.OwnerEmail, "OWNER_EMAIL")
	override(&c.EmailJS.ServiceID, "EMAILJS_SERVICE_ID")
	override(&c.EmailJS.PublicKey, "EMAILJS_PUBLIC_KEY")
	override(&c.EmailJS.PrivateKey, "EMAILJS_PRIVATE_KEY")
	override(&c.EmailJS.AutoReplyTemplate, "EMAILJS_AUTOREPLY_TEMPLATE")
	override(&c.EmailJS.NotifyTemplate, "EMAILJS_NOTIFY_TEMPLATE")

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.CORSAllowedOrigins = splitList(origins)
	}

	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: REFRESH_INTERVAL: %w", ErrInvalid, err)
		}
		c.RefreshInterval = d
	}
	if v := os.Getenv("CONTACT_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: CONTACT_RATE_LIMIT: %w", ErrInvalid, err)
		}
		c.ContactRateLimit = n
	}
	if v := os.Getenv("SECURE_COOKIES"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: SECURE_COOKIES: %w", ErrInvalid, err)
		}
		c.SecureCookies = secure
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Port == "" {
		c.Port = defaultPort
	}
	if c.Medium.Source == "" {
		c.Medium.Source = "proxy"
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
	}
	if c.RefreshInterval == 0 {
		c.RefreshInterval = defaultRefreshInterval
	}
	if c.ContactRateLimit == 0 {
		c.ContactRateLimit = defaultContactRateLimit
	}
	if c.Site.Owner == "" {
		c.Site.Owner = c.GitHub.User
	}
	if c.Site.Title == "" {
		c.Site.Title = c.Site.Owner + " - Portfolio"
	}
	if c.Site.Description == "" {
		c.Site.Description = "Projects and writing by " + c.Site.Owner
	}
}

// decodeSecrets expands base64:-prefixed secrets, wherever they were set
func (c *Config) decodeSecrets() error {
	secrets := map[string]*string{
		"GITHUB_TOKEN":        &c.GitHub.Token,
		"SESSION_SECRET":      &c.SessionSecret,
		"EMAILJS_PRIVATE_KEY": &c.EmailJS.PrivateKey,
		"DATABASE_URL":        &c.DatabaseURL,
	}
	for name, value := range secrets {
		decoded, err := decodeBase64OrPlain(name, *value)
		if err != nil {
			return err
		}
		*value = decoded
	}
	return nil
}

// Validate checks required settings and enumerations
func (c *Config) Validate() error {
	switch {
	case c.GitHub.User == "":
		return fmt.Errorf("%w: GITHUB_USER", ErrMissing)
	case c.Medium.User == "":
		return fmt.Errorf("%w: MEDIUM_USER", ErrMissing)
	case c.SessionSecret == "":
		return fmt.Errorf("%w: SESSION_SECRET", ErrMissing)
	case len(c.SessionSecret) < minSessionSecretLength:
		return fmt.Errorf("%w: SESSION_SECRET must be at least %d bytes", ErrInvalid, minSessionSecretLength)
	case c.Medium.Source != "proxy" && c.Medium.Source != "rss":
		return fmt.Errorf("%w: BLOG_SOURCE must be proxy or rss, got %q", ErrInvalid, c.Medium.Source)
	case c.LogFormat != "json" && c.LogFormat != "text":
		return fmt.Errorf("%w: LOG_FORMAT must be json or text, got %q", ErrInvalid, c.LogFormat)
	case c.RefreshInterval < time.Minute:
		return fmt.Errorf("%w: refresh interval must be at least 1m, got %s", ErrInvalid, c.RefreshInterval)
	case c.ContactRateLimit < 1:
		return fmt.Errorf("%w: contact rate limit must be positive", ErrInvalid)
	}
	return nil
}

// ContactConfigured reports whether every EmailJS setting needed to relay is present
func (c *Config) ContactConfigured() bool {
	e := c.EmailJS
	return e.ServiceID != "" && e.PublicKey != "" && e.AutoReplyTemplate != "" && e.NotifyTemplate != ""
}

func override(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// decodeBase64OrPlain returns value decoded when it carries a "base64:" prefix.
// This allows secrets with special characters to be stored safely in env files.
func decodeBase64OrPlain(name, value string) (string, error) {
	encoded, ok := strings.CutPrefix(value, "base64:")
	if !ok {
		return value, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64 encoding for %s: %w", ErrInvalid, name, err)
	}
	return string(decoded), nil
}
