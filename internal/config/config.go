// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// ErrMissingSessionSecret is returned by Validate when no secret is set.
var ErrMissingSessionSecret = errors.New("AURA_SESSION_SECRET is required")

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"AURA_DB_PATH" envDefault:"./data/aura.db"`
	SessionSecret string `env:"AURA_SESSION_SECRET"`
	ServerHost    string `env:"AURA_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"AURA_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"AURA_ENV" envDefault:"development"`
	LogLevel      string `env:"AURA_LOG_LEVEL" envDefault:"info"`
	SiteName      string `env:"AURA_SITE_NAME" envDefault:"Aura Digital Agency"`
	SiteURL       string `env:"AURA_SITE_URL"` // Public base URL for sitemap.xml; request host is used when empty

	// Block all crawlers in robots.txt (staging sites)
	RobotsDisallowAll bool `env:"AURA_ROBOTS_DISALLOW_ALL" envDefault:"false"`

	// Cache configuration
	RedisURL     string        `env:"AURA_REDIS_URL"`                       // Optional Redis URL for dashboard counters
	CachePrefix  string        `env:"AURA_CACHE_PREFIX" envDefault:"aura:"` // Redis key prefix
	CacheTTL     time.Duration `env:"AURA_CACHE_TTL" envDefault:"60s"`
	CacheMaxSize int           `env:"AURA_CACHE_MAX_SIZE" envDefault:"1000"`

	// GeoIP configuration
	GeoIPDBPath string `env:"AURA_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Outgoing mail for contact form notifications
	SMTPHost     string        `env:"AURA_SMTP_HOST"`
	SMTPPort     int           `env:"AURA_SMTP_PORT" envDefault:"587"`
	SMTPUsername string        `env:"AURA_SMTP_USERNAME"`
	SMTPPassword string        `env:"AURA_SMTP_PASSWORD"`
	SMTPTimeout  time.Duration `env:"AURA_SMTP_TIMEOUT" envDefault:"10s"`
	SMTPTLS      string        `env:"AURA_SMTP_TLS" envDefault:"starttls"` // starttls, mandatory, ssl or none
	MailFrom     string        `env:"AURA_MAIL_FROM"`
	NotifyTo     string        `env:"AURA_NOTIFY_TO"`

	// Visitor sessions idle longer than this are finalized by the scheduler
	SessionIdleTimeout time.Duration `env:"AURA_VISITOR_IDLE_TIMEOUT" envDefault:"30m"`
	// Event log entries older than this are pruned
	EventRetention time.Duration `env:"AURA_EVENT_RETENTION" envDefault:"2160h"`

	// Bootstrap admin, used by the create-admin command
	AdminUsername string `env:"AURA_ADMIN_USERNAME" envDefault:"admin"`
	AdminEmail    string `env:"AURA_ADMIN_EMAIL"`
	AdminPassword string `env:"AURA_ADMIN_PASSWORD"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// MailEnabled returns true when SMTP delivery of notifications is configured.
func (c Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.MailFrom != "" && c.NotifyTo != ""
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings the HTTP server depends on.
func (c Config) Validate() error {
	if c.SessionSecret == "" {
		return ErrMissingSessionSecret
	}

	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("AURA_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return errors.New("AURA_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(c.SessionSecret) {
		slog.Warn("AURA_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return c.validateMail()
}

// SMTP transport security modes accepted by AURA_SMTP_TLS.
const (
	SMTPTLSStartTLS  = "starttls"
	SMTPTLSMandatory = "mandatory"
	SMTPTLSImplicit  = "ssl"
	SMTPTLSNone      = "none"
)

func (c Config) validateMail() error {
	if c.MailFrom != "" {
		if _, err := mail.ParseAddress(c.MailFrom); err != nil {
			return fmt.Errorf("AURA_MAIL_FROM is not a valid address: %w", err)
		}
	}
	if c.NotifyTo != "" {
		if _, err := mail.ParseAddressList(c.NotifyTo); err != nil {
			return fmt.Errorf("AURA_NOTIFY_TO is not a valid address list: %w", err)
		}
	}
	switch c.SMTPTLS {
	case "", SMTPTLSStartTLS, SMTPTLSMandatory, SMTPTLSImplicit, SMTPTLSNone:
	default:
		return fmt.Errorf("AURA_SMTP_TLS must be one of starttls, mandatory, ssl or none, got %q", c.SMTPTLS)
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	classes := []string{
		"abcdefghijklmnopqrstuvwxyz",
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ",
		"0123456789",
		"!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\",
	}
	n := 0
	for _, set := range classes {
		if strings.ContainsAny(s, set) {
			n++
		}
	}
	return n >= 3
}
