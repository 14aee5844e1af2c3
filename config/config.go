// Package config manages application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Account holds the credentials of one Kaltura account.
type Account struct {
	// PartnerID identifies the account.
	PartnerID int
	// AdminSecret authenticates admin sessions for the account.
	AdminSecret string
	// UserID is recorded as the acting user on sessions (optional).
	UserID string
}

// Configured reports whether the account carries usable credentials.
func (a Account) Configured() bool {
	return a.PartnerID != 0 && a.AdminSecret != ""
}

// Config holds all application configuration for admin operations.
type Config struct {
	// ServiceURL is the base URL of the Kaltura deployment.
	ServiceURL string
	// Source is the account commands operate on.
	Source Account
	// Dest is the target account for cross-account duplication (optional).
	Dest Account

	// Privileges for admin sessions; empty uses the client default.
	Privileges string
	// SessionExpiry in seconds; 0 uses the client default.
	SessionExpiry int

	// ReportsDir is where CSV reports are written (default: "reports").
	ReportsDir string
	// DownloadsDir is where media and caption downloads land (default: "downloads").
	DownloadsDir string

	// RPS caps the request rate against the API (default: 8).
	RPS float64
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration
	// Workers sizes the pool for parallel per-entry work.
	Workers int
	// MaxRetries bounds retries of transient API failures.
	MaxRetries int
	// InitialBackoff and MaxBackoff shape the retry backoff curve.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// SMTP configures report delivery by mail; empty Host disables it.
	SMTP SMTPConfig
}

// SMTPConfig holds mail delivery settings for finished reports.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// Enabled reports whether mail delivery is configured.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.From != "" && s.To != ""
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		ServiceURL:     "https://www.kaltura.com",
		ReportsDir:     "reports",
		DownloadsDir:   "downloads",
		RPS:            8,
		Timeout:        60 * time.Second,
		Workers:        10,
		MaxRetries:     3,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		SMTP:           SMTPConfig{Port: 587},
	}
}

// Load reads configuration from a .env file (if present) and the
// environment, then validates it. Variables already set in the
// environment win; godotenv never overrides them.
func Load() (*Config, error) {
	for _, path := range []string{".env", filepath.Join(os.Getenv("HOME"), ".config", "kadmin", ".env")} {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	cfg := DefaultConfig()
	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("KALTURA_SERVICE_URL"); v != "" {
		c.ServiceURL = v
	}
	if v := os.Getenv("KALTURA_PARTNER_ID"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Source.PartnerID = n
		}
	}
	if v := os.Getenv("KALTURA_ADMIN_SECRET"); v != "" {
		c.Source.AdminSecret = v
	}
	if v := os.Getenv("KALTURA_USER_ID"); v != "" {
		c.Source.UserID = v
	}
	if v := os.Getenv("KALTURA_DEST_PARTNER_ID"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Dest.PartnerID = n
		}
	}
	if v := os.Getenv("KALTURA_DEST_ADMIN_SECRET"); v != "" {
		c.Dest.AdminSecret = v
	}
	if v := os.Getenv("KALTURA_DEST_USER_ID"); v != "" {
		c.Dest.UserID = v
	}
	if v := os.Getenv("KALTURA_PRIVILEGES"); v != "" {
		c.Privileges = v
	}
	if v := os.Getenv("KADMIN_SESSION_EXPIRY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SessionExpiry = n
		}
	}
	if v := os.Getenv("KADMIN_REPORTS_DIR"); v != "" {
		c.ReportsDir = v
	}
	if v := os.Getenv("KADMIN_DOWNLOADS_DIR"); v != "" {
		c.DownloadsDir = v
	}
	if v := os.Getenv("KADMIN_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RPS = f
		}
	}
	if v := os.Getenv("KADMIN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
	if v := os.Getenv("KADMIN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv("KADMIN_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("KADMIN_INITIAL_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.InitialBackoff = d
		}
	}
	if v := os.Getenv("KADMIN_MAX_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.MaxBackoff = d
		}
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		c.SMTP.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SMTP.Port = n
		}
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		c.SMTP.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.SMTP.Password = v
	}
	if v := os.Getenv("SMTP_FROM"); v != "" {
		c.SMTP.From = v
	}
	if v := os.Getenv("SMTP_TO"); v != "" {
		c.SMTP.To = v
	}
}

// Validate checks that configuration values are valid and consistent.
// It returns an error if any configuration value is invalid.
func (c *Config) Validate() error {
	if c.ServiceURL == "" {
		return fmt.Errorf("KALTURA_SERVICE_URL must not be empty")
	}
	if !c.Source.Configured() {
		return fmt.Errorf("KALTURA_PARTNER_ID and KALTURA_ADMIN_SECRET are required")
	}
	if c.Source.PartnerID < 0 {
		return fmt.Errorf("KALTURA_PARTNER_ID must be positive")
	}
	if c.Dest.PartnerID < 0 {
		return fmt.Errorf("KALTURA_DEST_PARTNER_ID must be positive")
	}
	if c.RPS <= 0 {
		return fmt.Errorf("KADMIN_RPS must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("KADMIN_TIMEOUT must be positive")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("KADMIN_WORKERS must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("KADMIN_MAX_RETRIES must not be negative")
	}
	if c.InitialBackoff <= 0 || c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("KADMIN_INITIAL_BACKOFF and KADMIN_MAX_BACKOFF must be positive and ordered")
	}
	if c.SessionExpiry < 0 {
		return fmt.Errorf("KADMIN_SESSION_EXPIRY must not be negative")
	}
	return nil
}

// RequireDest errors unless a destination account is configured. Commands
// that copy across accounts call it up front.
func (c *Config) RequireDest() error {
	if !c.Dest.Configured() {
		return fmt.Errorf("KALTURA_DEST_PARTNER_ID and KALTURA_DEST_ADMIN_SECRET are required for cross-account commands")
	}
	return nil
}
