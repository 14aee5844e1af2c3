package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Source = Account{PartnerID: 101, AdminSecret: "secret"}
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			modify: func(c *Config) {},
		},
		{
			name:    "missing credentials",
			modify:  func(c *Config) { c.Source = Account{} },
			wantErr: "KALTURA_PARTNER_ID",
		},
		{
			name:    "secret without partner",
			modify:  func(c *Config) { c.Source.PartnerID = 0 },
			wantErr: "KALTURA_PARTNER_ID",
		},
		{
			name:    "zero rps",
			modify:  func(c *Config) { c.RPS = 0 },
			wantErr: "KADMIN_RPS",
		},
		{
			name:    "negative timeout",
			modify:  func(c *Config) { c.Timeout = -time.Second },
			wantErr: "KADMIN_TIMEOUT",
		},
		{
			name:    "zero workers",
			modify:  func(c *Config) { c.Workers = 0 },
			wantErr: "KADMIN_WORKERS",
		},
		{
			name:    "backoff out of order",
			modify:  func(c *Config) { c.MaxBackoff = c.InitialBackoff / 2 },
			wantErr: "KADMIN_MAX_BACKOFF",
		},
		{
			name:    "negative session expiry",
			modify:  func(c *Config) { c.SessionExpiry = -1 },
			wantErr: "KADMIN_SESSION_EXPIRY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("KALTURA_PARTNER_ID", "4242")
	t.Setenv("KALTURA_ADMIN_SECRET", "hush")
	t.Setenv("KALTURA_SERVICE_URL", "https://kmc.example.edu")
	t.Setenv("KADMIN_WORKERS", "3")
	t.Setenv("KADMIN_TIMEOUT", "90s")
	t.Setenv("KADMIN_MAX_RETRIES", "5")
	t.Setenv("KALTURA_PRIVILEGES", "all:*,disableentitlement,list:*")
	t.Setenv("SMTP_HOST", "smtp.example.edu")
	t.Setenv("SMTP_FROM", "reports@example.edu")
	t.Setenv("SMTP_TO", "media-team@example.edu")

	cfg := DefaultConfig()
	cfg.loadFromEnv()

	if cfg.Source.PartnerID != 4242 {
		t.Errorf("PartnerID = %d, want 4242", cfg.Source.PartnerID)
	}
	if cfg.ServiceURL != "https://kmc.example.edu" {
		t.Errorf("ServiceURL = %q", cfg.ServiceURL)
	}
	if cfg.Workers != 3 {
		t.Errorf("Workers = %d, want 3", cfg.Workers)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", cfg.Timeout)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if cfg.Privileges != "all:*,disableentitlement,list:*" {
		t.Errorf("Privileges = %q", cfg.Privileges)
	}
	if !cfg.SMTP.Enabled() {
		t.Error("SMTP.Enabled() = false with host, from and to set")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestRequireDest(t *testing.T) {
	cfg := validConfig()
	if err := cfg.RequireDest(); err == nil {
		t.Error("RequireDest() = nil without destination credentials")
	}
	cfg.Dest = Account{PartnerID: 999, AdminSecret: "other"}
	if err := cfg.RequireDest(); err != nil {
		t.Errorf("RequireDest() error = %v with destination configured", err)
	}
}

func TestMalformedEnvIgnored(t *testing.T) {
	t.Setenv("KALTURA_PARTNER_ID", "not-a-number")
	t.Setenv("KADMIN_RPS", "fast")

	cfg := DefaultConfig()
	cfg.loadFromEnv()

	if cfg.Source.PartnerID != 0 {
		t.Errorf("PartnerID = %d, want 0 for malformed input", cfg.Source.PartnerID)
	}
	if cfg.RPS != 8 {
		t.Errorf("RPS = %v, want default 8", cfg.RPS)
	}
}
