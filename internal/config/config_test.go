package config

import (
	"testing"
	"time"
)

func TestLoad_EmptyPortFails(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	if err == nil {
		// empty PORT overrides the default and must fail validation
		t.Fatalf("expected error for empty PORT, got config %+v", cfg)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/site")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("NOTIFICATION_RECIPIENTS", "a@example.com, b@example.com ,")
	t.Setenv("CONFIRMATION_TOKEN_TTL", "48h")
	t.Setenv("RATE_LIMIT_WRITES_PER_MINUTE", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://u:p@db:5432/site" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.ConfirmationTokenTTL != 48*time.Hour {
		t.Errorf("ConfirmationTokenTTL = %v", cfg.ConfirmationTokenTTL)
	}
	if cfg.RateLimitWritesPerMinute != 3 {
		t.Errorf("RateLimitWritesPerMinute = %d", cfg.RateLimitWritesPerMinute)
	}
	got := cfg.Recipients()
	if len(got) != 2 || got[0] != "a@example.com" || got[1] != "b@example.com" {
		t.Errorf("Recipients = %v", got)
	}
	if cfg.ReadTimeout != 10*time.Second {
		t.Errorf("ReadTimeout default lost: %v", cfg.ReadTimeout)
	}
}

func TestValidate_RejectsBadRecipient(t *testing.T) {
	cfg := Default()
	cfg.NotificationRecipients = "ops@example.com,not-an-email"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid recipient")
	}
}

func TestValidate_RejectsBadLogLevel(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestMailEnabled(t *testing.T) {
	cfg := Default()
	if cfg.MailEnabled() {
		t.Error("mail should be disabled without an API key")
	}
	cfg.ResendAPIKey = "re_123"
	if !cfg.MailEnabled() {
		t.Error("mail should be enabled with an API key")
	}
}
