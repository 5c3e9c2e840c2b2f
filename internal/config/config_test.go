package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.InjuryConfidenceThreshold != 80 {
		t.Fatalf("unexpected injury threshold: %d", cfg.InjuryConfidenceThreshold)
	}
	if cfg.OddsConfidenceThreshold != 80 {
		t.Fatalf("unexpected odds threshold: %d", cfg.OddsConfidenceThreshold)
	}
	if cfg.TrailingWindowDays != 30 {
		t.Fatalf("unexpected trailing window: %d", cfg.TrailingWindowDays)
	}
	if len(cfg.RatingTwoTierStats) != 2 {
		t.Fatalf("unexpected two-tier stats: %v", cfg.RatingTwoTierStats)
	}
	if cfg.CacheTTL != 60*time.Second {
		t.Fatalf("unexpected cache ttl: %s", cfg.CacheTTL)
	}
}

func TestLoad_ThresholdBounds(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("INJURY_CONFIDENCE_THRESHOLD", "101")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for out-of-range threshold")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_NotifyRequiresWebhookWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("NOTIFY_ENABLED", "true")
	t.Setenv("NOTIFY_WEBHOOK_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when NOTIFY_ENABLED=true without NOTIFY_WEBHOOK_URL")
	}
}

func TestLoad_NotifyConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("NOTIFY_ENABLED", "true")
	t.Setenv("NOTIFY_WEBHOOK_URL", "https://bi.internal/hooks/mart-refresh")
	t.Setenv("NOTIFY_TIMEOUT", "7s")
	t.Setenv("NOTIFY_RETRIES", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.NotifyTimeout != 7*time.Second {
		t.Fatalf("unexpected NotifyTimeout: %s", cfg.NotifyTimeout)
	}
	if cfg.NotifyRetries != 4 {
		t.Fatalf("unexpected NotifyRetries: %d", cfg.NotifyRetries)
	}
}
