package config

import (
	"testing"
	"time"
)

func TestLoadWithOptionsDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("METRICS_ADDR", "")
	t.Setenv("BASE_URL", "")
	t.Setenv("VERIFY_COOLDOWN", "")
	t.Setenv("ALERT_AUTO_DISMISS", "")

	cfg, err := LoadWithOptions(LoadOptions{RequireDatabaseURL: false})
	if err != nil {
		t.Fatalf("LoadWithOptions() error = %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.MetricsAddr != "off" {
		t.Fatalf("MetricsAddr = %q, want %q", cfg.MetricsAddr, "off")
	}
	if !cfg.RegistrationOpen {
		t.Fatalf("RegistrationOpen = false, want true")
	}
	if cfg.VerifyCooldown != 60*time.Second {
		t.Fatalf("VerifyCooldown = %v, want %v", cfg.VerifyCooldown, 60*time.Second)
	}
	if cfg.AlertAutoDismiss != 3*time.Second {
		t.Fatalf("AlertAutoDismiss = %v, want %v", cfg.AlertAutoDismiss, 3*time.Second)
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := LoadWithOptions(LoadOptions{RequireDatabaseURL: true}); err == nil {
		t.Fatalf("LoadWithOptions() error = nil, want DATABASE_URL error")
	}
}

func TestLoadParsesDurationsAndTrimsBaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/angkasa")
	t.Setenv("BASE_URL", "https://angkasa.example/")
	t.Setenv("VERIFY_COOLDOWN", "90s")
	t.Setenv("ALERT_AUTO_DISMISS", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BaseURL != "https://angkasa.example" {
		t.Fatalf("BaseURL = %q, want trailing slash trimmed", cfg.BaseURL)
	}
	if cfg.VerifyCooldown != 90*time.Second {
		t.Fatalf("VerifyCooldown = %v, want 90s", cfg.VerifyCooldown)
	}
	if cfg.AlertAutoDismiss != 5*time.Second {
		t.Fatalf("AlertAutoDismiss = %v, want 5s", cfg.AlertAutoDismiss)
	}
}

func TestLoadIgnoresInvalidDurations(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/angkasa")
	t.Setenv("VERIFY_COOLDOWN", "soon")
	t.Setenv("ALERT_AUTO_DISMISS", "-1s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.VerifyCooldown != 60*time.Second {
		t.Fatalf("VerifyCooldown = %v, want default", cfg.VerifyCooldown)
	}
	if cfg.AlertAutoDismiss != 3*time.Second {
		t.Fatalf("AlertAutoDismiss = %v, want default", cfg.AlertAutoDismiss)
	}
}
