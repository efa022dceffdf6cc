package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreDir != "." {
		t.Errorf("StoreDir = %q, want %q", cfg.StoreDir, ".")
	}
	if cfg.Port != 8080 || cfg.AdminPort != 8383 {
		t.Errorf("ports = %d/%d, want 8080/8383", cfg.Port, cfg.AdminPort)
	}
	if cfg.ShutdownTimeout != 15*time.Second {
		t.Errorf("ShutdownTimeout = %s, want 15s", cfg.ShutdownTimeout)
	}
	if cfg.Debug {
		t.Error("Debug should default to false")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TIMETRACKER_STORE_DIR", "/tmp/tt")
	t.Setenv("TIMETRACKER_DEBUG", "true")
	t.Setenv("TIMETRACKER_PORT", "9000")
	t.Setenv("TIMETRACKER_SHUTDOWN_TIMEOUT", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreDir != "/tmp/tt" || !cfg.Debug || cfg.Port != 9000 || cfg.ShutdownTimeout != 2*time.Second {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoadError(t *testing.T) {
	t.Setenv("TIMETRACKER_PORT", "not-an-int")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadRejectsNegativePort(t *testing.T) {
	t.Setenv("TIMETRACKER_ADMIN_PORT", "-1")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative port")
	}
}
