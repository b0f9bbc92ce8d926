package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iho/payroll/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadFile("")
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.ReportCurrency != "EUR" {
		t.Fatalf("expected default currency EUR, got %s", cfg.ReportCurrency)
	}

	if cfg.ReportCacheTTL != 7*24*time.Hour {
		t.Fatalf("expected a week of report caching, got %s", cfg.ReportCacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("AUTO_MIGRATE", "false")

	cfg, err := config.LoadFile("")
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.test" {
		t.Fatalf("expected two CORS origins, got %v", cfg.CORSAllowedOrigins)
	}

	if cfg.AutoMigrate {
		t.Fatalf("expected auto-migrate to be disabled")
	}
}

func TestLoadDotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("REPORT_TITLE=March Payroll\nHTTP_PORT=7070\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("HTTP_PORT", "9191")
	t.Cleanup(func() { os.Unsetenv("REPORT_TITLE") })

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.ReportTitle != "March Payroll" {
		t.Fatalf("expected title from dotenv file, got %q", cfg.ReportTitle)
	}

	if cfg.HTTPPort != "9191" {
		t.Fatalf("expected environment to win over dotenv file, got %s", cfg.HTTPPort)
	}
}

func TestLoadMissingDotenvFileIsIgnored(t *testing.T) {
	if _, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("expected missing dotenv file to be ignored, got %v", err)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.LoadFile(""); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoadRejectsInconsistentPool(t *testing.T) {
	t.Setenv("DATABASE_MIN_CONNS", "20")
	t.Setenv("DATABASE_MAX_CONNS", "5")

	if _, err := config.LoadFile(""); err == nil {
		t.Fatalf("expected error when min conns exceed max conns")
	}
}
