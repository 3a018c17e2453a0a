package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}

	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected Redis URL: %q", cfg.Redis.URL)
	}

	if got := cfg.Backend.Timeout; got != 15*time.Second {
		t.Fatalf("expected default backend timeout 15s, got %v", got)
	}

	if cfg.Storefront.PageSize != 12 {
		t.Fatalf("expected default page size 12, got %d", cfg.Storefront.PageSize)
	}

	if cfg.Backend.RestrictsWarehouse() {
		t.Fatal("warehouse restriction should be off by default")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RejectsBadBackendURL(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvBackendBaseURL, "localhost:8000")

	if _, err := Load(); err == nil {
		t.Fatal("expected scheme-less backend url to be rejected")
	}
}

func TestLoad_WarehouseVariant(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("DBACKF_BACKEND_WAREHOUSE_ID", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !cfg.Backend.RestrictsWarehouse() || cfg.Backend.WarehouseID != 3 {
		t.Fatalf("expected warehouse 3 restriction, got %+v", cfg.Backend)
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	app := AppConfig{Env: "Production"}
	if !app.IsProd() || app.IsDev() {
		t.Fatalf("expected prod detection to be case-insensitive")
	}
	app.Env = "development"
	if !app.IsDev() || app.IsProd() {
		t.Fatalf("expected dev detection")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvBackendBaseURL, "http://localhost:8000/api")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
}
