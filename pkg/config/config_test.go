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
	if cfg.Upstream.BaseURL != "https://api.petfeliz.test" {
		t.Fatalf("unexpected upstream base url: %q", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.Timeout != 10*time.Second {
		t.Fatalf("expected default upstream timeout 10s, got %v", cfg.Upstream.Timeout)
	}
	if cfg.GuestStore.Namespace != "petfeliz.cart.guest" {
		t.Fatalf("unexpected guest namespace %q", cfg.GuestStore.Namespace)
	}
	if cfg.Checkout.MaxRetries != 3 {
		t.Fatalf("expected default checkout retries 3, got %d", cfg.Checkout.MaxRetries)
	}
	if cfg.Checkout.IdempotencyTTL != 168*time.Hour {
		t.Fatalf("expected default idempotency ttl 168h, got %v", cfg.Checkout.IdempotencyTTL)
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

func TestLoad_RejectsNonHTTPUpstream(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvUpstreamBaseURL, "ftp://api.petfeliz.test")

	if _, err := Load(); err == nil {
		t.Fatal("expected non-http upstream url to be rejected")
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	if !(AppConfig{Env: "DEVELOPMENT"}).IsDev() {
		t.Fatal("expected case-insensitive dev match")
	}
	if !(AppConfig{Env: "production"}).IsProd() {
		t.Fatal("expected prod match")
	}
	if (AppConfig{Env: "staging"}).IsProd() {
		t.Fatal("staging is not prod")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvUpstreamBaseURL, "https://api.petfeliz.test")
}
