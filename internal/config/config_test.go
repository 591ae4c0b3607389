package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("APP_PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session.Backend != SessionBackendMemory {
		t.Fatalf("expected memory backend, got %q", cfg.Session.Backend)
	}
	if cfg.App.Addr() != "0.0.0.0:8080" {
		t.Fatalf("unexpected addr %q", cfg.App.Addr())
	}
	if cfg.Routes.LoginPath != "/login" {
		t.Fatalf("unexpected login path %q", cfg.Routes.LoginPath)
	}
	if cfg.Session.TTL() != 0 {
		t.Fatalf("expected no session ttl by default, got %v", cfg.Session.TTL())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("SESSION_TTL_MINUTES", "90")
	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "5")
	t.Setenv("UPSTREAM_RATE_PER_SECOND", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session.Backend != SessionBackendRedis {
		t.Fatalf("expected redis backend, got %q", cfg.Session.Backend)
	}
	if cfg.Session.TTL() != 90*time.Minute {
		t.Fatalf("unexpected ttl %v", cfg.Session.TTL())
	}
	if cfg.Upstream.Timeout() != 5*time.Second {
		t.Fatalf("unexpected upstream timeout %v", cfg.Upstream.Timeout())
	}
	if cfg.Upstream.RatePerSecond != 2.5 {
		t.Fatalf("unexpected rate %v", cfg.Upstream.RatePerSecond)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "cookie-jar")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoadRejectsInvalidRedisDB(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("REDIS_DB", "primary")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid REDIS_DB")
	}
}
