package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr %q", cfg.HTTPAddr)
	}
	if cfg.FrontendURL != "http://localhost:5173" {
		t.Fatalf("FrontendURL %q", cfg.FrontendURL)
	}
	if cfg.RateLimitRPS != 10 || cfg.RateLimitBurst != 20 {
		t.Fatalf("rate limit %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.SweepInterval != time.Minute {
		t.Fatalf("SweepInterval %v", cfg.SweepInterval)
	}
	if cfg.RedisAddr != "" || cfg.SMTPAddr != "" {
		t.Fatal("redis and smtp should default to unset")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SUSTAINWEAR_HTTP_ADDR", ":9999")
	t.Setenv("SUSTAINWEAR_AUTH_SECRET", "prod-secret")
	t.Setenv("SUSTAINWEAR_RATE_LIMIT_RPS", "2.5")
	t.Setenv("SUSTAINWEAR_RATE_LIMIT_BURST", "5")
	t.Setenv("SUSTAINWEAR_SWEEP_INTERVAL", "30s")
	t.Setenv("SUSTAINWEAR_REDIS_ADDR", "127.0.0.1:6379")

	cfg := Load()
	if cfg.HTTPAddr != ":9999" {
		t.Fatalf("HTTPAddr %q", cfg.HTTPAddr)
	}
	if cfg.AuthSecret != "prod-secret" {
		t.Fatalf("AuthSecret %q", cfg.AuthSecret)
	}
	if cfg.RateLimitRPS != 2.5 || cfg.RateLimitBurst != 5 {
		t.Fatalf("rate limit %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.SweepInterval != 30*time.Second {
		t.Fatalf("SweepInterval %v", cfg.SweepInterval)
	}
	if cfg.RedisAddr != "127.0.0.1:6379" {
		t.Fatalf("RedisAddr %q", cfg.RedisAddr)
	}
}

func TestGetenvDurationSecondsFallback(t *testing.T) {
	t.Setenv("SUSTAINWEAR_SWEEP_INTERVAL_SECONDS", "90")
	cfg := Load()
	if cfg.SweepInterval != 90*time.Second {
		t.Fatalf("SweepInterval %v", cfg.SweepInterval)
	}
}

func TestGetenvDurationIgnoresGarbage(t *testing.T) {
	t.Setenv("SUSTAINWEAR_SWEEP_INTERVAL", "soon")
	cfg := Load()
	if cfg.SweepInterval != time.Minute {
		t.Fatalf("SweepInterval %v", cfg.SweepInterval)
	}
}
