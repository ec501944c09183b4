package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "3000" || !cfg.IsDevelopment() {
		t.Fatalf("unexpected server defaults %+v", cfg)
	}
	if cfg.API.Timeout != 10*time.Second || cfg.API.DriverTimeout != 5*time.Second {
		t.Fatalf("unexpected timeouts %+v", cfg.API)
	}
	if cfg.API.ResetSendsOTP {
		t.Fatalf("reset must not send the otp by default")
	}
	if cfg.Session.Backend != BackendMemory || cfg.Session.CookieName != "smartride_sid" {
		t.Fatalf("unexpected session defaults %+v", cfg.Session)
	}
	if cfg.Mongo.SessionCollection != "sessions" {
		t.Fatalf("unexpected mongo defaults %+v", cfg.Mongo)
	}
	if cfg.Screens.IdleTimeout != 15*time.Minute || cfg.Screens.Max != 10000 {
		t.Fatalf("unexpected screen limits %+v", cfg.Screens)
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":                 "production",
		"API_BASE_URL":        "https://api.smartride.test/api",
		"API_DRIVER_TIMEOUT":  "2s",
		"API_RESET_SENDS_OTP": "true",
		"SESSION_BACKEND":     "redis",
		"REDIS_DB":            "3",
		"SCREEN_IDLE_TIMEOUT": "2m",
		"SCREEN_MAX":          "50",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.IsDevelopment() || cfg.API.DriverTimeout != 2*time.Second || !cfg.API.ResetSendsOTP {
		t.Fatalf("overrides not applied %+v", cfg)
	}
	if cfg.Session.Backend != BackendRedis || cfg.Redis.DB != 3 {
		t.Fatalf("unexpected store config %+v %+v", cfg.Session, cfg.Redis)
	}
	if cfg.Screens.IdleTimeout != 2*time.Minute || cfg.Screens.Max != 50 {
		t.Fatalf("unexpected screen limits %+v", cfg.Screens)
	}
}

func TestLoadWith_RejectsUnknownBackend(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"SESSION_BACKEND": "cassandra",
	}))
	if err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestLoadWith_RejectsUnboundedScreens(t *testing.T) {
	for _, env := range []map[string]string{
		{"SCREEN_IDLE_TIMEOUT": "0s"},
		{"SCREEN_MAX": "0"},
	} {
		if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
			t.Fatalf("expected error for %v", env)
		}
	}
}
