package config_test

import (
	"testing"
	"time"

	"github.com/lettersmith/newsletter-api/internal/platform/config"
)

func TestLoad_Defaults(t *testing.T) {
	var app config.App
	if err := config.Load(&app); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if app.Port == 0 || app.Host == "" {
		t.Fatalf("defaults not applied: %+v", app)
	}
	if app.Addr() == "" {
		t.Fatalf("empty Addr")
	}
	if app.StorageBackend != "memory" || app.EmailBackend != "dev" {
		t.Fatalf("backend defaults: %+v", app)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("APP_PORT", "9999")
	t.Setenv("APP_BASE_URL", "https://news.example.com")
	t.Setenv("EMAIL_SEND_TIMEOUT", "3s")

	var app config.App
	if err := config.Load(&app); err != nil {
		t.Fatalf("Load app: %v", err)
	}
	if app.Port != 9999 || app.BaseURL != "https://news.example.com" {
		t.Fatalf("app=%+v", app)
	}

	var email config.Email
	if err := config.Load(&email); err != nil {
		t.Fatalf("Load email: %v", err)
	}
	if email.SendTimeout != 3*time.Second {
		t.Fatalf("sendTimeout=%v", email.SendTimeout)
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("APP_PORT", "not-a-port")

	var app config.App
	if err := config.Load(&app); err == nil {
		t.Fatalf("expected parse error")
	}
}
