package config

import (
	"reflect"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "3000" {
		t.Fatalf("port=%q want=%q", cfg.Port, "3000")
	}
	if cfg.PublicBaseURL != "http://localhost:3000" {
		t.Fatalf("base url=%q", cfg.PublicBaseURL)
	}
	if cfg.UploadsDir != "uploads" {
		t.Fatalf("uploads dir=%q", cfg.UploadsDir)
	}
	if cfg.DatabaseDSN != "" {
		t.Fatalf("dsn=%q want empty", cfg.DatabaseDSN)
	}
	if cfg.WriteLimitPerMin != 0 {
		t.Fatalf("write limit=%d want=0", cfg.WriteLimitPerMin)
	}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"*"}) {
		t.Fatalf("origins=%v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TIENDA_PORT", "8080")
	t.Setenv("TIENDA_PUBLIC_BASE_URL", "https://tienda.example.com/")
	t.Setenv("TIENDA_CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("TIENDA_WRITE_LIMIT_PER_MIN", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("port=%q", cfg.Port)
	}
	if cfg.PublicBaseURL != "https://tienda.example.com" {
		t.Fatalf("base url=%q (trailing slash must be trimmed)", cfg.PublicBaseURL)
	}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"https://a.example.com", "https://b.example.com"}) {
		t.Fatalf("origins=%v", cfg.CORSAllowedOrigins)
	}
	if cfg.WriteLimitPerMin != 30 {
		t.Fatalf("write limit=%d", cfg.WriteLimitPerMin)
	}
}
