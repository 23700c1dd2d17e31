package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_HOST", "SERVER_PORT", "DB_PATH", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_PRETTY",
		"FX_BASE_URL", "FX_CACHE_TTL", "FX_HTTP_TIMEOUT", "FX_REQUESTS_PER_SECOND",
		"FX_WARM_CURRENCIES", "DEFAULT_BASE_CURRENCY",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Addr != "localhost:5001" {
		t.Errorf("Expected addr localhost:5001, got %s", cfg.Server.Addr)
	}
	if cfg.FX.BaseURL != "https://api.frankfurter.app" {
		t.Errorf("Unexpected FX base URL %s", cfg.FX.BaseURL)
	}
	if cfg.FX.CacheTTL != 12*time.Hour {
		t.Errorf("Expected 12h cache TTL, got %s", cfg.FX.CacheTTL)
	}
	if cfg.FX.HTTPTimeout != 10*time.Second {
		t.Errorf("Expected 10s timeout, got %s", cfg.FX.HTTPTimeout)
	}
	if cfg.FX.RequestsPerSecond != 2 {
		t.Errorf("Expected 2 requests per second, got %v", cfg.FX.RequestsPerSecond)
	}
	if len(cfg.FX.WarmCurrencies) != 2 || cfg.FX.WarmCurrencies[0] != "EUR" {
		t.Errorf("Unexpected warm currencies %v", cfg.FX.WarmCurrencies)
	}
	if cfg.Portfolio.DefaultBaseCurrency != "EUR" {
		t.Errorf("Expected EUR default base, got %s", cfg.Portfolio.DefaultBaseCurrency)
	}
	if cfg.Log.Level != "info" || cfg.Log.Pretty {
		t.Errorf("Unexpected log config %+v", cfg.Log)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_HOST", "0.0.0.0")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("FX_CACHE_TTL", "30m")
	t.Setenv("FX_WARM_CURRENCIES", "gbp,chf")
	t.Setenv("FX_REFRESH_SCHEDULE", "")
	t.Setenv("DEFAULT_BASE_CURRENCY", "usd")
	t.Setenv("LOG_PRETTY", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Addr != "0.0.0.0:8080" {
		t.Errorf("Expected 0.0.0.0:8080, got %s", cfg.Server.Addr)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("Unexpected origins %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.FX.CacheTTL != 30*time.Minute {
		t.Errorf("Expected 30m, got %s", cfg.FX.CacheTTL)
	}
	if cfg.FX.WarmCurrencies[0] != "GBP" || cfg.FX.WarmCurrencies[1] != "CHF" {
		t.Errorf("Expected upper-cased currencies, got %v", cfg.FX.WarmCurrencies)
	}
	if cfg.FX.RefreshSchedule != "" {
		t.Errorf("Expected refresh job disabled, got %q", cfg.FX.RefreshSchedule)
	}
	if cfg.Portfolio.DefaultBaseCurrency != "USD" {
		t.Errorf("Expected USD, got %s", cfg.Portfolio.DefaultBaseCurrency)
	}
	if !cfg.Log.Pretty {
		t.Error("Expected pretty logging")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"FX_CACHE_TTL":           "twelve hours",
		"FX_HTTP_TIMEOUT":        "-1s",
		"FX_REQUESTS_PER_SECOND": "fast",
		"LOG_PRETTY":             "maybe",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%s", key, value)
			}
		})
	}
}
