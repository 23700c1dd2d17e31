package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Log       LogConfig
	FX        FXConfig
	Portfolio PortfolioConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Pretty bool
}

// FXConfig holds the exchange-rate source and cache configuration
type FXConfig struct {
	BaseURL           string
	CacheTTL          time.Duration
	HTTPTimeout       time.Duration
	RequestsPerSecond float64
	WarmCurrencies    []string
	RefreshSchedule   string // cron spec; empty disables the refresh job
}

// PortfolioConfig holds valuation defaults
type PortfolioConfig struct {
	DefaultBaseCurrency string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	ttl, err := getDuration("FX_CACHE_TTL", 12*time.Hour)
	if err != nil {
		return nil, err
	}
	timeout, err := getDuration("FX_HTTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	rps, err := getFloat("FX_REQUESTS_PER_SECOND", 2)
	if err != nil {
		return nil, err
	}
	pretty, err := getBool("LOG_PRETTY", false)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_insights.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: pretty,
		},
		FX: FXConfig{
			BaseURL:           getEnv("FX_BASE_URL", "https://api.frankfurter.app"),
			CacheTTL:          ttl,
			HTTPTimeout:       timeout,
			RequestsPerSecond: rps,
			WarmCurrencies:    upper(getList("FX_WARM_CURRENCIES", []string{"EUR", "USD"})),
			RefreshSchedule:   os.Getenv("FX_REFRESH_SCHEDULE"),
		},
		Portfolio: PortfolioConfig{
			DefaultBaseCurrency: strings.ToUpper(getEnv("DEFAULT_BASE_CURRENCY", "EUR")),
		},
	}
	if _, set := os.LookupEnv("FX_REFRESH_SCHEDULE"); !set {
		config.FX.RefreshSchedule = "@every 12h"
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: expected a positive duration such as 12h", key, value)
	}
	return d, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return f, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

// getList splits a comma separated variable, dropping empty items.
func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func upper(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = strings.ToUpper(item)
	}
	return out
}
