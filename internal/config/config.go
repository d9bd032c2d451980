// Package config loads runtime configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the service needs at startup.
type Config struct {
	Environment string
	LogLevel    string

	ListenAddr string
	DBPath     string

	UnitDirectoryURL string
	MeterRegistryURL string
	InvoiceExportURL string
	UpstreamTimeout  time.Duration
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables always win over .env values.
func Load() (*Config, error) {
	// Missing .env is fine, env vars may be set directly.
	_ = godotenv.Load()

	cfg := &Config{
		Environment:      getEnv("ENVIRONMENT", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		ListenAddr:       getEnv("LISTEN_ADDR", ":8080"),
		DBPath:           getEnv("DB_PATH", ""),
		UnitDirectoryURL: getEnv("UNIT_DIRECTORY_URL", ""),
		MeterRegistryURL: getEnv("METER_REGISTRY_URL", ""),
		InvoiceExportURL: getEnv("INVOICE_EXPORT_URL", ""),
	}

	timeout, err := getEnvSeconds("UPSTREAM_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}
	cfg.UpstreamTimeout = timeout

	if cfg.UnitDirectoryURL == "" {
		return nil, fmt.Errorf("UNIT_DIRECTORY_URL is required")
	}
	if cfg.MeterRegistryURL == "" {
		return nil, fmt.Errorf("METER_REGISTRY_URL is required")
	}
	if cfg.InvoiceExportURL == "" {
		return nil, fmt.Errorf("INVOICE_EXPORT_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvSeconds(key string, fallback int) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(fallback) * time.Second, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return time.Duration(n) * time.Second, nil
}
