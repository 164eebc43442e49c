// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// CurrentSeason is the label of the season in progress, e.g. "2025-26".
	// Required. It drives the active flag on official aggregates and is set
	// explicitly rather than derived from the clock.
	CurrentSeason string

	// ScrapeBaseURL is the base URL game sheets are fetched from. Required.
	ScrapeBaseURL string

	// ScrapeConcurrency is the number of game sheets fetched in parallel
	// during a batch scrape. Defaults to 5.
	ScrapeConcurrency int
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	cfg.CurrentSeason = os.Getenv("CURRENT_SEASON")
	if cfg.CurrentSeason == "" {
		missing = append(missing, "CURRENT_SEASON")
	}
	cfg.ScrapeBaseURL = os.Getenv("SCRAPE_BASE_URL")
	if cfg.ScrapeBaseURL == "" {
		missing = append(missing, "SCRAPE_BASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	concurrency, err := strconv.Atoi(getEnv("SCRAPE_CONCURRENCY", "5"))
	if err != nil || concurrency < 1 {
		return Config{}, fmt.Errorf("SCRAPE_CONCURRENCY must be a positive integer")
	}
	cfg.ScrapeConcurrency = concurrency

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
