// Package config loads demo configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all settings for the demo binary, populated from environment
// variables.
type Config struct {
	SpeckliaURL     string
	SpeckliaAPIKey  string
	SpeckliaTimeout time.Duration
	SpeckliaRetries int
	CacheSize       int
	LogLevel        string
	LogFormat       string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	timeout, err := parseDuration("SPECKLIA_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	retries, err := parseInt("SPECKLIA_RETRIES", 3)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseInt("CACHE_SIZE", 32)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		SpeckliaURL:     envOrDefault("SPECKLIA_URL", "https://api.specklia.earthwave.co.uk"),
		SpeckliaAPIKey:  os.Getenv("SPECKLIA_API_KEY"),
		SpeckliaTimeout: timeout,
		SpeckliaRetries: retries,
		CacheSize:       cacheSize,
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "text"),
	}

	if cfg.SpeckliaAPIKey == "" {
		return nil, errors.New("SPECKLIA_API_KEY is required")
	}
	if cfg.CacheSize < 1 {
		return nil, errors.New("CACHE_SIZE must be positive")
	}
	if cfg.SpeckliaRetries < 0 {
		return nil, errors.New("SPECKLIA_RETRIES must not be negative")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, value)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, value)
	}
	return n, nil
}
