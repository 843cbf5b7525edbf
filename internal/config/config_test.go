package config_test

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/earthwave/cryotempo-analysis/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SPECKLIA_API_KEY", "test-key")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, "https://api.specklia.earthwave.co.uk", cfg.SpeckliaURL)
	assert.Equal(t, "test-key", cfg.SpeckliaAPIKey)
	assert.Equal(t, 30*time.Second, cfg.SpeckliaTimeout)
	assert.Equal(t, 3, cfg.SpeckliaRetries)
	assert.Equal(t, 32, cfg.CacheSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SPECKLIA_API_KEY", "test-key")
	t.Setenv("SPECKLIA_URL", "http://localhost:8080")
	t.Setenv("SPECKLIA_TIMEOUT", "5s")
	t.Setenv("SPECKLIA_RETRIES", "1")
	t.Setenv("CACHE_SIZE", "4")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.SpeckliaURL)
	assert.Equal(t, 5*time.Second, cfg.SpeckliaTimeout)
	assert.Equal(t, 1, cfg.SpeckliaRetries)
	assert.Equal(t, 4, cfg.CacheSize)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_Invalid(t *testing.T) {
	for _, tc := range []struct {
		name  string
		key   string
		value string
	}{
		{name: "missing_api_key", key: "SPECKLIA_API_KEY", value: ""},
		{name: "bad_timeout", key: "SPECKLIA_TIMEOUT", value: "soon"},
		{name: "negative_timeout", key: "SPECKLIA_TIMEOUT", value: "-1s"},
		{name: "bad_retries", key: "SPECKLIA_RETRIES", value: "many"},
		{name: "negative_retries", key: "SPECKLIA_RETRIES", value: "-1"},
		{name: "zero_cache", key: "CACHE_SIZE", value: "0"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("SPECKLIA_API_KEY", "test-key")
			t.Setenv(tc.key, tc.value)

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
