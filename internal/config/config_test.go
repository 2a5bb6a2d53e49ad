package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"PORT", "TWELVE_DATA_API_KEY", "TWELVE_DATA_BASE_URL", "CACHE_BACKEND",
	"CACHE_PREFIX", "REDIS_ADDR", "UPSTREAM_SINGLEFLIGHT", "REQUEST_TIMEOUT",
	"CORS_ALLOWED_ORIGINS",
}

// clearEnv unsets every variable Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "none.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TWELVE_DATA_API_KEY", "secret")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "secret", cfg.TwelveDataAPIKey)
	assert.Equal(t, "https://api.twelvedata.com", cfg.TwelveDataBaseURL)
	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, "stockdash", cfg.CachePrefix)
	assert.False(t, cfg.CollapseMisses)
	assert.Zero(t, cfg.RequestTimeout)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TWELVE_DATA_API_KEY", "secret")
	t.Setenv("PORT", "8081")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("UPSTREAM_SINGLEFLIGHT", "true")
	t.Setenv("REQUEST_TIMEOUT", "15s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://dash.example.com")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "redis", cfg.CacheBackend)
	assert.True(t, cfg.CollapseMisses)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "https://dash.example.com"}, cfg.AllowedOrigins)
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TWELVE_DATA_API_KEY=from-file\nPORT=7000\n"), 0o600))
	t.Setenv("PORT", "9000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.TwelveDataAPIKey)
	assert.Equal(t, "9000", cfg.Port, "process environment wins over .env")
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]map[string]string{
		"missing api key":   {},
		"bad backend":       {"TWELVE_DATA_API_KEY": "k", "CACHE_BACKEND": "memcached"},
		"bad port":          {"TWELVE_DATA_API_KEY": "k", "PORT": "http"},
		"bad bool":          {"TWELVE_DATA_API_KEY": "k", "UPSTREAM_SINGLEFLIGHT": "maybe"},
		"bad duration":      {"TWELVE_DATA_API_KEY": "k", "REQUEST_TIMEOUT": "soon"},
		"negative duration": {"TWELVE_DATA_API_KEY": "k", "REQUEST_TIMEOUT": "-1s"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}

			_, err := Load(missingEnvFile(t))
			assert.Error(t, err)
		})
	}
}
