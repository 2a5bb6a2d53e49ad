package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"stockdash-gateway/internal/cache"
	"stockdash-gateway/internal/twelvedata"
)

type Config struct {
	Port string

	TwelveDataAPIKey  string
	TwelveDataBaseURL string

	CacheBackend string // "memory" or "redis"
	CachePrefix  string
	RedisAddr    string

	// CollapseMisses shares one upstream call between concurrent
	// requests that miss on the same key.
	CollapseMisses bool
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// Load reads .env files (if present) and then the process environment.
// Variables already set in the environment win over .env values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	cfg := Config{
		Port:              getenv("PORT", "5000"),
		TwelveDataAPIKey:  os.Getenv("TWELVE_DATA_API_KEY"),
		TwelveDataBaseURL: getenv("TWELVE_DATA_BASE_URL", twelvedata.DefaultBaseURL),
		CacheBackend:      getenv("CACHE_BACKEND", cache.BackendMemory),
		CachePrefix:       getenv("CACHE_PREFIX", "stockdash"),
		RedisAddr:         getenv("REDIS_ADDR", "127.0.0.1:6379"),
		AllowedOrigins:    splitList(getenv("CORS_ALLOWED_ORIGINS", "*")),
	}

	var err error
	if cfg.CollapseMisses, err = parseBool("UPSTREAM_SINGLEFLIGHT", false); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout, err = parseDuration("REQUEST_TIMEOUT", 0); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required fields and enumerations.
func (c Config) Validate() error {
	if c.TwelveDataAPIKey == "" {
		return errors.New("config: TWELVE_DATA_API_KEY is required")
	}
	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return fmt.Errorf("config: invalid PORT %q", c.Port)
	}
	switch c.CacheBackend {
	case cache.BackendMemory, cache.BackendRedis:
	default:
		return fmt.Errorf("config: unknown CACHE_BACKEND %q", c.CacheBackend)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("config: REQUEST_TIMEOUT must not be negative")
	}
	return nil
}

// getenv returns the value of the environment variable key or def if not set.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
