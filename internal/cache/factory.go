package cache

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	Backend string
	TTL     time.Duration
	Prefix  string
}

// New builds the backend selected by cfg.Backend. redisClient is only
// used, and then required, for the redis backend.
func New(cfg Config, redisClient redis.UniversalClient) (ResponseCache, error) {
	switch cfg.Backend {
	case BackendRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("cache: redis backend selected without a redis client")
		}
		return NewRedisCache(redisClient, RedisConfig{
			Prefix: cfg.Prefix,
			TTL:    cfg.TTL,
		}), nil
	case BackendMemory, "":
		return NewMemoryCache(cfg.TTL, 0), nil
	default:
		return nil, fmt.Errorf("cache: unknown backend %q", cfg.Backend)
	}
}
