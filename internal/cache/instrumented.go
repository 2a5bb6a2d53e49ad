package cache

import (
	"context"
	"time"

	"stockdash-gateway/internal/metrics"
	"stockdash-gateway/pkg/logging"

	"go.uber.org/zap"
)

// InstrumentedCache wraps a ResponseCache with logging + metrics.
type InstrumentedCache struct {
	inner   ResponseCache
	backend string
}

// NewInstrumentedCache returns a cache that logs and records metrics for
// every lookup and store. backend is only used as a log field.
func NewInstrumentedCache(inner ResponseCache, backend string) ResponseCache {
	return &InstrumentedCache{inner: inner, backend: backend}
}

func (c *InstrumentedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	value, ok, err := c.inner.Get(ctx, key)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	route := RouteOf(key)

	result := "miss"
	if err != nil {
		result = "error"
	} else if ok {
		result = "hit"
	}
	metrics.CacheLookupsTotal.WithLabelValues(route, result).Inc()

	fields := []zap.Field{
		zap.String("cache_backend", c.backend),
		zap.String("cache_key", key),
		zap.String("route", route),
		zap.String("cache_result", result), // hit | miss | error
		zap.Float64("latency_ms", latencyMs),
	}

	logger := logging.L(ctx)
	if err != nil {
		logger.Error("response_cache_get", append(fields, zap.Error(err))...)
	} else {
		logger.Debug("response_cache_get", fields...)
	}

	return value, ok, err
}

func (c *InstrumentedCache) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := c.inner.Set(ctx, key, value)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	route := RouteOf(key)

	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.CacheStoresTotal.WithLabelValues(route, result).Inc()

	fields := []zap.Field{
		zap.String("cache_backend", c.backend),
		zap.String("cache_key", key),
		zap.String("route", route),
		zap.Int("value_bytes", len(value)),
		zap.Float64("latency_ms", latencyMs),
	}

	logger := logging.L(ctx)
	if err != nil {
		logger.Error("response_cache_set", append(fields, zap.Error(err))...)
	} else {
		logger.Debug("response_cache_set", fields...)
	}

	return err
}
