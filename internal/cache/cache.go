package cache

import (
	"context"
	"time"
)

// DefaultTTL is the freshness window applied to every cached response.
const DefaultTTL = 600 * time.Second

// ResponseCache stores encoded JSON responses under route-derived keys.
// Implemented by the in-process memory cache (default) and Redis.
//
// Every entry written through a given instance gets the same TTL; there is no
// per-entry override. A miss is reported as ok=false with a nil error.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}
