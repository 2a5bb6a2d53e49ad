package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"stockdash-gateway/internal/metrics"
	"stockdash-gateway/pkg/logging"
)

type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("backend down")
}

func (failingCache) Set(context.Context, string, []byte) error {
	return errors.New("backend down")
}

func TestInstrumentedCache_CountsResults(t *testing.T) {
	c := NewInstrumentedCache(NewMemoryCache(time.Minute, 0), BackendMemory)
	ctx := context.Background()

	missBefore := testutil.ToFloat64(metrics.CacheLookupsTotal.WithLabelValues(RouteQuote, "miss"))
	hitBefore := testutil.ToFloat64(metrics.CacheLookupsTotal.WithLabelValues(RouteQuote, "hit"))
	storeBefore := testutil.ToFloat64(metrics.CacheStoresTotal.WithLabelValues(RouteQuote, "ok"))

	_, hit, err := c.Get(ctx, QuoteKey("IBM"))
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, QuoteKey("IBM"), []byte(`{}`)))

	_, hit, err = c.Get(ctx, QuoteKey("IBM"))
	require.NoError(t, err)
	assert.True(t, hit)

	assert.Equal(t, missBefore+1, testutil.ToFloat64(metrics.CacheLookupsTotal.WithLabelValues(RouteQuote, "miss")))
	assert.Equal(t, hitBefore+1, testutil.ToFloat64(metrics.CacheLookupsTotal.WithLabelValues(RouteQuote, "hit")))
	assert.Equal(t, storeBefore+1, testutil.ToFloat64(metrics.CacheStoresTotal.WithLabelValues(RouteQuote, "ok")))
}

func TestInstrumentedCache_LogsBackendErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logging.WithLogger(context.Background(), zap.New(core))

	c := NewInstrumentedCache(failingCache{}, BackendRedis)

	_, hit, err := c.Get(ctx, SearchKey("tesla"))
	assert.Error(t, err)
	assert.False(t, hit)
	assert.Error(t, c.Set(ctx, SearchKey("tesla"), []byte(`[]`)))

	entries := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, entries, 2)
	assert.Equal(t, "response_cache_get", entries[0].Message)
	assert.Equal(t, "response_cache_set", entries[1].Message)
	assert.Equal(t, RouteSearch, entries[0].ContextMap()["route"])
}
