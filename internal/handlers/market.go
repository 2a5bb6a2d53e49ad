package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"stockdash-gateway/internal/cache"
	"stockdash-gateway/internal/twelvedata"
	"stockdash-gateway/pkg/logging"
)

// MarketHandler serves the /api market data routes. Every route goes
// through the response cache before calling the provider.
type MarketHandler struct {
	Cache    cache.ResponseCache
	Upstream twelvedata.Client

	// inflight collapses concurrent misses for the same key. nil = off.
	inflight *singleflight.Group
}

// NewMarketHandler wires a handler. With collapseMisses set, concurrent
// requests that miss on the same key share one upstream call.
func NewMarketHandler(c cache.ResponseCache, upstream twelvedata.Client, collapseMisses bool) *MarketHandler {
	h := &MarketHandler{
		Cache:    c,
		Upstream: upstream,
	}
	if collapseMisses {
		h.inflight = &singleflight.Group{}
	}
	return h
}

// fetchFunc produces a JSON-encodable value on a cache miss.
type fetchFunc func(ctx context.Context) (any, error)

// Root handles GET /.
func (h *MarketHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Message: rootMessage})
}

// Search handles GET /api/search?query=.
func (h *MarketHandler) Search(w http.ResponseWriter, r *http.Request) {
	query, ok := singleParam(r.URL.Query(), "query")
	if !ok {
		writeError(w, http.StatusBadRequest, msgQueryRequired)
		return
	}

	h.serveCached(w, r, cache.SearchKey(query), msgSearchFailed, func(ctx context.Context) (any, error) {
		return h.Upstream.SymbolSearch(ctx, query)
	})
}

// TopPerformers handles GET /api/top-performers. Placeholder, see stubTopPerformers.
func (h *MarketHandler) TopPerformers(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, cache.TopPerformersKey(), msgTopPerformersFailed, func(ctx context.Context) (any, error) {
		stocks, err := h.Upstream.Stocks(ctx)
		if err != nil {
			return nil, err
		}
		return stubTopPerformers(stocks), nil
	})
}

// Quote handles GET /api/quote?symbol=.
func (h *MarketHandler) Quote(w http.ResponseWriter, r *http.Request) {
	symbol, ok := singleParam(r.URL.Query(), "symbol")
	if !ok {
		writeError(w, http.StatusBadRequest, msgSymbolRequired)
		return
	}

	h.serveCached(w, r, cache.QuoteKey(symbol), msgQuoteFailed, func(ctx context.Context) (any, error) {
		return h.Upstream.Quote(ctx, symbol)
	})
}

// CompanyInfo handles GET /api/company-info?symbol=. Placeholder, see stubCompanyInfo.
func (h *MarketHandler) CompanyInfo(w http.ResponseWriter, r *http.Request) {
	symbol, ok := singleParam(r.URL.Query(), "symbol")
	if !ok {
		writeError(w, http.StatusBadRequest, msgSymbolRequired)
		return
	}

	h.serveCached(w, r, cache.CompanyInfoKey(symbol), msgCompanyInfoFailed, func(ctx context.Context) (any, error) {
		return stubCompanyInfo(symbol), nil
	})
}

// HistoricalData handles GET /api/historical-data?symbol=&interval=.
func (h *MarketHandler) HistoricalData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	symbol, ok := singleParam(q, "symbol")
	if !ok {
		writeError(w, http.StatusBadRequest, msgSymbolRequired)
		return
	}
	interval := q.Get("interval")
	if interval == "" {
		interval = cache.DefaultInterval
	}

	h.serveCached(w, r, cache.HistoricalDataKey(symbol, interval), msgHistoricalFailed, func(ctx context.Context) (any, error) {
		return h.Upstream.TimeSeries(ctx, symbol, interval)
	})
}

// singleParam returns a query parameter given exactly once with a
// non-empty value. Repeated or empty parameters count as missing.
func singleParam(q url.Values, name string) (string, bool) {
	values := q[name]
	if len(values) != 1 || values[0] == "" {
		return "", false
	}
	return values[0], true
}

// serveCached is the cache-aside path shared by every route: a hit is
// written back verbatim; a miss calls fetch and caches the encoded result
// only if fetch succeeded. A cache error counts as a miss.
func (h *MarketHandler) serveCached(w http.ResponseWriter, r *http.Request, key, failMsg string, fetch fetchFunc) {
	ctx := r.Context()
	logger := logging.L(ctx).With(zap.String("cache_key", key))
	start := time.Now()

	cacheLookupStart := time.Now()
	cachedBytes, hit, cacheErr := h.Cache.Get(ctx, key)
	cacheLookupLatency := time.Since(cacheLookupStart)

	if cacheErr != nil {
		logger.Warn("response_cache_get_error", zap.Error(cacheErr))
	}

	if hit {
		logger.Info("cache_decision",
			zap.String("route", cache.RouteOf(key)),
			zap.Bool("cache_hit", true),
			zap.Duration("cache_lookup_latency_ms", cacheLookupLatency),
			zap.Duration("total_latency_ms", time.Since(start)),
		)
		writeRawJSON(w, http.StatusOK, cachedBytes)
		return
	}

	upstreamStart := time.Now()
	body, shared, err := h.load(ctx, key, fetch)
	upstreamLatency := time.Since(upstreamStart)

	if err != nil {
		logger.Error("upstream_fetch_failed",
			zap.String("route", cache.RouteOf(key)),
			zap.Error(err),
			zap.Duration("upstream_latency_ms", upstreamLatency),
		)
		writeError(w, http.StatusInternalServerError, failMsg)
		return
	}

	logger.Info("cache_decision",
		zap.String("route", cache.RouteOf(key)),
		zap.Bool("cache_hit", false),
		zap.Bool("shared_fetch", shared),
		zap.Duration("cache_lookup_latency_ms", cacheLookupLatency),
		zap.Duration("upstream_latency_ms", upstreamLatency),
		zap.Duration("total_latency_ms", time.Since(start)),
	)

	writeRawJSON(w, http.StatusOK, body)
}

// load runs fetchAndStore, through the singleflight group when enabled.
// shared reports whether the result came from another request's call.
func (h *MarketHandler) load(ctx context.Context, key string, fetch fetchFunc) ([]byte, bool, error) {
	if h.inflight == nil {
		body, err := h.fetchAndStore(ctx, key, fetch)
		return body, false, err
	}

	// The shared call must outlive whichever request happened to start it.
	sharedCtx := logging.WithLogger(context.WithoutCancel(ctx), logging.L(ctx))
	v, err, shared := h.inflight.Do(key, func() (any, error) {
		return h.fetchAndStore(sharedCtx, key, fetch)
	})
	if err != nil {
		return nil, shared, err
	}
	return v.([]byte), shared, nil
}

func (h *MarketHandler) fetchAndStore(ctx context.Context, key string, fetch fetchFunc) ([]byte, error) {
	result, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	if err := h.Cache.Set(ctx, key, body); err != nil {
		// Cache is best-effort; the response still goes out.
		logging.L(ctx).Warn("response_cache_set_error", zap.String("cache_key", key), zap.Error(err))
	}

	return body, nil
}

// writeJSON is a small helper to send JSON responses consistently.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
