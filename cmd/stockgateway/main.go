package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"stockdash-gateway/internal/cache"
	"stockdash-gateway/internal/config"
	"stockdash-gateway/internal/handlers"
	"stockdash-gateway/internal/httpserver"
	"stockdash-gateway/internal/metrics"
	"stockdash-gateway/internal/twelvedata"
	"stockdash-gateway/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("gateway exited with error: %v", err)
	}
}

func run() error {
	// ----- Config -----
	// Loaded first so a LOG_LEVEL from .env reaches the logger.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// ----- Logger -----
	logger, err := logging.New(logging.OptionsFromEnv())
	if err != nil {
		return err
	}
	defer logger.Sync()

	// ----- Metrics -----
	metrics.Register()

	logger.Info("loaded config",
		zap.String("port", cfg.Port),
		zap.String("cache_backend", cfg.CacheBackend),
		zap.String("redis_addr", cfg.RedisAddr),
		zap.String("twelvedata_base_url", cfg.TwelveDataBaseURL),
		zap.Bool("collapse_misses", cfg.CollapseMisses),
		zap.Duration("request_timeout", cfg.RequestTimeout),
	)

	// ----- Redis client (only if needed) -----
	var redisClient redis.UniversalClient
	if cfg.CacheBackend == cache.BackendRedis {
		client := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		defer client.Close()
		redisClient = client
	}

	// ----- Response cache -----
	backend, err := cache.New(cache.Config{
		Backend: cfg.CacheBackend,
		TTL:     cache.DefaultTTL,
		Prefix:  cfg.CachePrefix,
	}, redisClient)
	if err != nil {
		return err
	}

	// Fail fast if Redis is misconfigured
	if pinger, ok := backend.(interface{ Ping(context.Context) error }); ok {
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := pinger.Ping(pingCtx)
		cancel()
		if err != nil {
			logger.Error("redis connection failed", zap.Error(err))
			return err
		}
		logger.Info("redis connection established",
			zap.String("addr", cfg.RedisAddr),
		)
	}

	responseCache := cache.NewInstrumentedCache(backend, cfg.CacheBackend)

	// ----- Upstream client -----
	upstream, err := twelvedata.NewClient(twelvedata.Config{
		BaseURL: cfg.TwelveDataBaseURL,
		APIKey:  cfg.TwelveDataAPIKey,
	}, logger)
	if err != nil {
		return err
	}
	if closer, ok := upstream.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	// ----- Handlers -----
	market := handlers.NewMarketHandler(responseCache, upstream, cfg.CollapseMisses)

	// ----- Router + middleware -----
	r := chi.NewRouter()
	httpserver.SetupRouter(r, logger, market, httpserver.Options{
		RequestTimeout: cfg.RequestTimeout,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	// ----- HTTP server -----
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("starting gateway",
		zap.String("addr", srv.Addr),
		zap.String("cache_backend", cfg.CacheBackend),
	)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// ----- Graceful shutdown -----
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
		return err
	case <-stop:
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return err
	}

	logger.Info("server shutdown complete")
	return nil
}
