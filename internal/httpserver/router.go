package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"stockdash-gateway/internal/handlers"
	"stockdash-gateway/internal/metrics"
	"stockdash-gateway/internal/middleware"
)

type Options struct {
	// RequestTimeout bounds each request; 0 disables the timeout.
	RequestTimeout time.Duration
	// AllowedOrigins for CORS. Empty means any origin.
	AllowedOrigins []string
}

func SetupRouter(r *chi.Mux, baseLogger *zap.Logger, market *handlers.MarketHandler, opts Options) {
	r.Use(metrics.Middleware)

	// base middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)

	r.Use(middleware.LoggingContext(baseLogger))
	r.Use(middleware.Recoverer())

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Use(middleware.Timeout(opts.RequestTimeout))

	r.Get("/", market.Root)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", market.Search)
		r.Get("/top-performers", market.TopPerformers)
		r.Get("/quote", market.Quote)
		r.Get("/company-info", market.CompanyInfo)
		r.Get("/historical-data", market.HistoricalData)
	})

	// health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", metrics.Handler())
}
