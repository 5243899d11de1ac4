package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"swapi-gateway/internal/cache"
	"swapi-gateway/internal/handlers"
	"swapi-gateway/internal/metrics"
	"swapi-gateway/internal/middleware"
	"swapi-gateway/pkg/logging/logging"
)

type Options struct {
	RequestTimeout time.Duration
	// Ready is pinged by /readyz. Nil means always ready.
	Ready cache.Pinger
}

func SetupRouter(r *chi.Mux, baseLogger *zap.Logger, opts Options, charactersHandler *handlers.CharactersHandler) {

	r.Use(metrics.Middleware)

	// base middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)

	r.Use(middleware.LoggingContext(baseLogger))
	r.Use(middleware.Recoverer())
	r.Use(middleware.CORS())

	// routes
	r.Route("/api", func(r chi.Router) {
		r.With(middleware.Timeout(opts.RequestTimeout)).Get("/characters", charactersHandler.List)
	})

	// health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if opts.Ready != nil {
			if err := opts.Ready.Ping(r.Context()); err != nil {
				logging.L(r.Context()).Warn("readiness check failed", zap.Error(err))
				http.Error(w, "cache unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", metrics.Handler())
}
