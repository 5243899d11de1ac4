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

	"swapi-gateway/internal/cache"
	"swapi-gateway/internal/catalog"
	"swapi-gateway/internal/handlers"
	"swapi-gateway/internal/httpserver"
	"swapi-gateway/internal/metrics"
	"swapi-gateway/internal/swapi"
	"swapi-gateway/pkg/logging/logging"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("gateway exited with error: %v", err)
	}
}

func run() error {
	// ----- Config -----
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	// ----- Logger -----
	logger := logging.NewLogger(logging.Options{Env: cfg.Env, Level: cfg.LogLevel})
	logging.SetDefault(logger)
	defer logger.Sync()

	// ----- Metrics -----
	metrics.Register()

	logger.Info("loaded config",
		zap.String("port", cfg.Port),
		zap.String("cache_backend", cfg.CacheBackend),
		zap.String("redis_addr", cfg.RedisAddr),
		zap.String("swapi_base_url", cfg.SwapiBaseURL),
		zap.Duration("entity_cache_ttl", cfg.EntityCacheTTL),
		zap.Int("page_size", cfg.PageSize),
		zap.Int("fanout_limit", cfg.FanoutLimit),
		zap.Bool("catalog_dedup", cfg.CatalogDedup),
	)

	// ----- Redis client (only if needed) -----
	var redisClient *redis.Client
	if cfg.CacheBackend == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		defer redisClient.Close()

		// Fail fast if Redis is misconfigured
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Error("redis connection failed", zap.Error(err))
			return err
		}
		logger.Info("redis connection established",
			zap.String("addr", cfg.RedisAddr),
		)
	}

	// ----- Cache -----
	baseStore := cache.NewStore(cache.Config{
		Backend:         cfg.CacheBackend,
		Prefix:          cfg.CachePrefix,
		MaxEntries:      cfg.CacheMaxEntries,
		CleanupInterval: cfg.CacheCleanupInterval,
	}, redisClient)
	if closer, ok := baseStore.(interface{ Close() error }); ok {
		defer closer.Close()
	}
	store := cache.NewLoggingStore(baseStore)

	// ----- Upstream client -----
	swapiClient, err := swapi.NewClient(cfg.swapiConfig(), logger)
	if err != nil {
		return err
	}
	defer swapiClient.Close()

	// ----- Catalog -----
	assembler := catalog.NewAssembler(swapiClient, store, catalog.AssemblerConfig{
		EntityTTL: cfg.EntityCacheTTL,
		Dedup:     cfg.CatalogDedup,
	})
	orchestrator := catalog.NewOrchestrator(swapiClient, assembler, store, catalog.OrchestratorConfig{
		PageSize:    cfg.PageSize,
		FanoutLimit: cfg.FanoutLimit,
	})

	// ----- Handlers -----
	charactersHandler := handlers.NewCharactersHandler(orchestrator)

	// ----- Router + middleware -----
	r := chi.NewRouter()
	httpserver.SetupRouter(r, logger, httpserver.Options{
		RequestTimeout: cfg.RequestTimeout,
		Ready:          store,
	}, charactersHandler)

	// ----- HTTP server -----
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("starting gateway",
		zap.String("addr", srv.Addr),
		zap.String("cache_backend", cfg.CacheBackend),
	)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// ----- Graceful shutdown -----
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			logger.Error("server error", zap.Error(err))
			return err
		}
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
