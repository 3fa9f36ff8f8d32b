package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/gateway/cache"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/gateway/handlers"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/gateway/providers"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/gateway/requestlog"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/gateway/router"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/config"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/database"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/logger"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/metrics"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/redis"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "router: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.Init(logger.Options{Level: cfg.LogLevel, Env: cfg.Env, File: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	log.Infow("Starting cost-control smart router", "port", cfg.Port, "env", cfg.Env)
	for _, key := range cfg.MissingProviderKeys() {
		log.Warnw("Provider credential not set, requests for its tiers will return an error result", "env", key)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := database.New(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Infow("Connected to database", "driver", db.Driver())

	// Initialize Redis (optional)
	var limiter handlers.RateLimiter = handlers.NewLocalLimiter()
	var resultCache router.ResultCache
	if cfg.RedisURL != "" {
		redisClient, err := redis.New(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		defer redisClient.Close()
		log.Info("Connected to Redis")

		limiter = redisClient
		if cfg.CacheEnabled {
			resultCache = cache.New(redisClient, cfg.CacheTTL())
			log.Infow("Response cache enabled", "ttl", cfg.CacheTTL())
		}
	} else if cfg.CacheEnabled {
		log.Warn("CACHE_ENABLED is set but REDIS_URL is empty, caching disabled")
	}

	// Initialize provider manager
	providerMgr, err := providers.NewManager(ctx, cfg, logger.Named("dispatcher"))
	if err != nil {
		return fmt.Errorf("failed to initialize providers: %w", err)
	}
	log.Info("Initialized LLM providers")

	service := router.NewService(
		providerMgr,
		requestlog.NewRecorder(db, logger.Named("requestlog")),
		db,
		resultCache,
		logger.Named("router"),
	)

	// Initialize handlers
	routerHandler := handlers.NewRouterHandler(service, cfg.LogsDefaultLimit, logger.Named("http"))
	middleware := handlers.NewMiddleware(limiter, cfg.RateLimitPerMinute, logger.Named("http"))

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLogMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(middleware.CORSMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.With(middleware.RateLimitMiddleware).Post("/generate", routerHandler.HandleGenerate)
	r.Get("/logs", routerHandler.HandleLogs)
	r.Get("/stats", routerHandler.HandleStats)

	// HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infow("Server listening",
			"addr", "http://localhost:"+cfg.Port,
			"routes", []string{"POST /generate", "GET /logs", "GET /stats", "GET /health", "GET /metrics"},
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal or a listener failure
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Infow("Shutting down gracefully", "signal", sig.String())
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server shutdown error", "error", err)
	}

	log.Info("Server stopped")
	return nil
}
