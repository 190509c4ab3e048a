package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"catalog_service/config"
	"catalog_service/internal/delivery"
	"catalog_service/internal/domain"
	"catalog_service/internal/middleware"
	"catalog_service/internal/ratelimit"
	"catalog_service/internal/repository"
	"catalog_service/internal/usecase"
	"catalog_service/pkg/cache"
	"catalog_service/pkg/clock"
	"catalog_service/pkg/db"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	//  Configuration and Logging Setup
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.LoadConfig(logger)
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	logger.Info("Starting Catalog Service...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	database, err := db.Connect(ctx, cfg.DatabaseURL, db.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	if err := db.EnsureSchema(ctx, database); err != nil {
		logger.Fatalf("Failed to prepare database schema: %v", err)
	}
	logger.Info("Database connection established.")

	// --- Redis Connection ---
	rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatalf("Failed to connect to redis: %v", err)
	}
	defer rdb.Close()
	logger.Info("Redis connection established.")

	// --- Dependency Injection ---
	limitedActions, err := domain.ParseActions(cfg.RateLimitActions)
	if err != nil {
		logger.Fatalf("Invalid RATE_LIMIT_ACTIONS: %v", err)
	}
	limiter := ratelimit.NewLimiter(
		ratelimit.NewRedisCounterStore(rdb),
		logger,
		ratelimit.WithMaxActions(cfg.RateLimitMax),
		ratelimit.WithWindow(cfg.RateLimitWindow),
		ratelimit.WithLimitedActions(limitedActions...),
	)

	productRepo := repository.NewPostgresProductRepository(database, logger)
	productUseCase := usecase.NewProductUseCase(productRepo, limiter, clock.RealClock{}, logger)
	productHandler := delivery.NewProductHandler(productUseCase, logger)
	healthHandler := delivery.NewHealthHandler(map[string]delivery.HealthCheck{
		"postgres": database.PingContext,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}, logger)

	if logLevel != logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))

	//Route Registration
	healthHandler.RegisterRoutes(router)
	productHandler.RegisterRoutes(router, limiter.Limits(domain.ActionDelete))
	logger.Info("API Routes registered.")

	//  Start Server
	srv := &http.Server{
		Addr:    cfg.HTTPPort,
		Handler: router,
	}
	go func() {
		logger.Infof("Starting server on port %s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, draining connections...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
	logger.Info("Server stopped.")
}
