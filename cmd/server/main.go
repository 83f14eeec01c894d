package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/contract-advisor/internal/api"
	"github.com/jstittsworth/contract-advisor/internal/api/handlers"
	"github.com/jstittsworth/contract-advisor/internal/api/middleware"
	"github.com/jstittsworth/contract-advisor/internal/models"
	"github.com/jstittsworth/contract-advisor/internal/services"
	"github.com/jstittsworth/contract-advisor/internal/valuation"
	"github.com/jstittsworth/contract-advisor/pkg/config"
	"github.com/jstittsworth/contract-advisor/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	logger := logrus.StandardLogger()
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.Contract{}, &models.PlayerSeason{}); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize services
	cacheService := services.NewCacheService(redisClient)
	contractService := services.NewContractService(db, cacheService, cfg.CacheTTL(), logger)

	provider := services.NewStatsProviderClient(
		cfg.StatsAPIBaseURL,
		cfg.StatsAPIKey,
		cfg.StatsRateLimit,
		cfg.ExternalAPITimeout,
		cfg.CircuitBreakerThreshold,
		logger,
	)
	statsService := services.NewStatsService(db, provider, cacheService, cfg.CacheTTL(), logger)

	// Load model artifacts. A failed load still starts the server; the
	// readiness probe reports not_ready until a reload succeeds.
	store := valuation.NewStore(logger)
	if err := store.Load(cfg.ModelDir); err != nil {
		logrus.Errorf("Failed to load model artifacts: %v", err)
	}

	tuning := tuningFromConfig(cfg)
	engine := valuation.NewEngine(store, contractService, statsService, tuning, logger)

	// Background stats refresh
	var refresher *services.StatsRefresherService
	if cfg.EnableBackgroundJobs {
		refresher = services.NewStatsRefresherService(statsService, cfg.StatsRefreshSchedule, logger)
		if err := refresher.Start(!cfg.SkipInitialStatsSync); err != nil {
			logrus.Errorf("Failed to start stats refresher: %v", err)
		} else {
			defer refresher.Stop()
		}
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(cfg.CorsOrigins))

	// Health endpoints at root level
	healthHandler := handlers.NewHealthHandler(engine, db)
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	// Setup API routes under /api/v1
	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, api.Deps{
		DB:        db,
		Engine:    engine,
		Store:     store,
		Contracts: contractService,
		Stats:     statsService,
		Refresher: refresher,
		Config:    cfg,
		Logger:    logger,
	})

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

func tuningFromConfig(cfg *config.Config) valuation.Tuning {
	tuning := valuation.DefaultTuning()
	tuning.Similarity = valuation.SimilarityWeights{
		Position:    cfg.SimilarityPositionWeight,
		Performance: cfg.SimilarityPerformanceWeight,
		Age:         cfg.SimilarityAgeWeight,
		Recency:     cfg.SimilarityRecencyWeight,
	}
	tuning.ExtensionMaxAge = cfg.ExtensionMaxAge
	tuning.ExtensionMinLength = cfg.ExtensionMinLength
	tuning.ConfidenceCap = cfg.ConfidenceCap
	tuning.AAVFloor = cfg.AAVFloor
	tuning.TopComparables = cfg.TopComparables
	tuning.TopFeatures = cfg.TopFeatures
	return tuning
}
