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
	"go.uber.org/zap"

	"github.com/pentyflix/pentyflix-api/internal/api"
	"github.com/pentyflix/pentyflix-api/internal/auth"
	"github.com/pentyflix/pentyflix-api/internal/cache"
	"github.com/pentyflix/pentyflix-api/internal/db"
	"github.com/pentyflix/pentyflix-api/internal/models"
	"github.com/pentyflix/pentyflix-api/internal/reddit"
	"github.com/pentyflix/pentyflix-api/pkg/config"
	"github.com/pentyflix/pentyflix-api/pkg/logging"
	"github.com/pentyflix/pentyflix-api/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting Pentyflix API Server")

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	// Connect to the database
	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.AutoMigrate(&models.User{}, &models.NsfwKeyword{}); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Pick the listing cache backend
	var store cache.Store
	if cfg.Redis.Enabled {
		redisStore, err := cache.NewRedis(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisStore.Close()
		store = redisStore
		logger.Info("Using Redis listing cache")
	} else {
		store = cache.NewMemory()
		logger.Info("Using in-memory listing cache")
	}

	// Upstream client and content services
	client := reddit.NewClient(&cfg.Reddit)
	media := reddit.NewService(client, store, cfg.Reddit.BaseURL)
	categories := reddit.NewCategoryService(client, store, cfg.Reddit.BaseURL)

	repo := db.NewRepository(database.DB)
	keywords := db.NewKeywordRepository(repo)

	// Auth is optional: without a signing secret the register, login and
	// keyword endpoints are not served.
	var (
		tokens  *auth.TokenManager
		authSvc *auth.Service
	)
	if cfg.JWT.Secret != "" {
		tokens, err = auth.NewTokenManager(&cfg.JWT)
		if err != nil {
			logger.Fatal("Failed to configure token issuance", zap.Error(err))
		}
		authSvc = auth.NewService(db.NewUserRepository(repo), tokens)
	} else {
		logger.Warn("JWT secret not configured, auth endpoints disabled")
	}

	// Create Gin router
	if cfg.Logging.Level == "DEBUG" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	router := api.NewRouter(media, categories, authSvc, tokens, keywords)
	router.AddHealthCheck("database", database.Health)
	if redisStore, ok := store.(*cache.Redis); ok {
		router.AddHealthCheck("cache", redisStore.Health)
	}
	router.SetupRoutes(engine)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: engine,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
