package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	configs "github.com/clientbridge/crm/config"
	"github.com/clientbridge/crm/internal/constants"
	"github.com/clientbridge/crm/internal/handler"
	"github.com/clientbridge/crm/internal/repository"
	"github.com/clientbridge/crm/internal/router"
	"github.com/clientbridge/crm/internal/service"
	"github.com/clientbridge/crm/pkg/database"
	"github.com/clientbridge/crm/pkg/logger"
	"github.com/clientbridge/crm/pkg/redis"
)

func main() {
	config, err := configs.LoadConfig(constants.ServiceJob)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Service starting",
		zap.String("service", constants.ServiceJob),
		zap.String("environment", config.App.Environment),
		zap.String("version", constants.AppVersion),
	)

	db, err := database.NewPostgresDB(config.Database)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.Migrate(db, constants.ServiceJob); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	var cache *redis.Client
	if config.Redis.Enabled {
		cache, err = redis.NewClient(config)
		if err != nil {
			logger.GetLogger().Warn("Redis unavailable, rate limiting disabled", zap.Error(err))
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	// Repositories
	jobRepo := repository.NewJobRepository(db)

	// Services
	tokenService := service.NewTokenService(config)
	jobService := service.NewJobService(jobRepo)

	// Handlers
	jobHandler := handler.NewJobHandler(jobService)
	healthHandler := handler.NewHealthHandler(db, cache, constants.ServiceJob)

	engine := router.NewJobRouter(config, cache, tokenService, jobHandler, healthHandler)

	server := &http.Server{
		Addr:    ":" + config.App.Port,
		Handler: engine,
	}

	go func() {
		logger.GetLogger().Info("Server listening",
			zap.String("port", config.App.Port),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.GetLogger().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().Error("Forced shutdown", zap.Error(err))
	}
}
