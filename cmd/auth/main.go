package main

import (
	"context"
	"errors"
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
	config, err := configs.LoadConfig(constants.ServiceAuth)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Service starting",
		zap.String("service", constants.ServiceAuth),
		zap.String("environment", config.App.Environment),
		zap.String("version", constants.AppVersion),
	)

	db, err := database.NewPostgresDB(config.Database)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.Migrate(db, constants.ServiceAuth); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	if err := database.Seed(db); err != nil {
		logger.GetLogger().Error("Failed to seed database", zap.Error(err))
		// Don't fail - seed data may already exist
	}

	var cache *redis.Client
	if config.Redis.Enabled {
		cache, err = redis.NewClient(config)
		if err != nil {
			// Social login needs the state store; local login works without.
			logger.GetLogger().Warn("Redis unavailable, social login disabled", zap.Error(err))
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)

	// Services
	tokenService := service.NewTokenService(config)
	sessionService := service.NewSessionService(userRepo, tokenService)

	var socialService *service.SocialService
	if cache != nil {
		socialService = service.NewSocialService(config, cache)
	} else {
		socialService = service.NewSocialService(config, noStateStore{})
	}

	// Handlers
	authHandler := handler.NewAuthHandler(sessionService, socialService, config)
	healthHandler := handler.NewHealthHandler(db, cache, constants.ServiceAuth)

	engine := router.NewAuthRouter(config, cache, tokenService, authHandler, healthHandler)

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

// noStateStore stands in when Redis is disabled: OAuth flows fail cleanly
// instead of panicking on a nil store.
type noStateStore struct{}

func (noStateStore) SetOnce(ctx context.Context, key, value string, ttl time.Duration) error {
	return errors.New("state store unavailable")
}

func (noStateStore) TakeOnce(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}
