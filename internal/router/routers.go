package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clientbridge/crm/config"
	"github.com/clientbridge/crm/internal/handler"
	"github.com/clientbridge/crm/internal/middleware"
	"github.com/clientbridge/crm/pkg/redis"
)

// Rate limit defaults. Auth endpoints get a tighter budget than the rest
// because they are the brute-force target.
const (
	defaultRateLimit = 300
	authRateLimit    = 20
	rateWindow       = time.Minute
)

// newEngine builds a gin engine with the middleware stack every service
// shares.
func newEngine(cfg *config.Config, cache *redis.Client, health *handler.HealthHandler) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.RequestLogging())
	engine.Use(middleware.CORS(cfg))
	engine.Use(middleware.RateLimit(cache, defaultRateLimit, rateWindow))

	engine.GET("/health", health.Health)
	engine.GET("/health/ready", health.Ready)

	return engine
}
