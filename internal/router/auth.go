package router

import (
	"github.com/gin-gonic/gin"

	"github.com/clientbridge/crm/config"
	"github.com/clientbridge/crm/internal/handler"
	"github.com/clientbridge/crm/internal/middleware"
	"github.com/clientbridge/crm/internal/service"
	"github.com/clientbridge/crm/pkg/redis"
)

// NewAuthRouter wires the auth service's routes
func NewAuthRouter(
	cfg *config.Config,
	cache *redis.Client,
	tokens *service.TokenService,
	auth *handler.AuthHandler,
	health *handler.HealthHandler,
) *gin.Engine {
	engine := newEngine(cfg, cache, health)

	api := engine.Group("/api/auth")
	api.Use(middleware.RateLimit(cache, authRateLimit, rateWindow))
	{
		api.POST("/register", auth.Register)
		api.POST("/login", auth.Login)
		api.POST("/refresh-token", auth.Refresh)
		api.POST("/logout", auth.Logout)

		// Social login flows. The provider name is validated against the
		// configured providers inside the handler.
		api.GET("/:provider", auth.SocialBegin)
		api.GET("/:provider/callback", auth.SocialCallback)
	}

	protected := engine.Group("/api/auth")
	protected.Use(middleware.RequireAuth(tokens))
	{
		protected.GET("/profile", auth.Profile)
		protected.PUT("/profile", auth.UpdateProfile)
	}

	return engine
}
