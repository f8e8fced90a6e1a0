package router

import (
	"github.com/gin-gonic/gin"

	"github.com/clientbridge/crm/config"
	"github.com/clientbridge/crm/internal/handler"
	"github.com/clientbridge/crm/internal/middleware"
	"github.com/clientbridge/crm/internal/service"
	"github.com/clientbridge/crm/pkg/redis"
)

// NewJobRouter wires the job service's routes. Browsing is public;
// posting and editing require a session.
func NewJobRouter(
	cfg *config.Config,
	cache *redis.Client,
	tokens *service.TokenService,
	jobs *handler.JobHandler,
	health *handler.HealthHandler,
) *gin.Engine {
	engine := newEngine(cfg, cache, health)

	public := engine.Group("/api/jobs")
	{
		public.GET("", jobs.List)
		public.GET("/:id", jobs.Get)
	}

	protected := engine.Group("/api/jobs")
	protected.Use(middleware.RequireAuth(tokens))
	{
		protected.GET("/mine", jobs.ListMine)
		protected.POST("", jobs.Create)
		protected.PUT("/:id", jobs.Update)
		protected.DELETE("/:id", jobs.Delete)
	}

	return engine
}
