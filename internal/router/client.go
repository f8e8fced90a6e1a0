package router

import (
	"github.com/gin-gonic/gin"

	"github.com/clientbridge/crm/config"
	"github.com/clientbridge/crm/internal/handler"
	"github.com/clientbridge/crm/internal/middleware"
	"github.com/clientbridge/crm/internal/service"
	"github.com/clientbridge/crm/pkg/redis"
)

// NewClientRouter wires the client service's routes. Everything here needs a
// session; deleting clients needs the admin role.
func NewClientRouter(
	cfg *config.Config,
	cache *redis.Client,
	tokens *service.TokenService,
	clients *handler.ClientHandler,
	contacts *handler.ContactHandler,
	interactions *handler.InteractionHandler,
	health *handler.HealthHandler,
) *gin.Engine {
	engine := newEngine(cfg, cache, health)

	api := engine.Group("/api/clients")
	api.Use(middleware.RequireAuth(tokens))
	{
		api.GET("", clients.List)
		api.GET("/stats", clients.Stats)
		api.POST("", clients.Create)
		api.GET("/:id", clients.Get)
		api.PUT("/:id", clients.Update)
		api.DELETE("/:id", middleware.RequireAdmin(), clients.Delete)

		api.GET("/:id/documents", clients.Documents)

		api.GET("/:id/contacts", contacts.List)
		api.GET("/:id/contacts/primary", contacts.GetPrimary)
		api.POST("/:id/contacts", contacts.Create)
		api.PUT("/:id/contacts/:contactId", contacts.Update)
		api.PUT("/:id/contacts/:contactId/primary", contacts.SetPrimary)
		api.DELETE("/:id/contacts/:contactId", contacts.Deactivate)

		api.GET("/:id/interactions", interactions.List)
		api.POST("/:id/interactions", interactions.Create)
		api.PUT("/:id/interactions/:interactionId", interactions.Update)
		api.DELETE("/:id/interactions/:interactionId", interactions.Delete)
	}

	return engine
}
