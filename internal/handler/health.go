package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clientbridge/crm/internal/constants"
	"github.com/clientbridge/crm/pkg/database"
	"github.com/clientbridge/crm/pkg/redis"
)

// HealthHandler reports service liveness and dependency health. The cache is
// optional; services running without Redis skip that check.
type HealthHandler struct {
	db          *gorm.DB
	cache       *redis.Client
	serviceName string
	startedAt   time.Time
}

func NewHealthHandler(db *gorm.DB, cache *redis.Client, serviceName string) *HealthHandler {
	return &HealthHandler{
		db:          db,
		cache:       cache,
		serviceName: serviceName,
		startedAt:   time.Now(),
	}
}

// Health handles GET /health. Liveness only; always 200 while the process
// can serve.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.serviceName,
		"version": constants.AppVersion,
		"uptime":  time.Since(h.startedAt).String(),
	})
}

// Ready handles GET /health/ready. Readiness covers the database and, when
// configured, Redis.
func (h *HealthHandler) Ready(c *gin.Context) {
	overall := "ok"
	status := http.StatusOK
	checks := gin.H{}

	dbStatus := "ok"
	if err := database.Ping(c.Request.Context(), h.db); err != nil {
		dbStatus = "unreachable"
		overall = "degraded"
		status = http.StatusServiceUnavailable
	}
	checks["database"] = dbStatus

	if h.cache != nil {
		redisStatus := "ok"
		if err := h.cache.Ping(c.Request.Context()); err != nil {
			redisStatus = "unreachable"
			overall = "degraded"
			status = http.StatusServiceUnavailable
		}
		checks["redis"] = redisStatus
	}

	c.JSON(status, gin.H{
		"status":  overall,
		"service": h.serviceName,
		"checks":  checks,
	})
}
