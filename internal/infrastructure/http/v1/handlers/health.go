package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"furnicost/internal/infrastructure/cache"
	"furnicost/internal/infrastructure/storage/postgres"
)

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BuildInfo describes the running binary.
type BuildInfo struct {
	App     string `json:"app"`
	Version string `json:"version"`
	Env     string `json:"env"`
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	db     Pinger
	stats  func() postgres.PoolStats
	caches func() []cache.Stats
	info   BuildInfo
}

// NewHealthHandler creates a new health handler. stats and caches may be nil.
func NewHealthHandler(db Pinger, stats func() postgres.PoolStats, caches func() []cache.Stats, info BuildInfo) *HealthHandler {
	return &HealthHandler{db: db, stats: stats, caches: caches, info: info}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (is the service ready to accept traffic?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"checks": map[string]string{"database": "not configured"},
		})
		return
	}

	if err := h.db.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"checks": map[string]string{
				"database": "unhealthy: " + err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": map[string]string{
			"database": "healthy",
		},
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	body := gin.H{
		"app":     h.info.App,
		"version": h.info.Version,
		"env":     h.info.Env,
	}
	if h.stats != nil {
		body["database"] = h.stats()
	}
	if h.caches != nil {
		body["caches"] = h.caches()
	}
	c.JSON(http.StatusOK, body)
}
