package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthHandler reports process liveness. The service has no backing store,
// so readiness only depends on the handler having been constructed.
type HealthHandler struct {
	logger    *zap.Logger
	startTime time.Time
	version   string
}

func NewHealthHandler(logger *zap.Logger, version string) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		startTime: time.Now(),
		version:   version,
	}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "alive",
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
	})
}

func (h *HealthHandler) Readiness(c *gin.Context) {
	c.Header("X-Service-Version", h.version)
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ready",
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
	})
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.Header("X-Service-Version", h.version)
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
