package handlers

import (
	"net/http"
	"time"

	"github.com/eduforge/eduforge-api/internal/monitoring"
	"github.com/gin-gonic/gin"
)

// HealthHandler serves the liveness and detailed health endpoints
type HealthHandler struct {
	collector   *monitoring.Collector
	serviceName string
}

func NewHealthHandler(collector *monitoring.Collector, serviceName string) *HealthHandler {
	return &HealthHandler{
		collector:   collector,
		serviceName: serviceName,
	}
}

// Healthcheck handles GET /health. It answers without touching dependencies
// so the connectivity probe used by the booking widget stays cheap.
func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   h.serviceName,
	})
}

// DetailedHealth handles GET /health/detailed: runs every registered
// dependency probe and reports per-check results.
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	report := h.collector.HealthReport(c.Request.Context())

	status := http.StatusOK
	if report.Status == monitoring.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}
