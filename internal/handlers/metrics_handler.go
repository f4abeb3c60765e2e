package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/eduforge/eduforge-api/internal/monitoring"
	"github.com/eduforge/eduforge-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// streamInterval is how often the SSE endpoint pushes a fresh snapshot.
const streamInterval = 5 * time.Second

// MetricsHandler serves the collector snapshot, both as a one-shot JSON
// document and as a server-sent event stream for the live dashboard.
type MetricsHandler struct {
	collector *monitoring.Collector
}

func NewMetricsHandler(collector *monitoring.Collector) *MetricsHandler {
	return &MetricsHandler{collector: collector}
}

// Snapshot handles GET /api/metrics
func (h *MetricsHandler) Snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.collector.Snapshot())
}

// Stream handles GET /api/metrics/stream. It pushes a snapshot immediately
// and then every interval until the client disconnects.
func (h *MetricsHandler) Stream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	if !h.writeSnapshot(c) {
		return
	}

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	clientGone := c.Request.Context().Done()
	for {
		select {
		case <-clientGone:
			logger.Debug("Metrics stream client disconnected",
				zap.String("client_ip", c.ClientIP()))
			return
		case <-ticker.C:
			if !h.writeSnapshot(c) {
				return
			}
		}
	}
}

func (h *MetricsHandler) writeSnapshot(c *gin.Context) bool {
	payload, err := json.Marshal(h.collector.Snapshot())
	if err != nil {
		logger.Error("Failed to marshal metrics snapshot", zap.Error(err))
		return false
	}

	if _, err := c.Writer.WriteString("data: " + string(payload) + "\n\n"); err != nil {
		return false
	}
	c.Writer.Flush()
	return true
}
