package handlers

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/metrics"
)

// MetricsHandler handles metrics-related HTTP requests
type MetricsHandler struct {
	metrics *metrics.Metrics
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(m *metrics.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: m}
}

// HandleGetMetrics returns all metrics
func (h *MetricsHandler) HandleGetMetrics(c *gin.Context) {
	h.metrics.SetGauge("goroutines", int64(runtime.NumGoroutine()))
	c.JSON(http.StatusOK, h.metrics.GetAllMetrics())
}

// HandleGetHealthCheck returns the overall health and the per-component flags
func (h *MetricsHandler) HandleGetHealthCheck(c *gin.Context) {
	status := http.StatusOK
	healthy := h.metrics.Healthy()
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":  healthy,
		"details": h.metrics.GetHealthChecks(),
	})
}

// RegisterRoutes registers the health route and, when exposeMetrics is set, the
// metrics route
func (h *MetricsHandler) RegisterRoutes(router gin.IRoutes, exposeMetrics bool) {
	router.GET("/health", h.HandleGetHealthCheck)
	if exposeMetrics {
		router.GET("/metrics", h.HandleGetMetrics)
	}
}
