package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-market/marketplace-service/internal/observability"
)

// MetricsHandler exposes the in-process traffic counters.
type MetricsHandler struct {
	metrics *observability.Metrics
}

// NewMetricsHandler constructs the handler.
func NewMetricsHandler(metrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Get GET /metrics.
func (h *MetricsHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.metrics.Export())
}
