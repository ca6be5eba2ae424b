package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-market/marketplace-service/internal/auth"
	"github.com/campus-market/marketplace-service/internal/service"
	apperrors "github.com/campus-market/marketplace-service/pkg/util"
)

// StatsHandler serves the caller's activity summary.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs the handler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Get GET /stats.
func (h *StatsHandler) Get(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	stats, err := h.stats.Compute(c.UserContext(), *identity)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
