package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-market/marketplace-service/internal/api/dto"
	"github.com/campus-market/marketplace-service/internal/auth"
	"github.com/campus-market/marketplace-service/internal/service"
	apperrors "github.com/campus-market/marketplace-service/pkg/util"
)

// InterestsHandler manages interest endpoints.
type InterestsHandler struct {
	interests *service.InterestService
}

// NewInterestsHandler constructs the handler.
func NewInterestsHandler(interests *service.InterestService) *InterestsHandler {
	return &InterestsHandler{interests: interests}
}

// ListForListing GET /interests?listingId=.
func (h *InterestsHandler) ListForListing(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	listingID := c.Query("listingId")
	if listingID == "" {
		return apperrors.NewValidationError("listingId query parameter is required", nil)
	}
	interests, err := h.interests.ListForListing(c.UserContext(), *identity, listingID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewInterestResponses(interests))
}

// Mine GET /interests/my.
func (h *InterestsHandler) Mine(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	interests, err := h.interests.ListMine(c.UserContext(), *identity)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewInterestResponses(interests))
}

// Revoke DELETE /interests/:id.
func (h *InterestsHandler) Revoke(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.interests.Revoke(c.UserContext(), *identity, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "interest revoked successfully"})
}

// Remind POST /interests/:id/remind.
func (h *InterestsHandler) Remind(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.interests.Remind(c.UserContext(), *identity, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "reminder sent to seller successfully"})
}
