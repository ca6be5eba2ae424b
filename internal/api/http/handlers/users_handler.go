package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-market/marketplace-service/internal/api/dto"
	"github.com/campus-market/marketplace-service/internal/auth"
	"github.com/campus-market/marketplace-service/internal/domain"
	"github.com/campus-market/marketplace-service/internal/service"
	apperrors "github.com/campus-market/marketplace-service/pkg/util"
)

// UsersHandler manages profile endpoints.
type UsersHandler struct {
	profiles *service.ProfileService
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(profiles *service.ProfileService) *UsersHandler {
	return &UsersHandler{profiles: profiles}
}

// Me GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	profile, err := h.profiles.GetOrCreate(c.UserContext(), *identity)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProfileResponse(profile))
}

// UpdateMe PUT /users/me.
func (h *UsersHandler) UpdateMe(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	patch := domain.ProfilePatch{
		FullName:           req.FullName,
		Phone:              req.Phone,
		RegistrationNumber: req.RegistrationNumber,
	}
	profile, err := h.profiles.Update(c.UserContext(), *identity, patch)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProfileResponse(profile))
}

// GetByID GET /users/:uid.
func (h *UsersHandler) GetByID(c *fiber.Ctx) error {
	profile, err := h.profiles.GetByID(c.UserContext(), c.Params("uid"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProfileResponse(profile))
}
