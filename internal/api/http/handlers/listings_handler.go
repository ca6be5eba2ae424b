package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-market/marketplace-service/internal/api/dto"
	"github.com/campus-market/marketplace-service/internal/auth"
	"github.com/campus-market/marketplace-service/internal/blob"
	"github.com/campus-market/marketplace-service/internal/domain"
	"github.com/campus-market/marketplace-service/internal/service"
	apperrors "github.com/campus-market/marketplace-service/pkg/util"
)

// ListingsHandler manages listing endpoints.
type ListingsHandler struct {
	listings       *service.ListingService
	interests      *service.InterestService
	maxUploadBytes int64
}

// NewListingsHandler constructs the handler.
func NewListingsHandler(listings *service.ListingService, interests *service.InterestService, maxUploadBytes int64) *ListingsHandler {
	return &ListingsHandler{listings: listings, interests: interests, maxUploadBytes: maxUploadBytes}
}

// List GET /listings.
func (h *ListingsHandler) List(c *fiber.Ctx) error {
	query := service.ListingQuery{}
	if status := c.Query("status"); status != "" {
		s := domain.ListingStatus(status)
		query.Status = &s
	}
	if mode := c.Query("mode"); mode != "" {
		query.Mode = &mode
	}
	var err error
	if query.MinPrice, err = parsePriceQuery(c, "minPrice"); err != nil {
		return err
	}
	if query.MaxPrice, err = parsePriceQuery(c, "maxPrice"); err != nil {
		return err
	}

	listings, err := h.listings.List(c.UserContext(), query)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewListingResponses(listings))
}

// Mine GET /listings/mine.
func (h *ListingsHandler) Mine(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	listings, err := h.listings.Mine(c.UserContext(), *identity)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewListingResponses(listings))
}

// Create POST /listings (multipart form).
func (h *ListingsHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	priceRaw := c.FormValue("price")
	if priceRaw == "" {
		return apperrors.NewValidationError("price required", nil)
	}
	price, err := strconv.ParseFloat(priceRaw, 64)
	if err != nil {
		return apperrors.NewValidationError("price must be a number", nil)
	}

	input := service.ListingCreateInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Price:       price,
		Location:    c.FormValue("location"),
		Category:    c.FormValue("category"),
		Mode:        c.FormValue("mode"),
		Phone:       c.FormValue("phone"),
	}

	if header, err := c.FormFile("image"); err == nil && header != nil {
		contentType := header.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			return apperrors.NewValidationError("only image files are allowed", nil)
		}
		if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
			return apperrors.NewValidationError("file too large", map[string]any{"maxBytes": h.maxUploadBytes})
		}
		file, err := header.Open()
		if err != nil {
			return apperrors.NewValidationError("unreadable image upload", nil)
		}
		defer file.Close()
		input.Image = &blob.Upload{
			Body:        file,
			Filename:    header.Filename,
			ContentType: contentType,
			Size:        header.Size,
		}
	}

	listing, err := h.listings.Create(c.UserContext(), *identity, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewListingResponse(listing))
}

// Update PUT|PATCH /listings/:id.
func (h *ListingsHandler) Update(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateListingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input := service.ListingUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		Category:    req.Category,
		Mode:        req.Mode,
	}
	listing, err := h.listings.Update(c.UserContext(), *identity, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewListingResponse(listing))
}

// UpdateStatus PATCH /listings/:id/status.
func (h *ListingsHandler) UpdateStatus(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	listing, err := h.listings.ChangeStatus(c.UserContext(), *identity, c.Params("id"), domain.ListingStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewListingResponse(listing))
}

// Delete DELETE /listings/:id.
func (h *ListingsHandler) Delete(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.listings.Delete(c.UserContext(), *identity, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "listing deleted successfully"})
}

// CreateInterest POST /listings/:id/interest.
func (h *ListingsHandler) CreateInterest(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateInterestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidOffer("invalid payload")
	}
	interest, err := h.interests.Create(c.UserContext(), *identity, c.Params("id"), req.OfferPrice, req.Comment)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"interestId": interest.ID,
		"interest":   dto.NewInterestResponse(interest),
	})
}

// ListInterests GET /listings/:id/interests.
func (h *ListingsHandler) ListInterests(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	interests, err := h.interests.ListForListing(c.UserContext(), *identity, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewInterestResponses(interests))
}

func parsePriceQuery(c *fiber.Ctx, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.NewValidationError(name+" must be a number", nil)
	}
	return &val, nil
}
