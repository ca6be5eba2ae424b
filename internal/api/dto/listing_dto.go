package dto

import (
	"time"

	"github.com/campus-market/marketplace-service/internal/domain"
)

// OwnerResponse is the public owner projection on listings.
type OwnerResponse struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Phone    string `json:"phone,omitempty"`
}

// ImageResponse references the uploaded listing image.
type ImageResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// ListingResponse is the wire shape of a listing.
type ListingResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Location    string         `json:"location"`
	Category    string         `json:"category"`
	Mode        string         `json:"mode,omitempty"`
	Image       *ImageResponse `json:"image,omitempty"`
	ImageURL    string         `json:"imageUrl,omitempty"`
	Owner       OwnerResponse  `json:"owner"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// UpdateListingRequest carries a partial listing edit. Protected fields
// (status, owner, timestamps) are not representable here.
type UpdateListingRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Location    *string  `json:"location"`
	Category    *string  `json:"category"`
	Mode        *string  `json:"mode"`
}

// UpdateStatusRequest carries a requested status transition.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// NewListingResponse projects a domain listing.
func NewListingResponse(l *domain.Listing) ListingResponse {
	resp := ListingResponse{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Location:    l.Location,
		Category:    l.Category,
		Mode:        l.Mode,
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
		Owner: OwnerResponse{
			UID:      l.Owner.SubjectID,
			Email:    l.Owner.Email,
			Username: l.Owner.DisplayName,
			Phone:    l.Owner.Phone,
		},
	}
	if l.Image != nil {
		resp.Image = &ImageResponse{URL: l.Image.URL, Key: l.Image.Key}
		resp.ImageURL = l.Image.URL
	}
	return resp
}

// NewListingResponses projects a slice.
func NewListingResponses(listings []domain.Listing) []ListingResponse {
	items := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		items = append(items, NewListingResponse(&listings[i]))
	}
	return items
}
