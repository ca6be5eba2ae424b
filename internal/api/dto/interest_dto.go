package dto

import (
	"time"

	"github.com/campus-market/marketplace-service/internal/domain"
)

// CreateInterestRequest carries an offer on a listing. OfferPrice is a
// pointer so an absent field is distinguishable from zero.
type CreateInterestRequest struct {
	OfferPrice *float64 `json:"offerPrice"`
	Comment    string   `json:"comment"`
}

// PartyResponse is the wire shape of a buyer or seller reference.
type PartyResponse struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}

// InterestResponse is the wire shape of an interest.
type InterestResponse struct {
	ID               string           `json:"id"`
	ListingID        string           `json:"listingId"`
	ListingTitle     string           `json:"listingTitle,omitempty"`
	Buyer            PartyResponse    `json:"buyer"`
	Seller           PartyResponse    `json:"seller"`
	OfferPrice       float64          `json:"offerPrice"`
	Comment          string           `json:"comment,omitempty"`
	Status           string           `json:"status"`
	CreatedAt        time.Time        `json:"createdAt"`
	LastReminderSent *time.Time       `json:"lastReminderSent,omitempty"`
	Listing          *ListingResponse `json:"listing,omitempty"`
}

// NewInterestResponse projects a domain interest.
func NewInterestResponse(i *domain.Interest) InterestResponse {
	resp := InterestResponse{
		ID:           i.ID,
		ListingID:    i.ListingID,
		ListingTitle: i.ListingTitle,
		Buyer: PartyResponse{
			UID:      i.Buyer.SubjectID,
			Email:    i.Buyer.Email,
			Username: i.Buyer.DisplayName,
		},
		Seller: PartyResponse{
			UID:      i.Seller.SubjectID,
			Email:    i.Seller.Email,
			Username: i.Seller.DisplayName,
		},
		OfferPrice:       i.OfferPrice,
		Comment:          i.Comment,
		Status:           string(i.Status),
		CreatedAt:        i.CreatedAt,
		LastReminderSent: i.LastReminderSent,
	}
	if i.Listing != nil {
		listing := NewListingResponse(i.Listing)
		resp.Listing = &listing
	}
	return resp
}

// NewInterestResponses projects a slice.
func NewInterestResponses(interests []domain.Interest) []InterestResponse {
	items := make([]InterestResponse, 0, len(interests))
	for i := range interests {
		items = append(items, NewInterestResponse(&interests[i]))
	}
	return items
}
