package events

import (
	"time"

	"github.com/campus-market/marketplace-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventInterestCreated      EventType = "interest_created"
	EventReminderRequested    EventType = "reminder_requested"
	EventListingStatusChanged EventType = "listing_status_changed"
	EventListingDeleted       EventType = "listing_deleted"
)

// Actor identifies who triggered an event.
type Actor struct {
	SubjectID string `json:"uid"`
	Email     string `json:"email,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ListingID string      `json:"listing_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// InterestCreatedPayload carries the seller notification inputs.
type InterestCreatedPayload struct {
	InterestID   string  `json:"interest_id"`
	ListingTitle string  `json:"listing_title"`
	SellerID     string  `json:"seller_id"`
	SellerEmail  string  `json:"seller_email"`
	OfferPrice   float64 `json:"offer_price"`
}

// ReminderRequestedPayload carries a buyer's nudge to the seller.
type ReminderRequestedPayload struct {
	InterestID   string `json:"interest_id"`
	ListingTitle string `json:"listing_title"`
	SellerID     string `json:"seller_id"`
	SellerEmail  string `json:"seller_email"`
}

// ListingStatusChangedPayload records a listing status transition.
type ListingStatusChangedPayload struct {
	OldStatus domain.ListingStatus `json:"old_status"`
	NewStatus domain.ListingStatus `json:"new_status"`
}
