package domain

import "time"

// InterestStatus enumerates interest lifecycle states.
type InterestStatus string

const (
	InterestStatusPending InterestStatus = "pending"
)

// Party is a denormalized identity reference on an interest.
type Party struct {
	SubjectID   string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"username,omitempty"`
}

// Interest is a buyer's offer on a listing. Seller identity and listing
// title are snapshots taken at creation time; later listing edits do not
// propagate back, interests are historical records.
type Interest struct {
	ID               string
	ListingID        string
	ListingTitle     string
	Buyer            Party
	Seller           Party
	OfferPrice       float64
	Comment          string
	Status           InterestStatus
	CreatedAt        time.Time
	LastReminderSent *time.Time

	// Listing is populated on the buyer's own-interests view when the
	// referenced listing still resolves. The reference is weak.
	Listing *Listing
}
