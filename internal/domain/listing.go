package domain

import "time"

// ListingStatus enumerates lifecycle states for listings.
type ListingStatus string

const (
	ListingStatusActive  ListingStatus = "active"
	ListingStatusClosed  ListingStatus = "closed"
	ListingStatusDeleted ListingStatus = "deleted"
)

// MutableListingStatus reports whether a status may be requested through the
// status-change operation. Deletion is a distinct one-way operation and is
// never reachable here.
func MutableListingStatus(s ListingStatus) bool {
	return s == ListingStatusActive || s == ListingStatusClosed
}

// Owner is the denormalized identity of the listing creator.
type Owner struct {
	SubjectID   string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"username"`
	Phone       string `json:"phone,omitempty"`
}

// ListingImage references an uploaded image in the blob store.
type ListingImage struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// Listing is the aggregate for marketplace items and services.
// Owner.SubjectID is immutable after creation; status moves between active
// and closed by the owner and terminates at deleted (soft delete).
type Listing struct {
	ID          string
	Title       string
	Description string
	Price       float64
	Location    string
	Category    string
	Mode        string
	Image       *ListingImage
	Owner       Owner
	Status      ListingStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
