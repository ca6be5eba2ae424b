package domain

import "time"

// Stats summarizes a caller's marketplace activity. ReceivedInterests
// mirrors TotalInterests for backward compatibility with older clients.
type Stats struct {
	ActiveListings    int       `json:"activeListings"`
	TotalInterests    int       `json:"totalInterests"`
	MyInterests       int       `json:"myInterests"`
	ReceivedInterests int       `json:"receivedInterests"`
	FetchedAt         time.Time `json:"fetchedAt"`
}
