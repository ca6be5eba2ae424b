package domain

import "time"

// Profile is the per-identity user document. SubjectID doubles as the
// document id. Email is always sourced from the verified identity, never
// from client input.
type Profile struct {
	SubjectID          string
	Email              string
	FullName           string
	Phone              string
	RegistrationNumber string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ProfilePatch carries the only client-editable profile fields. Nil means
// leave the stored value untouched (merge semantics).
type ProfilePatch struct {
	FullName           *string
	Phone              *string
	RegistrationNumber *string
}
