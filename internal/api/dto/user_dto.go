package dto

import "github.com/campus-market/marketplace-service/internal/domain"

// UpdateProfileRequest carries the editable profile fields. Nil fields are
// left untouched (merge semantics).
type UpdateProfileRequest struct {
	FullName           *string `json:"fullName"`
	Phone              *string `json:"phone"`
	RegistrationNumber *string `json:"registrationNumber"`
}

// ProfileResponse is the wire shape of a user profile. Name and RegNo
// duplicate FullName and RegistrationNumber for backward compatibility
// with older clients.
type ProfileResponse struct {
	UID                string `json:"uid"`
	Email              string `json:"email"`
	FullName           string `json:"fullName"`
	Name               string `json:"name"`
	Phone              string `json:"phone"`
	RegistrationNumber string `json:"registrationNumber"`
	RegNo              string `json:"regNo"`
}

// NewProfileResponse projects a domain profile.
func NewProfileResponse(p *domain.Profile) ProfileResponse {
	return ProfileResponse{
		UID:                p.SubjectID,
		Email:              p.Email,
		FullName:           p.FullName,
		Name:               p.FullName,
		Phone:              p.Phone,
		RegistrationNumber: p.RegistrationNumber,
		RegNo:              p.RegistrationNumber,
	}
}
