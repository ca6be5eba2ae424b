package domain

// Identity is the verified caller as attested by the identity provider.
// It is immutable for the lifetime of a request and never persisted directly;
// denormalized copies live inside listings, interests and profiles.
type Identity struct {
	SubjectID   string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"name,omitempty"`
}

// Username derives a display handle, falling back to the email local part.
func (i Identity) Username() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	for idx := 0; idx < len(i.Email); idx++ {
		if i.Email[idx] == '@' {
			return i.Email[:idx]
		}
	}
	return i.Email
}
