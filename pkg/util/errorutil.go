package util

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewMissingToken() error {
	return NewDomainError("MISSING_TOKEN", "no token provided", http.StatusUnauthorized, nil)
}

func NewInvalidToken() error {
	return NewDomainError("INVALID_TOKEN", "invalid or expired token", http.StatusUnauthorized, nil)
}

func NewForbiddenDomain() error {
	return NewDomainError("FORBIDDEN_DOMAIN", "access restricted to authorized domains", http.StatusForbidden, nil)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewNotAuthorized(message string) error {
	return NewDomainError("NOT_AUTHORIZED", message, http.StatusForbidden, nil)
}

func NewInvalidStatus(status string) error {
	return NewDomainError("INVALID_STATUS", "status must be active or closed", http.StatusBadRequest, map[string]any{"status": status})
}

func NewInvalidOffer(message string) error {
	return NewDomainError("INVALID_OFFER", message, http.StatusBadRequest, nil)
}

func NewSelfInterestForbidden() error {
	return NewDomainError("SELF_INTEREST_FORBIDDEN", "cannot express interest in your own listing", http.StatusBadRequest, nil)
}

func NewListingUnavailable(status string) error {
	return NewDomainError("LISTING_UNAVAILABLE", "listing is no longer available", http.StatusBadRequest, map[string]any{"status": status})
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUpstreamStoreError wraps a document or blob store failure. The caller
// sees a generic 500; the underlying error is kept for server-side logging.
func NewUpstreamStoreError(err error) error {
	return &DomainError{
		Code:       "UPSTREAM_STORE_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
