package service

import (
	"context"
	"errors"
	"time"

	"github.com/campus-market/marketplace-service/internal/domain"
	"github.com/campus-market/marketplace-service/internal/repository"
	apperrors "github.com/campus-market/marketplace-service/pkg/util"
)

// ProfileService manages per-identity profile documents with lazy creation
// and merge-upsert semantics.
type ProfileService struct {
	profiles repository.ProfileRepository
}

// NewProfileService constructs the service.
func NewProfileService(profiles repository.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// GetOrCreate returns the caller's profile, persisting a blank default on
// first read so that every authenticated identity has exactly one profile
// document afterwards.
func (s *ProfileService) GetOrCreate(ctx context.Context, identity domain.Identity) (*domain.Profile, error) {
	profile, err := s.profiles.Get(ctx, identity.SubjectID)
	if err == nil {
		if profile.Email == "" {
			// Legacy documents predate the email field; repair them in
			// storage, not just on the returned copy.
			fields := repository.EmailBackfillDoc(identity.Email, time.Now())
			if err := s.profiles.Upsert(ctx, identity.SubjectID, fields); err != nil {
				return nil, err
			}
			profile.Email = identity.Email
		}
		return profile, nil
	}

	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
		return nil, err
	}

	doc := repository.DefaultProfileDoc(identity.Email, time.Now())
	if err := s.profiles.Upsert(ctx, identity.SubjectID, doc); err != nil {
		return nil, err
	}
	return s.profiles.Get(ctx, identity.SubjectID)
}

// Update merge-writes the editable fields. Email always comes from the
// verified identity, never from the request; unspecified fields are left
// untouched, so repeating the same patch is idempotent.
func (s *ProfileService) Update(ctx context.Context, identity domain.Identity, patch domain.ProfilePatch) (*domain.Profile, error) {
	fields := repository.ProfilePatchDoc(identity.Email, patch, time.Now())
	if err := s.profiles.Upsert(ctx, identity.SubjectID, fields); err != nil {
		return nil, err
	}
	return s.profiles.Get(ctx, identity.SubjectID)
}

// GetByID returns another user's profile by subject id.
func (s *ProfileService) GetByID(ctx context.Context, subjectID string) (*domain.Profile, error) {
	return s.profiles.Get(ctx, subjectID)
}
