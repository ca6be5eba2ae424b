package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/campus-market/marketplace-service/internal/docstore"
	"github.com/campus-market/marketplace-service/internal/domain"
	"github.com/campus-market/marketplace-service/internal/repository"
)

type ProfileServiceSuite struct {
	suite.Suite
	ctx      context.Context
	store    *docstore.Memory
	service  *ProfileService
	identity domain.Identity
}

func TestProfileServiceSuite(t *testing.T) {
	suite.Run(t, new(ProfileServiceSuite))
}

func (s *ProfileServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = docstore.NewMemory()
	s.service = NewProfileService(repository.NewProfileRepository(s.store))
	s.identity = domain.Identity{SubjectID: "user-1", Email: "user@email.iimcal.ac.in"}
}

func strptr(v string) *string { return &v }

func (s *ProfileServiceSuite) TestGetOrCreatePersistsBlankProfile() {
	profile, err := s.service.GetOrCreate(s.ctx, s.identity)
	s.Require().NoError(err)
	s.Equal("user-1", profile.SubjectID)
	s.Equal("user@email.iimcal.ac.in", profile.Email)
	s.Empty(profile.FullName)
	s.False(profile.CreatedAt.IsZero())

	// The blank document is now persisted under the subject id.
	doc, err := s.store.Collection(docstore.CollectionUsers).Get(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal("user@email.iimcal.ac.in", doc.Data["email"])
}

func (s *ProfileServiceSuite) TestGetOrCreateDoesNotOverwriteExisting() {
	_, err := s.service.Update(s.ctx, s.identity, domain.ProfilePatch{FullName: strptr("Asha Rao")})
	s.Require().NoError(err)

	profile, err := s.service.GetOrCreate(s.ctx, s.identity)
	s.Require().NoError(err)
	s.Equal("Asha Rao", profile.FullName)
}

func (s *ProfileServiceSuite) TestUpdateMergesUnspecifiedFields() {
	_, err := s.service.Update(s.ctx, s.identity, domain.ProfilePatch{
		FullName: strptr("Asha Rao"),
		Phone:    strptr("9876543210"),
	})
	s.Require().NoError(err)

	profile, err := s.service.Update(s.ctx, s.identity, domain.ProfilePatch{
		RegistrationNumber: strptr("MBA-2025-042"),
	})
	s.Require().NoError(err)
	s.Equal("Asha Rao", profile.FullName)
	s.Equal("9876543210", profile.Phone)
	s.Equal("MBA-2025-042", profile.RegistrationNumber)
}

func (s *ProfileServiceSuite) TestUpdateIsIdempotent() {
	patch := domain.ProfilePatch{FullName: strptr("Asha Rao"), Phone: strptr("9876543210")}

	first, err := s.service.Update(s.ctx, s.identity, patch)
	s.Require().NoError(err)
	second, err := s.service.Update(s.ctx, s.identity, patch)
	s.Require().NoError(err)

	s.Equal(first.FullName, second.FullName)
	s.Equal(first.Phone, second.Phone)
	s.Equal(first.Email, second.Email)
}

func (s *ProfileServiceSuite) TestEmailAlwaysFromIdentity() {
	profile, err := s.service.Update(s.ctx, s.identity, domain.ProfilePatch{FullName: strptr("A")})
	s.Require().NoError(err)
	s.Equal(s.identity.Email, profile.Email)
}

func (s *ProfileServiceSuite) TestLegacyFieldFallbacksOnRead() {
	// Documents written by older clients carry only the legacy field names.
	err := s.store.Collection(docstore.CollectionUsers).Set(s.ctx, "user-2", map[string]any{
		"fullName":           "Old Client",
		"registrationNumber": "PGP-2019-007",
		"email":              "old@email.iimcal.ac.in",
	}, true)
	s.Require().NoError(err)

	profile, err := s.service.GetByID(s.ctx, "user-2")
	s.Require().NoError(err)
	s.Equal("Old Client", profile.FullName)
	s.Equal("PGP-2019-007", profile.RegistrationNumber)
}

func (s *ProfileServiceSuite) TestGetOrCreateBackfillsMissingEmailInStorage() {
	err := s.store.Collection(docstore.CollectionUsers).Set(s.ctx, s.identity.SubjectID, map[string]any{
		"fullName": "Legacy User",
		"phone":    "1234567890",
	}, true)
	s.Require().NoError(err)

	profile, err := s.service.GetOrCreate(s.ctx, s.identity)
	s.Require().NoError(err)
	s.Equal(s.identity.Email, profile.Email)
	s.Equal("Legacy User", profile.FullName)

	doc, err := s.store.Collection(docstore.CollectionUsers).Get(s.ctx, s.identity.SubjectID)
	s.Require().NoError(err)
	s.Equal(s.identity.Email, doc.Data["email"])
	s.Equal("Legacy User", doc.Data["fullName"])
}

func (s *ProfileServiceSuite) TestGetByIDUnknown() {
	_, err := s.service.GetByID(s.ctx, "ghost")
	s.Equal("NOT_FOUND", domainCode(err))
}
