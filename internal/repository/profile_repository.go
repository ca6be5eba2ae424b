package repository

import (
	"context"
	"errors"
	"time"

	"github.com/campus-market/marketplace-service/internal/docstore"
	"github.com/campus-market/marketplace-service/internal/domain"
	apperrors "github.com/campus-market/marketplace-service/pkg/util"
)

// ProfileRepository encapsulates user profile persistence. Stored documents
// carry two historical field-name generations (`name`/`fullName` and
// `regNo`/`registrationNumber`); both are written on every write and
// normalized once here on read instead of in every handler.
type ProfileRepository interface {
	Get(ctx context.Context, subjectID string) (*domain.Profile, error)
	// Upsert merge-writes fields into the profile document, creating it if
	// absent. Unspecified fields are preserved.
	Upsert(ctx context.Context, subjectID string, fields map[string]any) error
}

type profileRepository struct {
	coll docstore.Collection
}

// NewProfileRepository instantiates the repository over a document store.
func NewProfileRepository(store docstore.Store) ProfileRepository {
	return &profileRepository{coll: store.Collection(docstore.CollectionUsers)}
}

func (r *profileRepository) Get(ctx context.Context, subjectID string) (*domain.Profile, error) {
	doc, err := r.coll.Get(ctx, subjectID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.NewNotFound("user", map[string]any{"uid": subjectID})
	}
	if err != nil {
		return nil, apperrors.NewUpstreamStoreError(err)
	}
	profile := docToProfile(subjectID, doc)
	return &profile, nil
}

func (r *profileRepository) Upsert(ctx context.Context, subjectID string, fields map[string]any) error {
	if err := r.coll.Set(ctx, subjectID, fields, true); err != nil {
		return apperrors.NewUpstreamStoreError(err)
	}
	return nil
}

// DefaultProfileDoc builds the blank document persisted on first read.
func DefaultProfileDoc(email string, now time.Time) map[string]any {
	stamp := now.UTC().Format(time.RFC3339Nano)
	return map[string]any{
		"name":               "",
		"fullName":           "",
		"email":              email,
		"phone":              "",
		"regNo":              "",
		"registrationNumber": "",
		"createdAt":          stamp,
		"updatedAt":          stamp,
	}
}

// EmailBackfillDoc repairs a legacy document stored without an email by
// merge-writing the verified identity's address.
func EmailBackfillDoc(email string, now time.Time) map[string]any {
	return map[string]any{
		"email":     email,
		"updatedAt": now.UTC().Format(time.RFC3339Nano),
	}
}

// ProfilePatchDoc translates a patch into the stored field set. Email is
// always taken from the verified identity; both legacy and current field
// names are populated for every edited field.
func ProfilePatchDoc(email string, patch domain.ProfilePatch, now time.Time) map[string]any {
	fields := map[string]any{
		"email":     email,
		"updatedAt": now.UTC().Format(time.RFC3339Nano),
	}
	if patch.FullName != nil {
		fields["name"] = *patch.FullName
		fields["fullName"] = *patch.FullName
	}
	if patch.Phone != nil {
		fields["phone"] = *patch.Phone
	}
	if patch.RegistrationNumber != nil {
		fields["regNo"] = *patch.RegistrationNumber
		fields["registrationNumber"] = *patch.RegistrationNumber
	}
	return fields
}

func docToProfile(subjectID string, doc *docstore.Document) domain.Profile {
	fullName := docString(doc.Data, "name")
	if fullName == "" {
		fullName = docString(doc.Data, "fullName")
	}
	regNo := docString(doc.Data, "regNo")
	if regNo == "" {
		regNo = docString(doc.Data, "registrationNumber")
	}
	return domain.Profile{
		SubjectID:          subjectID,
		Email:              docString(doc.Data, "email"),
		FullName:           fullName,
		Phone:              docString(doc.Data, "phone"),
		RegistrationNumber: regNo,
		CreatedAt:          docTime(doc.Data, "createdAt", doc.CreatedAt),
		UpdatedAt:          docTime(doc.Data, "updatedAt", doc.CreatedAt),
	}
}
