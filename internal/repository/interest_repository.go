package repository

import (
	"context"
	"errors"
	"time"

	"github.com/campus-market/marketplace-service/internal/docstore"
	"github.com/campus-market/marketplace-service/internal/domain"
	apperrors "github.com/campus-market/marketplace-service/pkg/util"
)

// InterestRepository encapsulates interest persistence.
type InterestRepository interface {
	Create(ctx context.Context, interest *domain.Interest) error
	GetByID(ctx context.Context, id string) (*domain.Interest, error)
	Delete(ctx context.Context, id string) error
	ListByListing(ctx context.Context, listingID string) ([]domain.Interest, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]domain.Interest, error)
	CountByListing(ctx context.Context, listingID string) (int, error)
	CountByBuyer(ctx context.Context, buyerID string) (int, error)
	MarkReminder(ctx context.Context, id string, at time.Time) error
}

type interestRepository struct {
	coll docstore.Collection
}

// NewInterestRepository instantiates the repository over a document store.
func NewInterestRepository(store docstore.Store) InterestRepository {
	return &interestRepository{coll: store.Collection(docstore.CollectionInterests)}
}

func (r *interestRepository) Create(ctx context.Context, interest *domain.Interest) error {
	interest.CreatedAt = time.Now().UTC()
	if interest.Status == "" {
		interest.Status = domain.InterestStatusPending
	}
	id, err := r.coll.Add(ctx, interestToDoc(interest))
	if err != nil {
		return apperrors.NewUpstreamStoreError(err)
	}
	interest.ID = id
	return nil
}

func (r *interestRepository) GetByID(ctx context.Context, id string) (*domain.Interest, error) {
	doc, err := r.coll.Get(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.NewNotFound("interest", map[string]any{"id": id})
	}
	if err != nil {
		return nil, apperrors.NewUpstreamStoreError(err)
	}
	interest := docToInterest(doc)
	return &interest, nil
}

// Delete removes the interest permanently. Revocation is a hard delete, not
// a status flip.
func (r *interestRepository) Delete(ctx context.Context, id string) error {
	err := r.coll.Delete(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return apperrors.NewNotFound("interest", map[string]any{"id": id})
	}
	if err != nil {
		return apperrors.NewUpstreamStoreError(err)
	}
	return nil
}

func (r *interestRepository) ListByListing(ctx context.Context, listingID string) ([]domain.Interest, error) {
	return r.list(ctx, docstore.Filter{Field: "listingId", Value: listingID})
}

func (r *interestRepository) ListByBuyer(ctx context.Context, buyerID string) ([]domain.Interest, error) {
	return r.list(ctx, docstore.Filter{Field: "buyerId", Value: buyerID})
}

func (r *interestRepository) list(ctx context.Context, filter docstore.Filter) ([]domain.Interest, error) {
	docs, err := r.coll.Query(ctx, docstore.Query{
		Filters:        []docstore.Filter{filter},
		OrderByCreated: true,
	})
	if err != nil {
		return nil, apperrors.NewUpstreamStoreError(err)
	}
	interests := make([]domain.Interest, 0, len(docs))
	for i := range docs {
		interests = append(interests, docToInterest(&docs[i]))
	}
	return interests, nil
}

func (r *interestRepository) CountByListing(ctx context.Context, listingID string) (int, error) {
	count, err := r.coll.Count(ctx, docstore.Query{
		Filters: []docstore.Filter{{Field: "listingId", Value: listingID}},
	})
	if err != nil {
		return 0, apperrors.NewUpstreamStoreError(err)
	}
	return count, nil
}

func (r *interestRepository) CountByBuyer(ctx context.Context, buyerID string) (int, error) {
	count, err := r.coll.Count(ctx, docstore.Query{
		Filters: []docstore.Filter{{Field: "buyerId", Value: buyerID}},
	})
	if err != nil {
		return 0, apperrors.NewUpstreamStoreError(err)
	}
	return count, nil
}

func (r *interestRepository) MarkReminder(ctx context.Context, id string, at time.Time) error {
	err := r.coll.Update(ctx, id, map[string]any{
		"lastReminderSent": at.UTC().Format(time.RFC3339Nano),
	})
	if errors.Is(err, docstore.ErrNotFound) {
		return apperrors.NewNotFound("interest", map[string]any{"id": id})
	}
	if err != nil {
		return apperrors.NewUpstreamStoreError(err)
	}
	return nil
}

func interestToDoc(i *domain.Interest) map[string]any {
	doc := map[string]any{
		"listingId":    i.ListingID,
		"listingTitle": i.ListingTitle,
		"buyerId":      i.Buyer.SubjectID,
		"buyerEmail":   i.Buyer.Email,
		"buyerName":    i.Buyer.DisplayName,
		"sellerId":     i.Seller.SubjectID,
		"sellerEmail":  i.Seller.Email,
		"sellerName":   i.Seller.DisplayName,
		"offerPrice":   i.OfferPrice,
		"status":       string(i.Status),
		"createdAt":    i.CreatedAt.Format(time.RFC3339Nano),
	}
	if i.Comment != "" {
		doc["comment"] = i.Comment
	}
	return doc
}

func docToInterest(doc *docstore.Document) domain.Interest {
	i := domain.Interest{
		ID:           doc.ID,
		ListingID:    docString(doc.Data, "listingId"),
		ListingTitle: docString(doc.Data, "listingTitle"),
		Buyer: domain.Party{
			SubjectID:   docString(doc.Data, "buyerId"),
			Email:       docString(doc.Data, "buyerEmail"),
			DisplayName: docString(doc.Data, "buyerName"),
		},
		Seller: domain.Party{
			SubjectID:   docString(doc.Data, "sellerId"),
			Email:       docString(doc.Data, "sellerEmail"),
			DisplayName: docString(doc.Data, "sellerName"),
		},
		OfferPrice: docFloat(doc.Data, "offerPrice"),
		Comment:    docString(doc.Data, "comment"),
		Status:     domain.InterestStatus(docString(doc.Data, "status")),
		CreatedAt:  docTime(doc.Data, "createdAt", doc.CreatedAt),
	}
	if raw := docString(doc.Data, "lastReminderSent"); raw != "" {
		t := docTime(doc.Data, "lastReminderSent", doc.CreatedAt)
		i.LastReminderSent = &t
	}
	return i
}
