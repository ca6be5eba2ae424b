package repository

import (
	"context"
	"errors"
	"time"

	"github.com/campus-market/marketplace-service/internal/docstore"
	"github.com/campus-market/marketplace-service/internal/domain"
	apperrors "github.com/campus-market/marketplace-service/pkg/util"
)

// ListingFilter captures marketplace browse parameters. Status, Mode and
// OwnerID translate to store-native equality predicates; the price range is
// pushed down only when the backend can combine it with the other filters.
type ListingFilter struct {
	Status   *domain.ListingStatus
	Mode     *string
	OwnerID  *string
	MinPrice *float64
	MaxPrice *float64
}

// ListingRepository encapsulates listing persistence.
type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetByID(ctx context.Context, id string) (*domain.Listing, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	List(ctx context.Context, filter ListingFilter, nativeRange bool) ([]domain.Listing, error)
}

type listingRepository struct {
	coll docstore.Collection
}

// NewListingRepository instantiates the repository over a document store.
func NewListingRepository(store docstore.Store) ListingRepository {
	return &listingRepository{coll: store.Collection(docstore.CollectionListings)}
}

func (r *listingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	now := time.Now().UTC()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	id, err := r.coll.Add(ctx, listingToDoc(listing))
	if err != nil {
		return apperrors.NewUpstreamStoreError(err)
	}
	listing.ID = id
	return nil
}

func (r *listingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	doc, err := r.coll.Get(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.NewNotFound("listing", map[string]any{"id": id})
	}
	if err != nil {
		return nil, apperrors.NewUpstreamStoreError(err)
	}
	listing := docToListing(doc)
	return &listing, nil
}

func (r *listingRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	fields["updatedAt"] = time.Now().UTC().Format(time.RFC3339Nano)
	err := r.coll.Update(ctx, id, fields)
	if errors.Is(err, docstore.ErrNotFound) {
		return apperrors.NewNotFound("listing", map[string]any{"id": id})
	}
	if err != nil {
		return apperrors.NewUpstreamStoreError(err)
	}
	return nil
}

// List queries by the store-native predicates and orders descending by
// creation time. The caller owns post-filtering (price range, soft-delete
// exclusion) when the backend cannot express it.
func (r *listingRepository) List(ctx context.Context, filter ListingFilter, nativeRange bool) ([]domain.Listing, error) {
	q := docstore.Query{OrderByCreated: true}
	if filter.Status != nil {
		q.Filters = append(q.Filters, docstore.Filter{Field: "status", Value: string(*filter.Status)})
	}
	if filter.Mode != nil {
		q.Filters = append(q.Filters, docstore.Filter{Field: "mode", Value: *filter.Mode})
	}
	if filter.OwnerID != nil {
		q.Filters = append(q.Filters, docstore.Filter{Field: "owner.uid", Value: *filter.OwnerID})
	}
	if nativeRange && (filter.MinPrice != nil || filter.MaxPrice != nil) {
		q.Range = &docstore.RangeFilter{Field: "price", Min: filter.MinPrice, Max: filter.MaxPrice}
	}

	docs, err := r.coll.Query(ctx, q)
	if err != nil {
		return nil, apperrors.NewUpstreamStoreError(err)
	}

	listings := make([]domain.Listing, 0, len(docs))
	for i := range docs {
		listings = append(listings, docToListing(&docs[i]))
	}

	if !nativeRange {
		listings = filterPriceRange(listings, filter.MinPrice, filter.MaxPrice)
	}
	return listings, nil
}

func filterPriceRange(listings []domain.Listing, min, max *float64) []domain.Listing {
	if min == nil && max == nil {
		return listings
	}
	filtered := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if min != nil && l.Price < *min {
			continue
		}
		if max != nil && l.Price > *max {
			continue
		}
		filtered = append(filtered, l)
	}
	return filtered
}

func listingToDoc(l *domain.Listing) map[string]any {
	doc := map[string]any{
		"title":       l.Title,
		"description": l.Description,
		"price":       l.Price,
		"location":    l.Location,
		"category":    l.Category,
		"mode":        l.Mode,
		"status":      string(l.Status),
		"owner": map[string]any{
			"uid":      l.Owner.SubjectID,
			"email":    l.Owner.Email,
			"username": l.Owner.DisplayName,
			"phone":    l.Owner.Phone,
		},
		"createdAt": l.CreatedAt.Format(time.RFC3339Nano),
		"updatedAt": l.UpdatedAt.Format(time.RFC3339Nano),
	}
	if l.Image != nil {
		doc["image"] = map[string]any{"url": l.Image.URL, "key": l.Image.Key}
	}
	return doc
}

func docToListing(doc *docstore.Document) domain.Listing {
	l := domain.Listing{
		ID:          doc.ID,
		Title:       docString(doc.Data, "title"),
		Description: docString(doc.Data, "description"),
		Price:       docFloat(doc.Data, "price"),
		Location:    docString(doc.Data, "location"),
		Category:    docString(doc.Data, "category"),
		Mode:        docString(doc.Data, "mode"),
		Status:      domain.ListingStatus(docString(doc.Data, "status")),
		CreatedAt:   docTime(doc.Data, "createdAt", doc.CreatedAt),
		UpdatedAt:   docTime(doc.Data, "updatedAt", doc.CreatedAt),
	}
	l.Owner = domain.Owner{
		SubjectID:   docString(doc.Data, "owner.uid"),
		Email:       docString(doc.Data, "owner.email"),
		DisplayName: docString(doc.Data, "owner.username"),
		Phone:       docString(doc.Data, "owner.phone"),
	}
	if url := docString(doc.Data, "image.url"); url != "" {
		l.Image = &domain.ListingImage{URL: url, Key: docString(doc.Data, "image.key")}
	}
	return l
}
