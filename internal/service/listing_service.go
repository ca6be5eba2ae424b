package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-market/marketplace-service/internal/blob"
	"github.com/campus-market/marketplace-service/internal/domain"
	"github.com/campus-market/marketplace-service/internal/events"
	"github.com/campus-market/marketplace-service/internal/repository"
	apperrors "github.com/campus-market/marketplace-service/pkg/util"
)

const listingBlobFolder = "listings"

// ListingService coordinates listing workflows: creation with image upload,
// owner-gated mutation, status transitions and soft deletion, and the
// browse query with its price-range post-filter.
type ListingService struct {
	listings    repository.ListingRepository
	blobs       blob.Store
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	nativeRange bool
}

// ListingDependencies bundles collaborators for the listing service.
type ListingDependencies struct {
	ListingRepo repository.ListingRepository
	BlobStore   blob.Store
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	NativeRange bool
}

// ListingCreateInput describes listing creation payload after multipart
// normalization.
type ListingCreateInput struct {
	Title       string
	Description string
	Price       float64
	Location    string
	Category    string
	Mode        string
	Phone       string
	Image       *blob.Upload
}

// ListingUpdateInput carries the client-mutable listing fields. Nil means
// leave unchanged.
type ListingUpdateInput struct {
	Title       *string
	Description *string
	Price       *float64
	Location    *string
	Category    *string
	Mode        *string
}

// ListingQuery describes browse filters.
type ListingQuery struct {
	Status   *domain.ListingStatus
	Mode     *string
	MinPrice *float64
	MaxPrice *float64
}

// NewListingService constructs the service.
func NewListingService(deps ListingDependencies) *ListingService {
	return &ListingService{
		listings:    deps.ListingRepo,
		blobs:       deps.BlobStore,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
		nativeRange: deps.NativeRange,
	}
}

// Create validates input, uploads the optional image in a single awaited
// call, and persists the listing owned by the caller.
func (s *ListingService) Create(ctx context.Context, identity domain.Identity, input ListingCreateInput) (*domain.Listing, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" || input.Location == "" || input.Category == "" {
		return nil, apperrors.NewValidationError("title, description, location, category required", nil)
	}
	if input.Price < 0 {
		return nil, apperrors.NewValidationError("price must be non-negative", nil)
	}

	listing := &domain.Listing{
		Title:       title,
		Description: description,
		Price:       input.Price,
		Location:    input.Location,
		Category:    input.Category,
		Mode:        input.Mode,
		Status:      domain.ListingStatusActive,
		Owner: domain.Owner{
			SubjectID:   identity.SubjectID,
			Email:       identity.Email,
			DisplayName: identity.Username(),
			Phone:       input.Phone,
		},
	}

	if input.Image != nil {
		obj, err := s.blobs.Put(ctx, listingBlobFolder, *input.Image)
		if err != nil {
			return nil, apperrors.NewUpstreamStoreError(err)
		}
		listing.Image = &domain.ListingImage{URL: obj.URL, Key: obj.Key}
	}

	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// List returns the public browse view: deleted listings are always
// excluded, ordering is descending by creation time, and the price range is
// applied after the store query unless the backend executed it natively.
func (s *ListingService) List(ctx context.Context, query ListingQuery) ([]domain.Listing, error) {
	if query.Status != nil && *query.Status == domain.ListingStatusDeleted {
		return []domain.Listing{}, nil
	}
	filter := repository.ListingFilter{
		Status:   query.Status,
		Mode:     query.Mode,
		MinPrice: query.MinPrice,
		MaxPrice: query.MaxPrice,
	}
	listings, err := s.listings.List(ctx, filter, s.nativeRange)
	if err != nil {
		return nil, err
	}
	return excludeDeleted(listings), nil
}

// Mine returns the caller's listings, closed included, deleted excluded.
func (s *ListingService) Mine(ctx context.Context, identity domain.Identity) ([]domain.Listing, error) {
	ownerID := identity.SubjectID
	listings, err := s.listings.List(ctx, repository.ListingFilter{OwnerID: &ownerID}, s.nativeRange)
	if err != nil {
		return nil, err
	}
	return excludeDeleted(listings), nil
}

// Get resolves a listing by id, deleted ones included; soft-deleted
// documents remain directly addressable.
func (s *ListingService) Get(ctx context.Context, id string) (*domain.Listing, error) {
	return s.listings.GetByID(ctx, id)
}

// Update applies a partial edit. Only the owner may mutate, and the
// protected fields (status, owner, creation timestamp) can never arrive
// through this path: the input type simply has no slots for them.
func (s *ListingService) Update(ctx context.Context, identity domain.Identity, id string, input ListingUpdateInput) (*domain.Listing, error) {
	listing, err := s.authorizeOwner(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.Title != nil {
		fields["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		fields["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperrors.NewValidationError("price must be non-negative", nil)
		}
		fields["price"] = *input.Price
	}
	if input.Location != nil {
		fields["location"] = *input.Location
	}
	if input.Category != nil {
		fields["category"] = *input.Category
	}
	if input.Mode != nil {
		fields["mode"] = *input.Mode
	}

	// Read-check-update is not atomic; a concurrent mutation to the same
	// listing can interleave between the ownership check and this write.
	if err := s.listings.Update(ctx, listing.ID, fields); err != nil {
		return nil, err
	}
	return s.listings.GetByID(ctx, listing.ID)
}

// ChangeStatus moves a listing between active and closed. Any other
// requested value is rejected; deletion has its own operation.
func (s *ListingService) ChangeStatus(ctx context.Context, identity domain.Identity, id string, status domain.ListingStatus) (*domain.Listing, error) {
	if !domain.MutableListingStatus(status) {
		return nil, apperrors.NewInvalidStatus(string(status))
	}
	listing, err := s.authorizeOwner(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	oldStatus := listing.Status
	if err := s.listings.Update(ctx, listing.ID, map[string]any{"status": string(status)}); err != nil {
		return nil, err
	}
	listing.Status = status

	s.publish(ctx, events.Event{
		Type:      events.EventListingStatusChanged,
		ListingID: listing.ID,
		Actor:     events.Actor{SubjectID: identity.SubjectID, Email: identity.Email},
		Payload: events.ListingStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
		},
	})
	return listing, nil
}

// Delete soft-deletes a listing. The blob cleanup runs first and is
// best-effort: its failure is logged and never blocks the metadata update.
func (s *ListingService) Delete(ctx context.Context, identity domain.Identity, id string) error {
	listing, err := s.authorizeOwner(ctx, identity, id)
	if err != nil {
		return err
	}

	if listing.Image != nil && listing.Image.Key != "" {
		if err := s.blobs.Delete(ctx, listing.Image.Key); err != nil {
			s.logger.Warn("listing image cleanup failed",
				zap.String("listing_id", listing.ID),
				zap.String("key", listing.Image.Key),
				zap.Error(err))
		}
	}

	if err := s.listings.Update(ctx, listing.ID, map[string]any{"status": string(domain.ListingStatusDeleted)}); err != nil {
		return err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventListingDeleted,
		ListingID: listing.ID,
		Actor:     events.Actor{SubjectID: identity.SubjectID, Email: identity.Email},
		Payload: events.ListingStatusChangedPayload{
			OldStatus: listing.Status,
			NewStatus: domain.ListingStatusDeleted,
		},
	})
	return nil
}

// authorizeOwner resolves the listing and enforces ownership. Absence is
// checked before ownership so callers cannot probe foreign ids. Deletion is
// one-way: a soft-deleted listing stays readable by id but is gone for
// every mutation, so it reports absent here.
func (s *ListingService) authorizeOwner(ctx context.Context, identity domain.Identity, id string) (*domain.Listing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.Status == domain.ListingStatusDeleted {
		return nil, apperrors.NewNotFound("listing", map[string]any{"id": id})
	}
	if listing.Owner.SubjectID != identity.SubjectID {
		return nil, apperrors.NewNotAuthorized("not authorized to modify this listing")
	}
	return listing, nil
}

func (s *ListingService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func excludeDeleted(listings []domain.Listing) []domain.Listing {
	filtered := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Status == domain.ListingStatusDeleted {
			continue
		}
		filtered = append(filtered, l)
	}
	return filtered
}
