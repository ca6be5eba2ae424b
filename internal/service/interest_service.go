package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-market/marketplace-service/internal/domain"
	"github.com/campus-market/marketplace-service/internal/events"
	"github.com/campus-market/marketplace-service/internal/repository"
	apperrors "github.com/campus-market/marketplace-service/pkg/util"
)

// InterestService coordinates buyer offers: creation against active
// listings, owner-gated viewing, buyer-gated revocation and reminders.
type InterestService struct {
	interests  repository.InterestRepository
	listings   repository.ListingRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// InterestDependencies bundles collaborators for the interest service.
type InterestDependencies struct {
	InterestRepo repository.InterestRepository
	ListingRepo  repository.ListingRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewInterestService constructs the service.
func NewInterestService(deps InterestDependencies) *InterestService {
	return &InterestService{
		interests:  deps.InterestRepo,
		listings:   deps.ListingRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Create records an offer on a listing. Seller identity and listing title
// are snapshotted at creation time; interests are historical records and do
// not follow later listing edits.
func (s *InterestService) Create(ctx context.Context, identity domain.Identity, listingID string, offerPrice *float64, comment string) (*domain.Interest, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if offerPrice == nil {
		return nil, apperrors.NewInvalidOffer("offerPrice is required")
	}
	if *offerPrice <= 0 {
		return nil, apperrors.NewInvalidOffer("offerPrice must be positive")
	}
	if listing.Owner.SubjectID == identity.SubjectID {
		return nil, apperrors.NewSelfInterestForbidden()
	}
	if listing.Status != domain.ListingStatusActive {
		return nil, apperrors.NewListingUnavailable(string(listing.Status))
	}

	interest := &domain.Interest{
		ListingID:    listing.ID,
		ListingTitle: listing.Title,
		Buyer: domain.Party{
			SubjectID:   identity.SubjectID,
			Email:       identity.Email,
			DisplayName: identity.Username(),
		},
		Seller: domain.Party{
			SubjectID:   listing.Owner.SubjectID,
			Email:       listing.Owner.Email,
			DisplayName: listing.Owner.DisplayName,
		},
		OfferPrice: *offerPrice,
		Comment:    comment,
	}
	if err := s.interests.Create(ctx, interest); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventInterestCreated,
		ListingID: listing.ID,
		Actor:     events.Actor{SubjectID: identity.SubjectID, Email: identity.Email},
		Payload: events.InterestCreatedPayload{
			InterestID:   interest.ID,
			ListingTitle: listing.Title,
			SellerID:     listing.Owner.SubjectID,
			SellerEmail:  listing.Owner.Email,
			OfferPrice:   *offerPrice,
		},
	})
	return interest, nil
}

// ListForListing returns offers on a listing, restricted to its owner.
// Absence is checked before ownership.
func (s *InterestService) ListForListing(ctx context.Context, identity domain.Identity, listingID string) ([]domain.Interest, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Owner.SubjectID != identity.SubjectID {
		return nil, apperrors.NewNotAuthorized("not authorized to view interests for this listing")
	}
	return s.interests.ListByListing(ctx, listingID)
}

// ListMine returns the caller's offers, newest first, each embedding its
// listing when the weak reference still resolves. A deleted or missing
// listing never fails the request; the interest is returned bare.
func (s *InterestService) ListMine(ctx context.Context, identity domain.Identity) ([]domain.Interest, error) {
	interests, err := s.interests.ListByBuyer(ctx, identity.SubjectID)
	if err != nil {
		return nil, err
	}
	for i := range interests {
		listing, err := s.listings.GetByID(ctx, interests[i].ListingID)
		if err != nil {
			var domainErr *apperrors.DomainError
			if errors.As(err, &domainErr) && domainErr.Code == "NOT_FOUND" {
				continue
			}
			s.logger.Warn("listing lookup failed for interest",
				zap.String("interest_id", interests[i].ID),
				zap.Error(err))
			continue
		}
		interests[i].Listing = listing
	}
	return interests, nil
}

// Revoke hard-deletes an interest; only its buyer may do so.
func (s *InterestService) Revoke(ctx context.Context, identity domain.Identity, id string) error {
	interest, err := s.interests.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if interest.Buyer.SubjectID != identity.SubjectID {
		return apperrors.NewNotAuthorized("not authorized to revoke this interest")
	}
	return s.interests.Delete(ctx, id)
}

// Remind stamps the interest and notifies the seller; buyer only.
func (s *InterestService) Remind(ctx context.Context, identity domain.Identity, id string) error {
	interest, err := s.interests.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if interest.Buyer.SubjectID != identity.SubjectID {
		return apperrors.NewNotAuthorized("not authorized to send reminder for this interest")
	}
	if err := s.interests.MarkReminder(ctx, id, time.Now()); err != nil {
		return err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventReminderRequested,
		ListingID: interest.ListingID,
		Actor:     events.Actor{SubjectID: identity.SubjectID, Email: identity.Email},
		Payload: events.ReminderRequestedPayload{
			InterestID:   interest.ID,
			ListingTitle: interest.ListingTitle,
			SellerID:     interest.Seller.SubjectID,
			SellerEmail:  interest.Seller.Email,
		},
	})
	return nil
}

func (s *InterestService) publish(ctx context.Context, event events.Event) {
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
