package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/campus-market/marketplace-service/internal/blob"
	"github.com/campus-market/marketplace-service/internal/docstore"
	"github.com/campus-market/marketplace-service/internal/domain"
	"github.com/campus-market/marketplace-service/internal/events"
	"github.com/campus-market/marketplace-service/internal/repository"
	apperrors "github.com/campus-market/marketplace-service/pkg/util"
)

type ListingServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *docstore.Memory
	blobs   *blob.Memory
	service *ListingService
	seller  domain.Identity
	other   domain.Identity
}

func TestListingServiceSuite(t *testing.T) {
	suite.Run(t, new(ListingServiceSuite))
}

func (s *ListingServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = docstore.NewMemory()
	s.blobs = blob.NewMemory()
	s.service = NewListingService(ListingDependencies{
		ListingRepo: repository.NewListingRepository(s.store),
		BlobStore:   s.blobs,
		Dispatcher:  events.NewInMemoryDispatcher(),
		Logger:      zap.NewNop(),
	})
	s.seller = domain.Identity{SubjectID: "seller-1", Email: "seller@email.iimcal.ac.in"}
	s.other = domain.Identity{SubjectID: "buyer-1", Email: "buyer@email.iimcal.ac.in"}
}

func (s *ListingServiceSuite) createListing(identity domain.Identity, title string, price float64) *domain.Listing {
	listing, err := s.service.Create(s.ctx, identity, ListingCreateInput{
		Title:       title,
		Description: "desc",
		Price:       price,
		Location:    "hostel 3",
		Category:    "electronics",
		Mode:        "sell",
	})
	s.Require().NoError(err)
	return listing
}

func domainCode(err error) string {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

func (s *ListingServiceSuite) TestCreateDefaultsAndOwnerSnapshot() {
	listing := s.createListing(s.seller, "desk lamp", 300)

	s.NotEmpty(listing.ID)
	s.Equal(domain.ListingStatusActive, listing.Status)
	s.Equal("seller-1", listing.Owner.SubjectID)
	s.Equal("seller", listing.Owner.DisplayName)
	s.False(listing.CreatedAt.IsZero())
}

func (s *ListingServiceSuite) TestCreateRejectsMissingFields() {
	_, err := s.service.Create(s.ctx, s.seller, ListingCreateInput{
		Title: "   ", Description: "d", Location: "l", Category: "c",
	})
	s.Equal("VALIDATION_FAILED", domainCode(err))
}

func (s *ListingServiceSuite) TestCreateRejectsNegativePrice() {
	_, err := s.service.Create(s.ctx, s.seller, ListingCreateInput{
		Title: "t", Description: "d", Location: "l", Category: "c", Price: -1,
	})
	s.Equal("VALIDATION_FAILED", domainCode(err))
}

func (s *ListingServiceSuite) TestCreateUploadsImage() {
	listing, err := s.service.Create(s.ctx, s.seller, ListingCreateInput{
		Title: "camera", Description: "d", Price: 5000, Location: "l", Category: "c",
		Image: &blob.Upload{
			Body:        strings.NewReader("jpeg-bytes"),
			Filename:    "camera.jpg",
			ContentType: "image/jpeg",
			Size:        10,
		},
	})
	s.Require().NoError(err)
	s.Require().NotNil(listing.Image)
	s.NotEmpty(listing.Image.URL)
	s.True(s.blobs.Has(listing.Image.Key))
}

func (s *ListingServiceSuite) TestPriceRangeFilter() {
	s.createListing(s.seller, "a", 10)
	s.createListing(s.seller, "b", 50)
	s.createListing(s.seller, "c", 100)

	min, max := 20.0, 60.0
	listings, err := s.service.List(s.ctx, ListingQuery{MinPrice: &min, MaxPrice: &max})
	s.Require().NoError(err)
	s.Require().Len(listings, 1)
	s.Equal("b", listings[0].Title)
}

func (s *ListingServiceSuite) TestListExcludesDeleted() {
	kept := s.createListing(s.seller, "kept", 10)
	removed := s.createListing(s.seller, "removed", 20)
	s.Require().NoError(s.service.Delete(s.ctx, s.seller, removed.ID))

	listings, err := s.service.List(s.ctx, ListingQuery{})
	s.Require().NoError(err)
	s.Require().Len(listings, 1)
	s.Equal(kept.ID, listings[0].ID)
}

func (s *ListingServiceSuite) TestListDeletedStatusQueryReturnsEmpty() {
	removed := s.createListing(s.seller, "removed", 20)
	s.Require().NoError(s.service.Delete(s.ctx, s.seller, removed.ID))

	status := domain.ListingStatusDeleted
	listings, err := s.service.List(s.ctx, ListingQuery{Status: &status})
	s.Require().NoError(err)
	s.Empty(listings)
}

func (s *ListingServiceSuite) TestDeletedListingStillDirectlyAddressable() {
	listing := s.createListing(s.seller, "phone", 900)
	s.Require().NoError(s.service.Delete(s.ctx, s.seller, listing.ID))

	got, err := s.service.Get(s.ctx, listing.ID)
	s.Require().NoError(err)
	s.Equal(domain.ListingStatusDeleted, got.Status)
}

func (s *ListingServiceSuite) TestMineIncludesClosedExcludesDeleted() {
	s.createListing(s.seller, "active", 10)
	closed := s.createListing(s.seller, "closed", 20)
	removed := s.createListing(s.seller, "removed", 30)
	s.createListing(s.other, "foreign", 40)

	_, err := s.service.ChangeStatus(s.ctx, s.seller, closed.ID, domain.ListingStatusClosed)
	s.Require().NoError(err)
	s.Require().NoError(s.service.Delete(s.ctx, s.seller, removed.ID))

	mine, err := s.service.Mine(s.ctx, s.seller)
	s.Require().NoError(err)
	s.Require().Len(mine, 2)
	for _, l := range mine {
		s.Equal("seller-1", l.Owner.SubjectID)
		s.NotEqual(domain.ListingStatusDeleted, l.Status)
	}
}

func (s *ListingServiceSuite) TestUpdateByStranger() {
	listing := s.createListing(s.seller, "chair", 150)

	title := "stolen chair"
	_, err := s.service.Update(s.ctx, s.other, listing.ID, ListingUpdateInput{Title: &title})
	s.Equal("NOT_AUTHORIZED", domainCode(err))
}

func (s *ListingServiceSuite) TestUpdateUnknownListingIsNotFoundBeforeOwnership() {
	title := "x"
	_, err := s.service.Update(s.ctx, s.other, "no-such-id", ListingUpdateInput{Title: &title})
	s.Equal("NOT_FOUND", domainCode(err))
}

func (s *ListingServiceSuite) TestUpdatePartialEdit() {
	listing := s.createListing(s.seller, "chair", 150)

	price := 120.0
	updated, err := s.service.Update(s.ctx, s.seller, listing.ID, ListingUpdateInput{Price: &price})
	s.Require().NoError(err)
	s.Equal(120.0, updated.Price)
	s.Equal("chair", updated.Title)
	s.Equal(domain.ListingStatusActive, updated.Status)
}

func (s *ListingServiceSuite) TestChangeStatusRoundTrip() {
	listing := s.createListing(s.seller, "chair", 150)

	closed, err := s.service.ChangeStatus(s.ctx, s.seller, listing.ID, domain.ListingStatusClosed)
	s.Require().NoError(err)
	s.Equal(domain.ListingStatusClosed, closed.Status)

	reopened, err := s.service.ChangeStatus(s.ctx, s.seller, listing.ID, domain.ListingStatusActive)
	s.Require().NoError(err)
	s.Equal(domain.ListingStatusActive, reopened.Status)
}

func (s *ListingServiceSuite) TestChangeStatusRejectsUnknownValue() {
	listing := s.createListing(s.seller, "chair", 150)

	_, err := s.service.ChangeStatus(s.ctx, s.seller, listing.ID, domain.ListingStatus("archived"))
	s.Equal("INVALID_STATUS", domainCode(err))

	_, err = s.service.ChangeStatus(s.ctx, s.seller, listing.ID, domain.ListingStatusDeleted)
	s.Equal("INVALID_STATUS", domainCode(err))
}

func (s *ListingServiceSuite) TestDeleteSurvivesBlobFailure() {
	listing, err := s.service.Create(s.ctx, s.seller, ListingCreateInput{
		Title: "camera", Description: "d", Price: 5000, Location: "l", Category: "c",
		Image: &blob.Upload{Body: strings.NewReader("x"), Filename: "c.png", ContentType: "image/png", Size: 1},
	})
	s.Require().NoError(err)

	s.blobs.FailDelete = errors.New("bucket unavailable")
	s.Require().NoError(s.service.Delete(s.ctx, s.seller, listing.ID))

	got, err := s.service.Get(s.ctx, listing.ID)
	s.Require().NoError(err)
	s.Equal(domain.ListingStatusDeleted, got.Status)
}

func (s *ListingServiceSuite) TestDeletionIsOneWay() {
	listing := s.createListing(s.seller, "phone", 900)
	s.Require().NoError(s.service.Delete(s.ctx, s.seller, listing.ID))

	_, err := s.service.ChangeStatus(s.ctx, s.seller, listing.ID, domain.ListingStatusActive)
	s.Equal("NOT_FOUND", domainCode(err))

	title := "back from the dead"
	_, err = s.service.Update(s.ctx, s.seller, listing.ID, ListingUpdateInput{Title: &title})
	s.Equal("NOT_FOUND", domainCode(err))

	err = s.service.Delete(s.ctx, s.seller, listing.ID)
	s.Equal("NOT_FOUND", domainCode(err))

	// The listing never resurfaces in public browse.
	listings, err := s.service.List(s.ctx, ListingQuery{})
	s.Require().NoError(err)
	s.Empty(listings)

	got, err := s.service.Get(s.ctx, listing.ID)
	s.Require().NoError(err)
	s.Equal(domain.ListingStatusDeleted, got.Status)
}

func (s *ListingServiceSuite) TestDeleteByStranger() {
	listing := s.createListing(s.seller, "chair", 150)
	err := s.service.Delete(s.ctx, s.other, listing.ID)
	s.Equal("NOT_AUTHORIZED", domainCode(err))
}
