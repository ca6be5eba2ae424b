package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/campus-market/marketplace-service/internal/blob"
	"github.com/campus-market/marketplace-service/internal/docstore"
	"github.com/campus-market/marketplace-service/internal/domain"
	"github.com/campus-market/marketplace-service/internal/events"
	"github.com/campus-market/marketplace-service/internal/repository"
)

type StatsServiceSuite struct {
	suite.Suite
	ctx           context.Context
	store         *docstore.Memory
	listings      *ListingService
	interests     *InterestService
	interestRepo  repository.InterestRepository
	service       *StatsService
	seller, buyer domain.Identity
}

func TestStatsServiceSuite(t *testing.T) {
	suite.Run(t, new(StatsServiceSuite))
}

func (s *StatsServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = docstore.NewMemory()
	listingRepo := repository.NewListingRepository(s.store)
	s.interestRepo = repository.NewInterestRepository(s.store)
	dispatcher := events.NewInMemoryDispatcher()
	s.listings = NewListingService(ListingDependencies{
		ListingRepo: listingRepo,
		BlobStore:   blob.NewMemory(),
		Dispatcher:  dispatcher,
		Logger:      zap.NewNop(),
	})
	s.interests = NewInterestService(InterestDependencies{
		InterestRepo: s.interestRepo,
		ListingRepo:  listingRepo,
		Dispatcher:   dispatcher,
		Logger:       zap.NewNop(),
	})
	s.service = NewStatsService(listingRepo, s.interestRepo)
	s.seller = domain.Identity{SubjectID: "seller-1", Email: "seller@email.iimcal.ac.in"}
	s.buyer = domain.Identity{SubjectID: "buyer-1", Email: "buyer@email.iimcal.ac.in"}
}

func (s *StatsServiceSuite) newListing(title string) *domain.Listing {
	listing, err := s.listings.Create(s.ctx, s.seller, ListingCreateInput{
		Title: title, Description: "d", Price: 100, Location: "l", Category: "c",
	})
	s.Require().NoError(err)
	return listing
}

func (s *StatsServiceSuite) TestComputeCounts() {
	first := s.newListing("first")
	second := s.newListing("second")
	closed := s.newListing("closed")
	removed := s.newListing("removed")

	_, err := s.listings.ChangeStatus(s.ctx, s.seller, closed.ID, domain.ListingStatusClosed)
	s.Require().NoError(err)
	s.Require().NoError(s.listings.Delete(s.ctx, s.seller, removed.ID))

	_, err = s.interests.Create(s.ctx, s.buyer, first.ID, offer(90), "")
	s.Require().NoError(err)
	_, err = s.interests.Create(s.ctx, s.buyer, second.ID, offer(80), "")
	s.Require().NoError(err)
	other := domain.Identity{SubjectID: "buyer-2", Email: "b2@email.iimcal.ac.in"}
	_, err = s.interests.Create(s.ctx, other, second.ID, offer(70), "")
	s.Require().NoError(err)

	stats, err := s.service.Compute(s.ctx, s.seller)
	s.Require().NoError(err)
	s.Equal(2, stats.ActiveListings)
	s.Equal(3, stats.TotalInterests)
	s.Equal(stats.TotalInterests, stats.ReceivedInterests)
	s.Equal(0, stats.MyInterests)
	s.WithinDuration(time.Now(), stats.FetchedAt, time.Minute)

	buyerStats, err := s.service.Compute(s.ctx, s.buyer)
	s.Require().NoError(err)
	s.Equal(0, buyerStats.ActiveListings)
	s.Equal(2, buyerStats.MyInterests)
}

func (s *StatsServiceSuite) TestComputeEmptyAccount() {
	stats, err := s.service.Compute(s.ctx, domain.Identity{SubjectID: "ghost"})
	s.Require().NoError(err)
	s.Equal(0, stats.ActiveListings)
	s.Equal(0, stats.TotalInterests)
	s.Equal(0, stats.MyInterests)
}

func (s *StatsServiceSuite) TestComputeFailsWhenAnyCountFails() {
	listing := s.newListing("first")
	_, err := s.interests.Create(s.ctx, s.buyer, listing.ID, offer(90), "")
	s.Require().NoError(err)

	listingRepo := repository.NewListingRepository(s.store)
	broken := &countFailingInterests{
		InterestRepository: s.interestRepo,
		err:                errors.New("count query timed out"),
	}
	service := NewStatsService(listingRepo, broken)

	_, err = service.Compute(s.ctx, s.seller)
	s.Require().Error(err)
	s.ErrorContains(err, "count query timed out")
}

// countFailingInterests fails every per-listing count to exercise the
// all-or-nothing aggregation.
type countFailingInterests struct {
	repository.InterestRepository
	err error
}

func (c *countFailingInterests) CountByListing(ctx context.Context, listingID string) (int, error) {
	return 0, c.err
}
