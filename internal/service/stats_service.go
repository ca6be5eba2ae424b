package service

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/campus-market/marketplace-service/internal/domain"
	"github.com/campus-market/marketplace-service/internal/repository"
)

// StatsService aggregates a caller's marketplace activity. Every call
// recomputes from the document store; the store, not this layer, is the
// cost center, so no caching is applied.
type StatsService struct {
	listings  repository.ListingRepository
	interests repository.InterestRepository
}

// NewStatsService constructs the service.
func NewStatsService(listings repository.ListingRepository, interests repository.InterestRepository) *StatsService {
	return &StatsService{listings: listings, interests: interests}
}

// Compute fetches the caller's listings, then fans out one interest-count
// query per non-deleted listing. The fan-out is bounded by the caller's
// listing count, issued concurrently and awaited jointly; any single failed
// sub-query fails the whole aggregate.
func (s *StatsService) Compute(ctx context.Context, identity domain.Identity) (*domain.Stats, error) {
	ownerID := identity.SubjectID
	listings, err := s.listings.List(ctx, repository.ListingFilter{OwnerID: &ownerID}, false)
	if err != nil {
		return nil, err
	}

	active := 0
	listingIDs := make([]string, 0, len(listings))
	for _, l := range listings {
		if l.Status == domain.ListingStatusDeleted {
			continue
		}
		listingIDs = append(listingIDs, l.ID)
		if l.Status != domain.ListingStatusClosed {
			active++
		}
	}

	var received int64
	group, groupCtx := errgroup.WithContext(ctx)
	for _, id := range listingIDs {
		id := id
		group.Go(func() error {
			count, err := s.interests.CountByListing(groupCtx, id)
			if err != nil {
				return err
			}
			atomic.AddInt64(&received, int64(count))
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	mine, err := s.interests.CountByBuyer(ctx, identity.SubjectID)
	if err != nil {
		return nil, err
	}

	total := int(atomic.LoadInt64(&received))
	return &domain.Stats{
		ActiveListings:    active,
		TotalInterests:    total,
		MyInterests:       mine,
		ReceivedInterests: total,
		FetchedAt:         time.Now().UTC(),
	}, nil
}
