package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/campus-market/marketplace-service/internal/domain"
)

type countingVerifier struct {
	identity *domain.Identity
	err      error
	calls    int
}

func (v *countingVerifier) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	v.calls++
	if v.err != nil {
		return nil, v.err
	}
	return v.identity, nil
}

type CachingVerifierSuite struct {
	suite.Suite
	ctx context.Context
}

func TestCachingVerifierSuite(t *testing.T) {
	suite.Run(t, new(CachingVerifierSuite))
}

func (s *CachingVerifierSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *CachingVerifierSuite) TestNilClientDelegates() {
	inner := &countingVerifier{identity: &domain.Identity{SubjectID: "u1"}}
	verifier := NewCachingVerifier(inner, nil, time.Minute, zap.NewNop())

	identity, err := verifier.Verify(s.ctx, "token")
	s.Require().NoError(err)
	s.Equal("u1", identity.SubjectID)
	s.Equal(1, inner.calls)

	_, err = verifier.Verify(s.ctx, "token")
	s.Require().NoError(err)
	s.Equal(2, inner.calls)
}

func (s *CachingVerifierSuite) TestZeroTTLDelegates() {
	inner := &countingVerifier{identity: &domain.Identity{SubjectID: "u1"}}
	verifier := NewCachingVerifier(inner, nil, 0, zap.NewNop())

	_, err := verifier.Verify(s.ctx, "token")
	s.Require().NoError(err)
	s.Equal(1, inner.calls)
}

func (s *CachingVerifierSuite) TestPropagatesVerificationFailure() {
	inner := &countingVerifier{err: errors.New("token expired")}
	verifier := NewCachingVerifier(inner, nil, time.Minute, zap.NewNop())

	_, err := verifier.Verify(s.ctx, "token")
	s.Require().Error(err)
	s.ErrorContains(err, "token expired")
}

func (s *CachingVerifierSuite) TestTTLCappedByTokenExpiry() {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	configured := 5 * time.Minute

	s.Run("long-lived token keeps configured ttl", func() {
		s.Equal(configured, cacheTTL(configured, now.Add(time.Hour), now))
	})

	s.Run("token expiring sooner shortens the entry", func() {
		s.Equal(30*time.Second, cacheTTL(configured, now.Add(30*time.Second), now))
	})

	s.Run("token at or past expiry is never cached", func() {
		s.Zero(cacheTTL(configured, now, now))
		s.Zero(cacheTTL(configured, now.Add(-time.Second), now))
	})

	s.Run("no exp claim falls back to configured ttl", func() {
		s.Equal(configured, cacheTTL(configured, time.Time{}, now))
	})
}

func (s *CachingVerifierSuite) TestEntryExpiryRecheck() {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	live := cacheEntry{ExpiresAt: now.Add(time.Minute)}
	s.False(live.Expired(now))

	lapsed := cacheEntry{ExpiresAt: now.Add(-time.Second)}
	s.True(lapsed.Expired(now))

	boundary := cacheEntry{ExpiresAt: now}
	s.True(boundary.Expired(now))

	unbounded := cacheEntry{}
	s.False(unbounded.Expired(now))
}

func (s *CachingVerifierSuite) TestCacheKeyNeverEmbedsToken() {
	key := verifyCacheKey("secret-bearer-token")
	s.NotContains(key, "secret-bearer-token")
	s.Contains(key, verifyCachePrefix)
	s.Equal(verifyCacheKey("secret-bearer-token"), key)
	s.NotEqual(verifyCacheKey("other-token"), key)
}
