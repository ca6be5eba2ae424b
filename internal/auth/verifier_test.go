package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/campus-market/marketplace-service/internal/domain"
)

type VerifierSuite struct {
	suite.Suite
	verifier *JWTVerifier
	ctx      context.Context
}

func TestVerifierSuite(t *testing.T) {
	suite.Run(t, new(VerifierSuite))
}

func (s *VerifierSuite) SetupTest() {
	s.verifier = NewJWTVerifier("test-secret")
	s.ctx = context.Background()
}

func (s *VerifierSuite) TestValidToken() {
	token, err := IssueToken("test-secret", domain.Identity{
		SubjectID:   "u1",
		Email:       "alice@email.iimcal.ac.in",
		DisplayName: "Alice",
	}, time.Hour)
	s.Require().NoError(err)

	identity, err := s.verifier.Verify(s.ctx, token)
	s.Require().NoError(err)
	s.Equal("u1", identity.SubjectID)
	s.Equal("alice@email.iimcal.ac.in", identity.Email)
	s.Equal("Alice", identity.DisplayName)
}

func (s *VerifierSuite) TestExpiredToken() {
	token, err := IssueToken("test-secret", domain.Identity{SubjectID: "u1", Email: "a@b"}, -time.Minute)
	s.Require().NoError(err)

	_, err = s.verifier.Verify(s.ctx, token)
	s.Require().Error(err)
}

func (s *VerifierSuite) TestWrongSecret() {
	token, err := IssueToken("other-secret", domain.Identity{SubjectID: "u1", Email: "a@b"}, time.Hour)
	s.Require().NoError(err)

	_, err = s.verifier.Verify(s.ctx, token)
	s.Require().Error(err)
}

func (s *VerifierSuite) TestMalformedToken() {
	_, err := s.verifier.Verify(s.ctx, "not-a-token")
	s.Require().Error(err)
}

func (s *VerifierSuite) TestVerifyWithExpiryReportsExp() {
	token, err := IssueToken("test-secret", domain.Identity{SubjectID: "u1", Email: "a@email.iimcal.ac.in"}, time.Hour)
	s.Require().NoError(err)

	identity, expiry, err := s.verifier.VerifyWithExpiry(s.ctx, token)
	s.Require().NoError(err)
	s.Equal("u1", identity.SubjectID)
	s.False(expiry.IsZero())
	s.WithinDuration(time.Now().Add(time.Hour), expiry, time.Minute)
}
