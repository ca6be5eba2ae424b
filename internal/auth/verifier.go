package auth

import (
	"context"
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/campus-market/marketplace-service/internal/domain"
)

// Verifier validates an opaque bearer token against the identity provider
// and returns the attested identity. Token issuance is not part of this
// service; verification is the only operation consumed.
type Verifier interface {
	Verify(ctx context.Context, token string) (*domain.Identity, error)
}

// IdentityClaims describes the identity provider's token payload.
type IdentityClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier validates provider-signed HS256 tokens.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier builds a verifier around the shared signing secret.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify parses and validates the token, returning the identity it attests.
func (v *JWTVerifier) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	identity, _, err := v.VerifyWithExpiry(ctx, token)
	return identity, err
}

// VerifyWithExpiry additionally reports when the token stops being valid,
// letting caching layers bound their entries by the token lifetime. A token
// without an exp claim yields a zero expiry.
func (v *JWTVerifier) VerifyWithExpiry(ctx context.Context, token string) (*domain.Identity, time.Time, error) {
	parsed, err := jwt.ParseWithClaims(token, &IdentityClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, time.Time{}, err
	}

	claims, ok := parsed.Claims.(*IdentityClaims)
	if !ok || !parsed.Valid {
		return nil, time.Time{}, errors.New("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, time.Time{}, errors.New("token missing subject")
	}

	var expiry time.Time
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}
	return &domain.Identity{
		SubjectID:   claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
	}, expiry, nil
}

// IssueToken signs an identity token. Used by tests and local tooling; the
// real issuer is the external identity provider.
func IssueToken(secret string, identity domain.Identity, ttl time.Duration) (string, error) {
	claims := &IdentityClaims{
		Email: identity.Email,
		Name:  identity.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.SubjectID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
