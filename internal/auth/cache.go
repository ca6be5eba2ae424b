package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campus-market/marketplace-service/internal/domain"
)

const verifyCachePrefix = "auth:verify:"

// expiryVerifier is implemented by verifiers that can report the token's
// remaining lifetime, so cache entries never outlive the token itself.
type expiryVerifier interface {
	VerifyWithExpiry(ctx context.Context, token string) (*domain.Identity, time.Time, error)
}

// cacheEntry is the persisted cache payload. ExpiresAt carries the token
// expiry so a hit can be re-checked even if the Redis TTL lags.
type cacheEntry struct {
	Identity  domain.Identity `json:"identity"`
	ExpiresAt time.Time       `json:"expiresAt,omitempty"`
}

// CachingVerifier memoizes successful verifications in Redis, sparing a
// provider round trip per request. The entry TTL is the configured value
// capped by the token expiry, so an expired token is never served from the
// cache. Failures are never cached, and any Redis error degrades to a
// plain verification.
type CachingVerifier struct {
	inner  Verifier
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachingVerifier wraps inner with a Redis-backed cache.
func NewCachingVerifier(inner Verifier, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachingVerifier {
	return &CachingVerifier{inner: inner, client: client, ttl: ttl, logger: logger}
}

// Verify checks the cache before delegating to the wrapped verifier.
func (v *CachingVerifier) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	if v.client == nil || v.ttl <= 0 {
		return v.inner.Verify(ctx, token)
	}

	now := time.Now()
	key := verifyCacheKey(token)
	if cached, err := v.client.Get(ctx, key).Bytes(); err == nil {
		var entry cacheEntry
		if err := json.Unmarshal(cached, &entry); err == nil && !entry.Expired(now) {
			return &entry.Identity, nil
		}
	} else if err != redis.Nil {
		v.logger.Debug("verification cache unavailable", zap.Error(err))
	}

	identity, expiry, err := v.verifyInner(ctx, token)
	if err != nil {
		return nil, err
	}

	if ttl := cacheTTL(v.ttl, expiry, now); ttl > 0 {
		entry := cacheEntry{Identity: *identity, ExpiresAt: expiry}
		if payload, err := json.Marshal(entry); err == nil {
			if err := v.client.Set(ctx, key, payload, ttl).Err(); err != nil {
				v.logger.Debug("verification cache write failed", zap.Error(err))
			}
		}
	}
	return identity, nil
}

func (v *CachingVerifier) verifyInner(ctx context.Context, token string) (*domain.Identity, time.Time, error) {
	if ev, ok := v.inner.(expiryVerifier); ok {
		return ev.VerifyWithExpiry(ctx, token)
	}
	identity, err := v.inner.Verify(ctx, token)
	return identity, time.Time{}, err
}

// Expired reports whether the token behind the entry has lapsed. Entries
// without a recorded expiry never lapse here; the Redis TTL governs them.
func (e cacheEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// cacheTTL bounds the configured TTL by the token's remaining lifetime.
// A token already at or past its expiry yields zero, meaning do not cache.
func cacheTTL(configured time.Duration, expiry time.Time, now time.Time) time.Duration {
	if expiry.IsZero() {
		return configured
	}
	remaining := expiry.Sub(now)
	if remaining <= 0 {
		return 0
	}
	if remaining < configured {
		return remaining
	}
	return configured
}

// verifyCacheKey hashes the token so raw credentials never land in Redis.
func verifyCacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return verifyCachePrefix + hex.EncodeToString(sum[:])
}
