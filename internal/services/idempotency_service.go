package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/swadrive/swadrive-backend/internal/repo"
)

// DefaultIdempotencyTTL is used when no TTL is configured.
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyService records which resource a client's Idempotency-Key
// produced, so a retried create can be answered with the original result.
type IdempotencyService struct {
	DB  *gorm.DB
	TTL time.Duration
}

// NewIdempotencyService constructs an IdempotencyService; ttl <= 0 uses
// DefaultIdempotencyTTL.
func NewIdempotencyService(db *gorm.DB, ttl time.Duration) *IdempotencyService {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &IdempotencyService{DB: db, TTL: ttl}
}

// Lookup returns the resource recorded for (userID, scope, key) if it has
// not expired at now. Its signature matches middleware.IdempotencyLookup.
func (s *IdempotencyService) Lookup(ctx context.Context, userID, scope, key string, now time.Time) (string, bool, error) {
	rec, err := repo.GetIdempotency(ctx, s.DB, userID, scope, key, now)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return rec.ResourceID, true, nil
}

// Remember records resourceID as the result of (userID, scope, key). A key
// already on record is left untouched. Failures are logged and swallowed;
// the worst case is a retry that creates a second resource.
func (s *IdempotencyService) Remember(ctx context.Context, userID, scope, key, resourceID string, status int) {
	if key == "" {
		return
	}
	_, err := repo.CreateIdempotency(ctx, s.DB, userID, scope, key, resourceID, status, s.TTL)
	if err != nil && !errors.Is(err, repo.ErrDuplicate) {
		zerolog.Ctx(ctx).Warn().Err(err).Str("scope", scope).Msg("idempotency record not stored")
	}
}

// Purge deletes expired records and returns how many were removed.
func (s *IdempotencyService) Purge(ctx context.Context, now time.Time) (int64, error) {
	return repo.PurgeExpiredIdempotency(ctx, s.DB, now)
}
