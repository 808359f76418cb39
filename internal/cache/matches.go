package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teammatch/backend/internal/domain"
)

// MatchRepository caches candidate lists in front of another
// domain.MatchRepository. Writes go through to the store first and then
// bump the list's generation; cache failures only cost a store read.
//
// Cached lists are keyed by generation. A reader that loaded the store
// before a write committed can only populate the old generation's key,
// which no later reader looks at.
type MatchRepository struct {
	next   domain.MatchRepository
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewMatchRepository(next domain.MatchRepository, cache Cache, ttl time.Duration, logger *zap.Logger) *MatchRepository {
	return &MatchRepository{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func matchGenerationKey(eventID, sourceUserID uuid.UUID) string {
	return "matches:gen:" + eventID.String() + ":" + sourceUserID.String()
}

func matchListKey(eventID, sourceUserID uuid.UUID, gen int64) string {
	return "matches:" + eventID.String() + ":" + sourceUserID.String() + ":" + strconv.FormatInt(gen, 10)
}

func (r *MatchRepository) ReplaceMatches(ctx context.Context, eventID, sourceUserID uuid.UUID, candidates []*domain.MatchCandidate) ([]*domain.MatchCandidate, error) {
	stored, err := r.next.ReplaceMatches(ctx, eventID, sourceUserID, candidates)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, eventID, sourceUserID)
	return stored, nil
}

func (r *MatchRepository) ListMatches(ctx context.Context, eventID, sourceUserID uuid.UUID) ([]*domain.MatchCandidate, error) {
	gen, err := r.cache.Generation(ctx, matchGenerationKey(eventID, sourceUserID))
	if err != nil {
		r.logger.Warn("match cache generation read failed", zap.Error(err))
		return r.next.ListMatches(ctx, eventID, sourceUserID)
	}
	key := matchListKey(eventID, sourceUserID, gen)

	var cached []*domain.MatchCandidate
	hit, err := r.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		r.logger.Warn("match cache read failed", zap.String("key", key), zap.Error(err))
	} else if hit {
		return cached, nil
	}

	matches, err := r.next.ListMatches(ctx, eventID, sourceUserID)
	if err != nil {
		return nil, err
	}
	if err := r.cache.SetJSON(ctx, key, matches, r.ttl); err != nil {
		r.logger.Warn("match cache write failed", zap.String("key", key), zap.Error(err))
	}
	return matches, nil
}

func (r *MatchRepository) DeleteMatch(ctx context.Context, eventID, sourceUserID, targetUserID uuid.UUID) error {
	if err := r.next.DeleteMatch(ctx, eventID, sourceUserID, targetUserID); err != nil {
		return err
	}
	r.invalidate(ctx, eventID, sourceUserID)
	return nil
}

// PruneEndedEvents is not invalidated per key; pruned lists age out with the TTL.
func (r *MatchRepository) PruneEndedEvents(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.next.PruneEndedEvents(ctx, cutoff)
}

// invalidate moves readers to a fresh generation. The counter outlives every
// list entry so an expired counter never resurrects an old generation's key.
func (r *MatchRepository) invalidate(ctx context.Context, eventID, sourceUserID uuid.UUID) {
	key := matchGenerationKey(eventID, sourceUserID)
	if err := r.cache.Bump(ctx, key, 2*r.ttl); err != nil {
		r.logger.Warn("match cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}
