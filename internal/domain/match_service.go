package domain

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MatchService struct {
	profiles ProfileRepository
	matches  MatchRepository
	notifier Notifier
	logger   *zap.Logger
}

func NewMatchService(profiles ProfileRepository, matches MatchRepository, notifier Notifier, logger *zap.Logger) *MatchService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchService{
		profiles: profiles,
		matches:  matches,
		notifier: notifier,
		logger:   logger,
	}
}

// GenerateMatches scores sourceUserID against every other participant of
// the event and replaces the stored candidate set with the result.
func (s *MatchService) GenerateMatches(ctx context.Context, eventID, sourceUserID uuid.UUID) ([]*MatchCandidate, error) {
	source, err := s.profiles.GetProfile(ctx, eventID, sourceUserID)
	if err != nil {
		return nil, err
	}

	profiles, err := s.profiles.ListEventProfiles(ctx, eventID)
	if err != nil {
		return nil, err
	}

	candidates := make([]*MatchCandidate, 0, len(profiles))
	for _, p := range profiles {
		if p.UserID == sourceUserID {
			continue
		}
		c := Score(source, p)
		candidates = append(candidates, &MatchCandidate{
			EventID:      eventID,
			SourceUserID: sourceUserID,
			TargetUserID: p.UserID,
			Score:        c.Score,
			Reasons:      c.Reasons,
			Bucket:       c.Bucket,
		})
	}

	if len(candidates) == 0 {
		return []*MatchCandidate{}, nil
	}

	// Stable so equal scores keep participant order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	for i, c := range candidates {
		c.Rank = i + 1
	}

	stored, err := s.matches.ReplaceMatches(ctx, eventID, sourceUserID, candidates)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, ChangeEvent{
		Kind:         ChangeMatchesGenerated,
		EventID:      eventID,
		Recipients:   []uuid.UUID{sourceUserID},
		SourceUserID: sourceUserID,
		MatchCount:   len(stored),
	})

	return stored, nil
}

// ListMatches returns the stored candidates for sourceUserID with each
// target's profile attached when it still exists.
func (s *MatchService) ListMatches(ctx context.Context, eventID, sourceUserID uuid.UUID) ([]*MatchCandidate, error) {
	matches, err := s.matches.ListMatches(ctx, eventID, sourceUserID)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return []*MatchCandidate{}, nil
	}

	profiles, err := s.profiles.ListEventProfiles(ctx, eventID)
	if err != nil {
		return nil, err
	}
	byUser := make(map[uuid.UUID]*Profile, len(profiles))
	for _, p := range profiles {
		byUser[p.UserID] = p
	}
	for _, m := range matches {
		m.TargetProfile = byUser[m.TargetUserID]
	}
	return matches, nil
}

// PassOnCandidate removes one directed candidate row. The reverse row and
// any connection between the pair are left alone.
func (s *MatchService) PassOnCandidate(ctx context.Context, eventID, sourceUserID, targetUserID uuid.UUID) error {
	if sourceUserID == targetUserID {
		return invalidOp("cannot pass on yourself")
	}

	if err := s.matches.DeleteMatch(ctx, eventID, sourceUserID, targetUserID); err != nil {
		return err
	}

	s.publish(ctx, ChangeEvent{
		Kind:         ChangeMatchPassed,
		EventID:      eventID,
		Recipients:   []uuid.UUID{sourceUserID},
		SourceUserID: sourceUserID,
		TargetUserID: targetUserID,
	})
	return nil
}

func (s *MatchService) publish(ctx context.Context, ev ChangeEvent) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	if err := s.notifier.Publish(ctx, ev); err != nil {
		s.logger.Warn("failed to publish match change",
			zap.String("kind", string(ev.Kind)),
			zap.String("event_id", ev.EventID.String()),
			zap.Error(err),
		)
	}
}
