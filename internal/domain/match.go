package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Bucket string

const (
	BucketStrongComplement Bucket = "strong_complement"
	BucketGoodPotential    Bucket = "good_potential"
	BucketExplore          Bucket = "explore"
)

func (b Bucket) Valid() bool {
	switch b {
	case BucketStrongComplement, BucketGoodPotential, BucketExplore:
		return true
	}
	return false
}

// MatchCandidate is a generated, directional suggestion of TargetUserID to
// SourceUserID. (EventID, SourceUserID, TargetUserID) is its key.
type MatchCandidate struct {
	EventID      uuid.UUID `json:"event_id"`
	SourceUserID uuid.UUID `json:"source_user_id"`
	TargetUserID uuid.UUID `json:"target_user_id"`
	Score        int       `json:"score"`
	Rank         int       `json:"rank"`
	Reasons      []string  `json:"reasons"`
	Bucket       Bucket    `json:"bucket"`
	GeneratedAt  time.Time `json:"generated_at"`

	// Filled in by MatchService.ListMatches with the target's profile
	TargetProfile *Profile `json:"target_profile,omitempty"`
}

type MatchRepository interface {
	// ReplaceMatches atomically makes candidates the complete stored set for
	// (eventID, sourceUserID) and returns the stored rows.
	ReplaceMatches(ctx context.Context, eventID, sourceUserID uuid.UUID, candidates []*MatchCandidate) ([]*MatchCandidate, error)
	ListMatches(ctx context.Context, eventID, sourceUserID uuid.UUID) ([]*MatchCandidate, error)
	// DeleteMatch removes one directed row. Deleting a missing row is not an error.
	DeleteMatch(ctx context.Context, eventID, sourceUserID, targetUserID uuid.UUID) error
	// PruneEndedEvents drops candidates of events that ended before cutoff.
	PruneEndedEvents(ctx context.Context, cutoff time.Time) (int64, error)
}
