package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ChangeKind string

const (
	ChangeMatchesGenerated   ChangeKind = "matches.generated"
	ChangeMatchPassed        ChangeKind = "match.passed"
	ChangeInterestExpressed  ChangeKind = "connection.pending"
	ChangeConnectionAccepted ChangeKind = "connection.accepted"
	ChangeConnectionDeclined ChangeKind = "connection.declined"
)

// ChangeEvent describes a committed change to match or connection rows.
type ChangeEvent struct {
	Kind         ChangeKind  `json:"kind"`
	EventID      uuid.UUID   `json:"event_id"`
	Recipients   []uuid.UUID `json:"recipients"`
	SourceUserID uuid.UUID   `json:"source_user_id"`
	TargetUserID uuid.UUID   `json:"target_user_id,omitempty"`
	Connection   *Connection `json:"connection,omitempty"`
	MatchCount   int         `json:"match_count,omitempty"`
	OccurredAt   time.Time   `json:"occurred_at"`
}

// Notifier delivers change events to the recipients' clients. Publish must
// not block on slow consumers.
type Notifier interface {
	Publish(ctx context.Context, ev ChangeEvent) error
}

// NopNotifier discards every event.
type NopNotifier struct{}

func (NopNotifier) Publish(context.Context, ChangeEvent) error { return nil }
