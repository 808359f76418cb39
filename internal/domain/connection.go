package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	ConnectionStatusDeclined ConnectionStatus = "declined"
)

func (s ConnectionStatus) Valid() bool {
	switch s {
	case ConnectionStatusPending, ConnectionStatusAccepted, ConnectionStatusDeclined:
		return true
	}
	return false
}

// Connection is the single row kept per unordered pair of users in an event.
// UserAID is the party who expressed interest first.
type Connection struct {
	ID        uuid.UUID        `json:"id"`
	EventID   uuid.UUID        `json:"event_id"`
	UserAID   uuid.UUID        `json:"user_a_id"`
	UserBID   uuid.UUID        `json:"user_b_id"`
	Status    ConnectionStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	// Filled in by ConnectionService.ListConnections relative to the requesting user
	OtherUserID  *uuid.UUID `json:"other_user_id,omitempty"`
	OtherProfile *Profile   `json:"other_profile,omitempty"`
}

// Involves reports whether userID is either party.
func (c *Connection) Involves(userID uuid.UUID) bool {
	return c.UserAID == userID || c.UserBID == userID
}

// Other returns the party that is not userID.
func (c *Connection) Other(userID uuid.UUID) uuid.UUID {
	if c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}

// PairTx is the view of one unordered pair available inside
// ConnectionRepository.WithPair. Every call runs in the same transaction.
type PairTx interface {
	// FindPair returns the pair's row in either ordering, or nil.
	FindPair(ctx context.Context) (*Connection, error)
	CreateConnection(ctx context.Context, userAID, userBID uuid.UUID) (*Connection, error)
	UpdateConnectionStatus(ctx context.Context, connectionID uuid.UUID, status ConnectionStatus) (*Connection, error)
}

type ConnectionRepository interface {
	// WithPair runs fn while holding an exclusive lock on the unordered pair
	// {userA, userB} in eventID. fn's writes commit only if it returns nil.
	WithPair(ctx context.Context, eventID, userA, userB uuid.UUID, fn func(ctx context.Context, tx PairTx) error) error
	// ListConnections returns rows where userID is either party and the status
	// is one of statuses, newest first.
	ListConnections(ctx context.Context, eventID, userID uuid.UUID, statuses []ConnectionStatus) ([]*Connection, error)
}
