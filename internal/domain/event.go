package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is a bounded matching context, joined by code.
type Event struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Code        string     `json:"code"`
	HostID      uuid.UUID  `json:"host_id"`
	Description *string    `json:"description,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Participant struct {
	EventID  uuid.UUID `json:"event_id"`
	UserID   uuid.UUID `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

type CreateEventParams struct {
	Name        string
	Code        string
	HostID      uuid.UUID
	Description *string
	StartsAt    *time.Time
	EndsAt      *time.Time
}

type EventRepository interface {
	// CreateEvent returns ErrEventCodeTaken when params.Code is already used.
	CreateEvent(ctx context.Context, params CreateEventParams) (*Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error)
	GetEventByCode(ctx context.Context, code string) (*Event, error)
	ListHostedEvents(ctx context.Context, hostID uuid.UUID) ([]*Event, error)
	ListUserEvents(ctx context.Context, userID uuid.UUID) ([]*Event, error)
	// JoinEvent inserts the participant row if absent. created is false when
	// the user had already joined.
	JoinEvent(ctx context.Context, eventID, userID uuid.UUID) (p *Participant, created bool, err error)
}
