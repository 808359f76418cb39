package domain

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/teammatch/backend/pkg/validator"
)

const (
	EventCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	EventCodeLength   = 6

	maxCodeAttempts = 5
)

// GenerateEventCode returns a uniformly random join code. The alphabet has
// 32 symbols so masking a random byte keeps the distribution uniform.
func GenerateEventCode() (string, error) {
	buf := make([]byte, EventCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = EventCodeAlphabet[int(b)&(len(EventCodeAlphabet)-1)]
	}
	return string(buf), nil
}

// CreateEventInput is the host-supplied part of a new event
type CreateEventInput struct {
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}

// JoinResult is the outcome of JoinEvent
type JoinResult struct {
	Participant   *Participant `json:"participant"`
	AlreadyJoined bool         `json:"already_joined"`
}

type EventService struct {
	repo    EventRepository
	newCode func() (string, error)
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{
		repo:    repo,
		newCode: GenerateEventCode,
	}
}

// CreateEvent creates an event with a fresh join code and enrolls the host.
func (s *EventService) CreateEvent(ctx context.Context, hostID uuid.UUID, input CreateEventInput) (*Event, error) {
	var errs validator.ValidationErrors
	if !validator.ValidateEventName(input.Name) {
		errs.Add("name", "must be between 2 and 120 characters")
	}
	validator.ValidateMaxLength(&errs, "description", input.Description, validator.MaxDescription)
	if input.StartsAt != nil && input.EndsAt != nil && input.EndsAt.Before(*input.StartsAt) {
		errs.Add("ends_at", "must not be before starts_at")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	params := CreateEventParams{
		Name:        validator.SanitizeString(input.Name, validator.MaxEventName),
		HostID:      hostID,
		Description: validator.SanitizeOptional(input.Description),
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
	}

	var (
		event *Event
		err   error
	)
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		params.Code, err = s.newCode()
		if err != nil {
			return nil, err
		}
		event, err = s.repo.CreateEvent(ctx, params)
		if !errors.Is(err, ErrEventCodeTaken) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	if _, _, err := s.repo.JoinEvent(ctx, event.ID, hostID); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) GetEvent(ctx context.Context, eventID uuid.UUID) (*Event, error) {
	return s.repo.GetEventByID(ctx, eventID)
}

// GetEventByCode resolves a join code; case and surrounding space are ignored.
func (s *EventService) GetEventByCode(ctx context.Context, code string) (*Event, error) {
	code = validator.NormalizeEventCode(code)
	if !validator.ValidateEventCode(code) {
		return nil, ErrEventNotFound
	}
	return s.repo.GetEventByCode(ctx, code)
}

func (s *EventService) ListHostedEvents(ctx context.Context, hostID uuid.UUID) ([]*Event, error) {
	return s.repo.ListHostedEvents(ctx, hostID)
}

func (s *EventService) ListUserEvents(ctx context.Context, userID uuid.UUID) ([]*Event, error) {
	return s.repo.ListUserEvents(ctx, userID)
}

// JoinEvent enrolls userID in the event. Joining twice is not an error.
func (s *EventService) JoinEvent(ctx context.Context, eventID, userID uuid.UUID) (*JoinResult, error) {
	if _, err := s.repo.GetEventByID(ctx, eventID); err != nil {
		return nil, err
	}
	p, created, err := s.repo.JoinEvent(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	return &JoinResult{Participant: p, AlreadyJoined: !created}, nil
}
