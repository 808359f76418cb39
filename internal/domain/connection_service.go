package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InterestResult is the outcome of ExpressInterest
type InterestResult struct {
	Connection    *Connection `json:"connection"`
	AlreadyExists bool        `json:"already_exists"`
	Mutual        bool        `json:"mutual"`
}

type ConnectionService struct {
	repo     ConnectionRepository
	profiles ProfileRepository
	notifier Notifier
	logger   *zap.Logger
}

func NewConnectionService(repo ConnectionRepository, profiles ProfileRepository, notifier Notifier, logger *zap.Logger) *ConnectionService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConnectionService{
		repo:     repo,
		profiles: profiles,
		notifier: notifier,
		logger:   logger,
	}
}

// ExpressInterest records requesterID's interest in targetID. The pair keeps
// a single row: a pending row started by the target is upgraded to accepted,
// anything else that already exists is returned unchanged.
func (s *ConnectionService) ExpressInterest(ctx context.Context, eventID, requesterID, targetID uuid.UUID) (*InterestResult, error) {
	if requesterID == targetID {
		return nil, invalidOp("cannot express interest in yourself")
	}
	if err := s.requireParticipant(ctx, eventID, requesterID); err != nil {
		return nil, err
	}
	if err := s.requireParticipant(ctx, eventID, targetID); err != nil {
		return nil, err
	}

	var result InterestResult
	err := s.repo.WithPair(ctx, eventID, requesterID, targetID, func(ctx context.Context, tx PairTx) error {
		result = InterestResult{}

		existing, err := tx.FindPair(ctx)
		if err != nil {
			return err
		}

		if existing == nil {
			conn, err := tx.CreateConnection(ctx, requesterID, targetID)
			if err != nil {
				return err
			}
			result.Connection = conn
			return nil
		}

		if existing.UserAID == targetID && existing.Status == ConnectionStatusPending {
			conn, err := tx.UpdateConnectionStatus(ctx, existing.ID, ConnectionStatusAccepted)
			if err != nil {
				return err
			}
			result.Connection = conn
			result.Mutual = true
			return nil
		}

		result.Connection = existing
		result.AlreadyExists = true
		result.Mutual = existing.Status == ConnectionStatusAccepted
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyExists {
		kind := ChangeInterestExpressed
		if result.Mutual {
			kind = ChangeConnectionAccepted
		}
		s.publish(ctx, ChangeEvent{
			Kind:         kind,
			EventID:      eventID,
			Recipients:   []uuid.UUID{requesterID, targetID},
			SourceUserID: requesterID,
			TargetUserID: targetID,
			Connection:   result.Connection,
		})
	}

	return &result, nil
}

// DeclineInterest lets userID turn down the pending interest requesterID
// expressed in them.
func (s *ConnectionService) DeclineInterest(ctx context.Context, eventID, userID, requesterID uuid.UUID) (*Connection, error) {
	if userID == requesterID {
		return nil, invalidOp("cannot decline yourself")
	}

	var (
		conn    *Connection
		changed bool
	)
	err := s.repo.WithPair(ctx, eventID, userID, requesterID, func(ctx context.Context, tx PairTx) error {
		changed = false

		existing, err := tx.FindPair(ctx)
		if err != nil {
			return err
		}
		// Only the addressee of a request can decline it.
		if existing == nil || existing.UserAID != requesterID {
			return ErrConnectionNotFound
		}

		switch existing.Status {
		case ConnectionStatusDeclined:
			conn = existing
			return nil
		case ConnectionStatusAccepted:
			return invalidOp("connection already accepted")
		}

		conn, err = tx.UpdateConnectionStatus(ctx, existing.ID, ConnectionStatusDeclined)
		if err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.publish(ctx, ChangeEvent{
			Kind:         ChangeConnectionDeclined,
			EventID:      eventID,
			Recipients:   []uuid.UUID{userID, requesterID},
			SourceUserID: userID,
			TargetUserID: requesterID,
			Connection:   conn,
		})
	}
	return conn, nil
}

// ListConnections returns the user's pending and accepted connections unless
// statuses narrows the set.
func (s *ConnectionService) ListConnections(ctx context.Context, eventID, userID uuid.UUID, statuses ...ConnectionStatus) ([]*Connection, error) {
	if len(statuses) == 0 {
		statuses = []ConnectionStatus{ConnectionStatusPending, ConnectionStatusAccepted}
	}
	for _, st := range statuses {
		if !st.Valid() {
			return nil, invalidOp(fmt.Sprintf("unknown connection status %q", st))
		}
	}

	conns, err := s.repo.ListConnections(ctx, eventID, userID, statuses)
	if err != nil {
		return nil, err
	}
	if len(conns) == 0 {
		return []*Connection{}, nil
	}

	profiles, err := s.profiles.ListEventProfiles(ctx, eventID)
	if err != nil {
		return nil, err
	}
	byUser := make(map[uuid.UUID]*Profile, len(profiles))
	for _, p := range profiles {
		byUser[p.UserID] = p
	}
	for _, c := range conns {
		other := c.Other(userID)
		c.OtherUserID = &other
		c.OtherProfile = byUser[other]
	}
	return conns, nil
}

// ListMutualConnections returns only accepted connections
func (s *ConnectionService) ListMutualConnections(ctx context.Context, eventID, userID uuid.UUID) ([]*Connection, error) {
	return s.ListConnections(ctx, eventID, userID, ConnectionStatusAccepted)
}

func (s *ConnectionService) requireParticipant(ctx context.Context, eventID, userID uuid.UUID) error {
	_, err := s.profiles.GetProfile(ctx, eventID, userID)
	if errors.Is(err, ErrProfileNotFound) {
		return fmt.Errorf("%w: %s has no profile in this event", ErrUserNotFound, userID)
	}
	return err
}

func (s *ConnectionService) publish(ctx context.Context, ev ChangeEvent) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	if err := s.notifier.Publish(ctx, ev); err != nil {
		s.logger.Warn("failed to publish connection change",
			zap.String("kind", string(ev.Kind)),
			zap.String("event_id", ev.EventID.String()),
			zap.Error(err),
		)
	}
}
