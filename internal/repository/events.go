package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/teammatch/backend/internal/domain"
)

const eventColumns = `id, name, code, host_id, description, starts_at, ends_at, created_at`

func (r *PostgresRepository) CreateEvent(ctx context.Context, params domain.CreateEventParams) (*domain.Event, error) {
	query := `
		INSERT INTO events (name, code, host_id, description, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + eventColumns

	event, err := scanEvent(r.db.QueryRow(ctx, query,
		params.Name, params.Code, params.HostID, params.Description, params.StartsAt, params.EndsAt,
	))
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return nil, domain.ErrEventCodeTaken
		}
		return nil, domain.StoreError("events.create", err)
	}
	return event, nil
}

func (r *PostgresRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return getEvent(r.db.QueryRow(ctx, query, id), "events.get")
}

func (r *PostgresRepository) GetEventByCode(ctx context.Context, code string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE code = $1`
	return getEvent(r.db.QueryRow(ctx, query, code), "events.get_by_code")
}

func (r *PostgresRepository) ListHostedEvents(ctx context.Context, hostID uuid.UUID) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE host_id = $1 ORDER BY created_at DESC`
	return r.listEvents(ctx, "events.list_hosted", query, hostID)
}

func (r *PostgresRepository) ListUserEvents(ctx context.Context, userID uuid.UUID) ([]*domain.Event, error) {
	query := `
		SELECT e.id, e.name, e.code, e.host_id, e.description, e.starts_at, e.ends_at, e.created_at
		FROM events e
		JOIN participants p ON p.event_id = e.id
		WHERE p.user_id = $1
		ORDER BY p.joined_at DESC`
	return r.listEvents(ctx, "events.list_joined", query, userID)
}

func (r *PostgresRepository) JoinEvent(ctx context.Context, eventID, userID uuid.UUID) (*domain.Participant, bool, error) {
	insert := `
		INSERT INTO participants (event_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (event_id, user_id) DO NOTHING
		RETURNING event_id, user_id, joined_at`

	p, err := scanParticipant(r.db.QueryRow(ctx, insert, eventID, userID))
	if err == nil {
		return p, true, nil
	}
	if isPgError(err, pgForeignKeyViolation) {
		return nil, false, domain.ErrEventNotFound
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, domain.StoreError("participants.join", err)
	}

	// Already joined
	existing := `SELECT event_id, user_id, joined_at FROM participants WHERE event_id = $1 AND user_id = $2`
	p, err = scanParticipant(r.db.QueryRow(ctx, existing, eventID, userID))
	if err != nil {
		return nil, false, domain.StoreError("participants.join", err)
	}
	return p, false, nil
}

func (r *PostgresRepository) listEvents(ctx context.Context, op, query string, arg any) ([]*domain.Event, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, domain.StoreError(op, err)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Event, error) {
		return scanEvent(row)
	})
	if err != nil {
		return nil, domain.StoreError(op, err)
	}
	return events, nil
}

func getEvent(row pgx.Row, op string) (*domain.Event, error) {
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, domain.StoreError(op, err)
	}
	return event, nil
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var e domain.Event
	err := row.Scan(&e.ID, &e.Name, &e.Code, &e.HostID, &e.Description, &e.StartsAt, &e.EndsAt, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanParticipant(row pgx.Row) (*domain.Participant, error) {
	var p domain.Participant
	if err := row.Scan(&p.EventID, &p.UserID, &p.JoinedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
