package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/teammatch/backend/internal/domain"
)

const connectionColumns = `id, event_id, user_a_id, user_b_id, status, created_at, updated_at`

// WithPair serializes all work on one unordered pair with a transaction
// scoped advisory lock. The lock is taken before the row exists, which a
// plain FOR UPDATE cannot do.
func (r *PostgresRepository) WithPair(ctx context.Context, eventID, userA, userB uuid.UUID, fn func(ctx context.Context, tx domain.PairTx) error) error {
	const op = "connections.with_pair"

	return r.inTx(ctx, op, func(tx pgx.Tx) error {
		lock := `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`
		if _, err := tx.Exec(ctx, lock, pairLockKey(eventID, userA, userB)); err != nil {
			return domain.StoreError(op, err)
		}
		return fn(ctx, &pairTx{tx: tx, eventID: eventID, userA: userA, userB: userB})
	})
}

func (r *PostgresRepository) ListConnections(ctx context.Context, eventID, userID uuid.UUID, statuses []domain.ConnectionStatus) ([]*domain.Connection, error) {
	query := `
		SELECT ` + connectionColumns + `
		FROM connections
		WHERE event_id = $1 AND (user_a_id = $2 OR user_b_id = $2) AND status = ANY($3::text[])
		ORDER BY created_at DESC, id`

	filter := make([]string, len(statuses))
	for i, s := range statuses {
		filter[i] = string(s)
	}

	rows, err := r.db.Query(ctx, query, eventID, userID, filter)
	if err != nil {
		return nil, domain.StoreError("connections.list", err)
	}
	conns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Connection, error) {
		return scanConnection(row)
	})
	if err != nil {
		return nil, domain.StoreError("connections.list", err)
	}
	return conns, nil
}

type pairTx struct {
	tx      pgx.Tx
	eventID uuid.UUID
	userA   uuid.UUID
	userB   uuid.UUID
}

func (p *pairTx) FindPair(ctx context.Context) (*domain.Connection, error) {
	query := `
		SELECT ` + connectionColumns + `
		FROM connections
		WHERE event_id = $1
		  AND ((user_a_id = $2 AND user_b_id = $3) OR (user_a_id = $3 AND user_b_id = $2))
		LIMIT 1
		FOR UPDATE`

	conn, err := scanConnection(p.tx.QueryRow(ctx, query, p.eventID, p.userA, p.userB))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.StoreError("connections.find_pair", err)
	}
	return conn, nil
}

func (p *pairTx) CreateConnection(ctx context.Context, userAID, userBID uuid.UUID) (*domain.Connection, error) {
	if !p.covers(userAID, userBID) {
		return nil, fmt.Errorf("connection %s/%s is outside the locked pair", userAID, userBID)
	}
	query := `
		INSERT INTO connections (event_id, user_a_id, user_b_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + connectionColumns

	conn, err := scanConnection(p.tx.QueryRow(ctx, query, p.eventID, userAID, userBID, string(domain.ConnectionStatusPending)))
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return nil, domain.ErrEventNotFound
		}
		return nil, domain.StoreError("connections.create", err)
	}
	return conn, nil
}

func (p *pairTx) UpdateConnectionStatus(ctx context.Context, connectionID uuid.UUID, status domain.ConnectionStatus) (*domain.Connection, error) {
	query := `
		UPDATE connections SET status = $2, updated_at = NOW()
		WHERE id = $1 AND event_id = $3
		RETURNING ` + connectionColumns

	conn, err := scanConnection(p.tx.QueryRow(ctx, query, connectionID, string(status), p.eventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConnectionNotFound
		}
		return nil, domain.StoreError("connections.update_status", err)
	}
	return conn, nil
}

func (p *pairTx) covers(a, b uuid.UUID) bool {
	return (a == p.userA && b == p.userB) || (a == p.userB && b == p.userA)
}

func scanConnection(row pgx.Row) (*domain.Connection, error) {
	var (
		c      domain.Connection
		status string
	)
	if err := row.Scan(&c.ID, &c.EventID, &c.UserAID, &c.UserBID, &status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Status = domain.ConnectionStatus(status)
	if !c.Status.Valid() {
		return nil, fmt.Errorf("unknown connection status %q", status)
	}
	return &c, nil
}
