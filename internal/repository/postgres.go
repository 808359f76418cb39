package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/teammatch/backend/internal/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// PostgresRepository implements the domain repositories on PostgreSQL
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// querier is satisfied by both the pool and a transaction
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Ping checks that the database is reachable
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// inTx runs fn in a transaction. Errors returned by fn pass through as-is so
// domain errors are not mistaken for store failures.
func (r *PostgresRepository) inTx(ctx context.Context, op string, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.StoreError(op, err)
	}

	defer func() {
		// If the callback panics, make sure to rollback before re-panicking
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.StoreError(op, err)
	}
	return nil
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// orderPair returns the two ids in a stable order
func orderPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return a, b
	}
	return b, a
}

func pairLockKey(eventID, a, b uuid.UUID) string {
	lo, hi := orderPair(a, b)
	return fmt.Sprintf("connection:%s:%s:%s", eventID, lo, hi)
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// StartCleanupWorker periodically prunes match candidates of events that
// ended more than retention ago.
func (r *PostgresRepository) StartCleanupWorker(ctx context.Context, interval, retention time.Duration, logger *zap.Logger) {
	if interval <= 0 || retention <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := r.PruneEndedEvents(ctx, time.Now().Add(-retention))
				if err != nil {
					logger.Warn("match cleanup failed", zap.Error(err))
					continue
				}
				if n > 0 {
					logger.Info("pruned match candidates of ended events", zap.Int64("rows", n))
				}
			}
		}
	}()
}
