package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/teammatch/backend/internal/domain"
)

const matchColumns = `event_id, source_user_id, target_user_id, score, rank, reasons, bucket, generated_at`

// ReplaceMatches writes the new set in one transaction. Rows whose content
// is unchanged are left untouched, so regenerating from identical profiles
// does not rewrite anything.
func (r *PostgresRepository) ReplaceMatches(ctx context.Context, eventID, sourceUserID uuid.UUID, candidates []*domain.MatchCandidate) ([]*domain.MatchCandidate, error) {
	const op = "matches.replace"

	targets := make([]uuid.UUID, len(candidates))
	for i, c := range candidates {
		targets[i] = c.TargetUserID
	}

	var stored []*domain.MatchCandidate
	err := r.inTx(ctx, op, func(tx pgx.Tx) error {
		prune := `
			DELETE FROM match_candidates
			WHERE event_id = $1 AND source_user_id = $2 AND NOT (target_user_id = ANY($3::uuid[]))`
		if _, err := tx.Exec(ctx, prune, eventID, sourceUserID, uuidStrings(targets)); err != nil {
			return domain.StoreError(op, err)
		}

		upsert := `
			INSERT INTO match_candidates (` + matchColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			ON CONFLICT (event_id, source_user_id, target_user_id) DO UPDATE SET
				score = EXCLUDED.score,
				rank = EXCLUDED.rank,
				reasons = EXCLUDED.reasons,
				bucket = EXCLUDED.bucket,
				generated_at = EXCLUDED.generated_at
			WHERE (match_candidates.score, match_candidates.rank, match_candidates.reasons, match_candidates.bucket)
				IS DISTINCT FROM (EXCLUDED.score, EXCLUDED.rank, EXCLUDED.reasons, EXCLUDED.bucket)`

		batch := &pgx.Batch{}
		for _, c := range candidates {
			batch.Queue(upsert, eventID, sourceUserID, c.TargetUserID, c.Score, c.Rank, nonNil(c.Reasons), string(c.Bucket))
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return domain.StoreError(op, err)
		}

		var err error
		stored, err = listMatches(ctx, tx, eventID, sourceUserID)
		if err != nil {
			return domain.StoreError(op, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (r *PostgresRepository) ListMatches(ctx context.Context, eventID, sourceUserID uuid.UUID) ([]*domain.MatchCandidate, error) {
	matches, err := listMatches(ctx, r.db, eventID, sourceUserID)
	if err != nil {
		return nil, domain.StoreError("matches.list", err)
	}
	return matches, nil
}

func (r *PostgresRepository) DeleteMatch(ctx context.Context, eventID, sourceUserID, targetUserID uuid.UUID) error {
	query := `DELETE FROM match_candidates WHERE event_id = $1 AND source_user_id = $2 AND target_user_id = $3`
	if _, err := r.db.Exec(ctx, query, eventID, sourceUserID, targetUserID); err != nil {
		return domain.StoreError("matches.delete", err)
	}
	return nil
}

func (r *PostgresRepository) PruneEndedEvents(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM match_candidates m
		USING events e
		WHERE m.event_id = e.id AND e.ends_at IS NOT NULL AND e.ends_at < $1`
	tag, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, domain.StoreError("matches.prune", err)
	}
	return tag.RowsAffected(), nil
}

func listMatches(ctx context.Context, q querier, eventID, sourceUserID uuid.UUID) ([]*domain.MatchCandidate, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM match_candidates
		WHERE event_id = $1 AND source_user_id = $2
		ORDER BY score DESC, rank ASC`

	rows, err := q.Query(ctx, query, eventID, sourceUserID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.MatchCandidate, error) {
		return scanMatch(row)
	})
}

func scanMatch(row pgx.Row) (*domain.MatchCandidate, error) {
	var (
		m      domain.MatchCandidate
		bucket string
	)
	err := row.Scan(&m.EventID, &m.SourceUserID, &m.TargetUserID, &m.Score, &m.Rank, &m.Reasons, &bucket, &m.GeneratedAt)
	if err != nil {
		return nil, err
	}
	m.Bucket = domain.Bucket(bucket)
	if !m.Bucket.Valid() {
		return nil, fmt.Errorf("unknown bucket %q", bucket)
	}
	m.Reasons = nonNil(m.Reasons)
	return &m, nil
}
