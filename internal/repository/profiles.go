package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/teammatch/backend/internal/domain"
)

const profileColumns = `event_id, user_id, name, role, skills_have, skills_need,
	experience_level, major, year, bio, created_at, updated_at`

func (r *PostgresRepository) GetProfile(ctx context.Context, eventID, userID uuid.UUID) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM event_profiles WHERE event_id = $1 AND user_id = $2`

	profile, err := scanProfile(r.db.QueryRow(ctx, query, eventID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, domain.StoreError("profiles.get", err)
	}
	return profile, nil
}

func (r *PostgresRepository) ListEventProfiles(ctx context.Context, eventID uuid.UUID) ([]*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM event_profiles WHERE event_id = $1 ORDER BY created_at, user_id`

	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, domain.StoreError("profiles.list", err)
	}
	profiles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Profile, error) {
		return scanProfile(row)
	})
	if err != nil {
		return nil, domain.StoreError("profiles.list", err)
	}
	return profiles, nil
}

func (r *PostgresRepository) UpsertProfile(ctx context.Context, params domain.UpsertProfileParams) (*domain.Profile, error) {
	query := `
		INSERT INTO event_profiles (event_id, user_id, name, role, skills_have, skills_need, experience_level, major, year, bio)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (event_id, user_id) DO UPDATE SET
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			skills_have = EXCLUDED.skills_have,
			skills_need = EXCLUDED.skills_need,
			experience_level = EXCLUDED.experience_level,
			major = EXCLUDED.major,
			year = EXCLUDED.year,
			bio = EXCLUDED.bio,
			updated_at = NOW()
		RETURNING ` + profileColumns

	var level *string
	if params.ExperienceLevel != nil {
		s := string(*params.ExperienceLevel)
		level = &s
	}

	profile, err := scanProfile(r.db.QueryRow(ctx, query,
		params.EventID, params.UserID, params.Name, params.Role,
		nonNil(params.SkillsHave), nonNil(params.SkillsNeed),
		level, params.Major, params.Year, params.Bio,
	))
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return nil, domain.ErrEventNotFound
		}
		return nil, domain.StoreError("profiles.upsert", err)
	}
	return profile, nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var (
		p     domain.Profile
		level *string
	)
	err := row.Scan(
		&p.EventID, &p.UserID, &p.Name, &p.Role, &p.SkillsHave, &p.SkillsNeed,
		&level, &p.Major, &p.Year, &p.Bio, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if level != nil {
		l := domain.ExperienceLevel(*level)
		if !l.Valid() {
			return nil, fmt.Errorf("unknown experience level %q", *level)
		}
		p.ExperienceLevel = &l
	}
	p.SkillsHave = nonNil(p.SkillsHave)
	p.SkillsNeed = nonNil(p.SkillsNeed)
	return &p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
