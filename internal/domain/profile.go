package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "Beginner"
	ExperienceIntermediate ExperienceLevel = "Intermediate"
	ExperienceAdvanced     ExperienceLevel = "Advanced"
)

// Valid reports whether l is one of the known levels.
func (l ExperienceLevel) Valid() bool {
	switch l {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
		return true
	}
	return false
}

// Profile is a participant's skills/needs declaration for one event.
type Profile struct {
	UserID          uuid.UUID        `json:"user_id"`
	EventID         uuid.UUID        `json:"event_id"`
	Name            string           `json:"name"`
	Role            string           `json:"role"`
	SkillsHave      []string         `json:"skills_have"`
	SkillsNeed      []string         `json:"skills_need"`
	ExperienceLevel *ExperienceLevel `json:"experience_level,omitempty"`
	Major           *string          `json:"major,omitempty"`
	Year            *string          `json:"year,omitempty"`
	Bio             *string          `json:"bio,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// UpsertProfileParams holds the mutable content of a profile
type UpsertProfileParams struct {
	EventID         uuid.UUID
	UserID          uuid.UUID
	Name            string
	Role            string
	SkillsHave      []string
	SkillsNeed      []string
	ExperienceLevel *ExperienceLevel
	Major           *string
	Year            *string
	Bio             *string
}

type ProfileRepository interface {
	GetProfile(ctx context.Context, eventID, userID uuid.UUID) (*Profile, error)
	ListEventProfiles(ctx context.Context, eventID uuid.UUID) ([]*Profile, error)
	UpsertProfile(ctx context.Context, params UpsertProfileParams) (*Profile, error)
}

// NormalizeSkills trims each skill, drops empties and removes
// case-insensitive duplicates. The first spelling and input order win.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := skillKey(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func skillKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
