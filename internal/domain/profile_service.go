package domain

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/teammatch/backend/pkg/validator"
)

// ProfileInput is what a participant submits during profile setup
type ProfileInput struct {
	Name            string           `json:"name"`
	Role            string           `json:"role"`
	SkillsHave      []string         `json:"skills_have"`
	SkillsNeed      []string         `json:"skills_need"`
	ExperienceLevel *ExperienceLevel `json:"experience_level,omitempty"`
	Major           *string          `json:"major,omitempty"`
	Year            *string          `json:"year,omitempty"`
	Bio             *string          `json:"bio,omitempty"`
}

// Validate checks the input against field limits
func (in ProfileInput) Validate() error {
	var errs validator.ValidationErrors

	if strings.TrimSpace(in.Role) == "" {
		errs.Add("role", "is required")
	} else if len(strings.TrimSpace(in.Role)) > validator.MaxRoleLength {
		errs.Add("role", "is too long")
	}
	if len(strings.TrimSpace(in.Name)) > validator.MaxNameLength {
		errs.Add("name", "is too long")
	}
	validator.ValidateSkills(&errs, "skills_have", in.SkillsHave)
	validator.ValidateSkills(&errs, "skills_need", in.SkillsNeed)
	if in.ExperienceLevel != nil && !in.ExperienceLevel.Valid() {
		errs.Add("experience_level", "must be Beginner, Intermediate or Advanced")
	}
	validator.ValidateMaxLength(&errs, "major", in.Major, validator.MaxShortField)
	validator.ValidateMaxLength(&errs, "year", in.Year, validator.MaxShortField)
	validator.ValidateMaxLength(&errs, "bio", in.Bio, validator.MaxBioLength)

	return errs.Err()
}

type ProfileService struct {
	profiles ProfileRepository
	events   EventRepository
}

func NewProfileService(profiles ProfileRepository, events EventRepository) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		events:   events,
	}
}

// UpsertProfile creates or replaces userID's profile in the event, joining
// the event first if needed. Role is stored verbatim apart from trimming.
func (s *ProfileService) UpsertProfile(ctx context.Context, eventID, userID uuid.UUID, input ProfileInput) (*Profile, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.events.GetEventByID(ctx, eventID); err != nil {
		return nil, err
	}
	if _, _, err := s.events.JoinEvent(ctx, eventID, userID); err != nil {
		return nil, err
	}

	return s.profiles.UpsertProfile(ctx, UpsertProfileParams{
		EventID:         eventID,
		UserID:          userID,
		Name:            strings.TrimSpace(input.Name),
		Role:            strings.TrimSpace(input.Role),
		SkillsHave:      NormalizeSkills(input.SkillsHave),
		SkillsNeed:      NormalizeSkills(input.SkillsNeed),
		ExperienceLevel: input.ExperienceLevel,
		Major:           validator.SanitizeOptional(input.Major),
		Year:            validator.SanitizeOptional(input.Year),
		Bio:             validator.SanitizeOptional(input.Bio),
	})
}

func (s *ProfileService) GetProfile(ctx context.Context, eventID, userID uuid.UUID) (*Profile, error) {
	return s.profiles.GetProfile(ctx, eventID, userID)
}

// ListParticipants returns every completed profile in the event
func (s *ProfileService) ListParticipants(ctx context.Context, eventID uuid.UUID) ([]*Profile, error) {
	if _, err := s.events.GetEventByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.profiles.ListEventProfiles(ctx, eventID)
}
