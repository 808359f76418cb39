// Package seed fills an event with demo participants for local testing.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/teammatch/backend/internal/domain"
)

type Participant struct {
	Name       string
	Role       string
	Major      string
	Year       string
	SkillsHave []string
	SkillsNeed []string
	Bio        string
}

var Participants = []Participant{
	{
		Name:       "Sarah Chen",
		Role:       "Developer",
		Major:      "Computer Science",
		Year:       "Junior",
		SkillsHave: []string{"React", "Python", "Node.js", "TypeScript"},
		SkillsNeed: []string{"UI/UX Design", "Figma"},
		Bio:        "Full-stack developer passionate about building accessible web apps",
	},
	{
		Name:       "Marcus Johnson",
		Role:       "Designer",
		Major:      "Interaction Design",
		Year:       "Senior",
		SkillsHave: []string{"Figma", "UI/UX Design", "Prototyping", "User Research"},
		SkillsNeed: []string{"React", "JavaScript"},
		Bio:        "Designer who loves creating beautiful, user-centered experiences",
	},
	{
		Name:       "Priya Patel",
		Role:       "Product Manager",
		Major:      "Business Analytics",
		Year:       "Sophomore",
		SkillsHave: []string{"Product Strategy", "User Research", "Jira", "Agile"},
		SkillsNeed: []string{"Python", "Data Analysis"},
		Bio:        "PM with a focus on user empathy and data-driven decisions",
	},
	{
		Name:       "Alex Rivera",
		Role:       "Developer",
		Major:      "Software Engineering",
		Year:       "Senior",
		SkillsHave: []string{"Python", "Machine Learning", "TensorFlow", "Data Science"},
		SkillsNeed: []string{"UI/UX Design", "Product Strategy"},
		Bio:        "ML engineer interested in applying AI to real-world problems",
	},
	{
		Name:       "Jordan Kim",
		Role:       "Designer",
		Major:      "Visual Design",
		Year:       "Junior",
		SkillsHave: []string{"Graphic Design", "Figma", "Illustration", "Branding"},
		SkillsNeed: []string{"React", "Animation"},
		Bio:        "Visual designer with a passion for motion graphics and branding",
	},
	{
		Name:       "Taylor Martinez",
		Role:       "Developer",
		Major:      "Computer Science",
		Year:       "Freshman",
		SkillsHave: []string{"JavaScript", "HTML/CSS", "Git"},
		SkillsNeed: []string{"React", "Backend Development"},
		Bio:        "Eager to learn and build my first hackathon project!",
	},
}

// Services is the subset of the domain the seeder drives
type Services struct {
	Events   *domain.EventService
	Profiles *domain.ProfileService
	Matches  *domain.MatchService
}

type SeededUser struct {
	UserID  uuid.UUID
	Name    string
	Matches int
}

type Result struct {
	Event *domain.Event
	Users []SeededUser
}

// Run creates a demo event hosted by hostID, adds every seed participant
// under a fresh user id and generates matches for each of them.
func Run(ctx context.Context, svc Services, hostID uuid.UUID, name string) (*Result, error) {
	description := "Build the future of education with AI"
	starts := time.Now().UTC().Truncate(time.Hour)
	ends := starts.Add(48 * time.Hour)

	event, err := svc.Events.CreateEvent(ctx, hostID, domain.CreateEventInput{
		Name:        name,
		Description: &description,
		StartsAt:    &starts,
		EndsAt:      &ends,
	})
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	result := &Result{Event: event}
	for _, p := range Participants {
		userID := uuid.New()
		if _, err := svc.Profiles.UpsertProfile(ctx, event.ID, userID, p.input()); err != nil {
			return nil, fmt.Errorf("profile for %s: %w", p.Name, err)
		}
		result.Users = append(result.Users, SeededUser{UserID: userID, Name: p.Name})
	}

	// Generate after everyone exists so each list covers the full event.
	for i, u := range result.Users {
		matches, err := svc.Matches.GenerateMatches(ctx, event.ID, u.UserID)
		if err != nil {
			return nil, fmt.Errorf("matches for %s: %w", u.Name, err)
		}
		result.Users[i].Matches = len(matches)
	}
	return result, nil
}

func (p Participant) input() domain.ProfileInput {
	major, year, bio := p.Major, p.Year, p.Bio
	return domain.ProfileInput{
		Name:       p.Name,
		Role:       p.Role,
		SkillsHave: p.SkillsHave,
		SkillsNeed: p.SkillsNeed,
		Major:      &major,
		Year:       &year,
		Bio:        &bio,
	}
}
