package memory

import (
	"slices"
	"sort"
	"time"

	"github.com/teammatch/backend/internal/domain"
)

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}

func copyEvent(e *domain.Event) *domain.Event {
	out := *e
	out.Description = cloneString(e.Description)
	out.StartsAt = cloneTime(e.StartsAt)
	out.EndsAt = cloneTime(e.EndsAt)
	return &out
}

func copyProfile(p *domain.Profile) *domain.Profile {
	out := *p
	out.SkillsHave = cloneStrings(p.SkillsHave)
	out.SkillsNeed = cloneStrings(p.SkillsNeed)
	if p.ExperienceLevel != nil {
		l := *p.ExperienceLevel
		out.ExperienceLevel = &l
	}
	out.Major = cloneString(p.Major)
	out.Year = cloneString(p.Year)
	out.Bio = cloneString(p.Bio)
	return &out
}

func copyMatch(m *domain.MatchCandidate) *domain.MatchCandidate {
	out := *m
	out.Reasons = cloneStrings(m.Reasons)
	out.TargetProfile = nil
	return &out
}

func copyMatches(ms []*domain.MatchCandidate) []*domain.MatchCandidate {
	out := make([]*domain.MatchCandidate, len(ms))
	for i, m := range ms {
		out[i] = copyMatch(m)
	}
	return out
}

func copyConnection(c *domain.Connection) *domain.Connection {
	out := *c
	out.OtherUserID = nil
	out.OtherProfile = nil
	return &out
}

func sameMatch(a, b *domain.MatchCandidate) bool {
	return a.Score == b.Score &&
		a.Rank == b.Rank &&
		a.Bucket == b.Bucket &&
		slices.Equal(a.Reasons, b.Reasons)
}

func sortMatches(ms []*domain.MatchCandidate) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].Score != ms[j].Score {
			return ms[i].Score > ms[j].Score
		}
		return ms[i].Rank < ms[j].Rank
	})
}
