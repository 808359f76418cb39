package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teammatch/backend/internal/domain"
)

func profile(role string, have, need []string) *domain.Profile {
	return &domain.Profile{Role: role, SkillsHave: have, SkillsNeed: need}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		source    *domain.Profile
		candidate *domain.Profile
		score     int
		bucket    domain.Bucket
		reasons   []string
	}{
		{
			name:      "mutual complement",
			source:    profile("", []string{"React", "TypeScript"}, []string{"Figma"}),
			candidate: profile("", []string{"Figma", "Branding"}, []string{"React"}),
			score:     6,
			bucket:    domain.BucketStrongComplement,
			reasons:   []string{"They need: React", "You need: Figma"},
		},
		{
			name:      "shared skill only",
			source:    profile("Developer", []string{"Python"}, nil),
			candidate: profile("Developer", []string{"Python"}, nil),
			score:     1,
			bucket:    domain.BucketExplore,
			reasons:   []string{"Both have: Python"},
		},
		{
			name:      "empty skills fall back",
			source:    profile("Developer", nil, nil),
			candidate: profile("Developer", []string{}, []string{}),
			score:     0,
			bucket:    domain.BucketExplore,
			reasons:   []string{domain.ReasonFallback},
		},
		{
			name:      "complementary roles alone",
			source:    profile("Designer", nil, nil),
			candidate: profile("Product Manager", nil, nil),
			score:     2,
			bucket:    domain.BucketExplore,
			reasons:   []string{domain.ReasonComplementaryRoles},
		},
		{
			name:      "one complement is good potential",
			source:    profile("Developer", []string{"Go"}, nil),
			candidate: profile("Developer", nil, []string{"go"}),
			score:     3,
			bucket:    domain.BucketGoodPotential,
			reasons:   []string{"They need: Go"},
		},
		{
			name:      "role reason dropped past three reasons",
			source:    profile("Developer", []string{"React", "Go"}, []string{"Figma"}),
			candidate: profile("Designer", []string{"Figma", "Go"}, []string{"React"}),
			score:     3 + 3 + 1 + 2,
			bucket:    domain.BucketStrongComplement,
			reasons:   []string{"They need: React", "You need: Figma", "Both have: Go"},
		},
		{
			name:      "reasons cite at most two skills",
			source:    profile("", []string{"A", "B", "C"}, nil),
			candidate: profile("", nil, []string{"c", "b", "a"}),
			score:     9,
			bucket:    domain.BucketStrongComplement,
			reasons:   []string{"They need: A, B"},
		},
		{
			name:      "roles compared verbatim",
			source:    profile("developer", nil, nil),
			candidate: profile("Designer", nil, nil),
			score:     0,
			bucket:    domain.BucketExplore,
			reasons:   []string{domain.ReasonFallback},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.Score(tt.source, tt.candidate)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.bucket, got.Bucket)
			assert.Equal(t, tt.reasons, got.Reasons)
		})
	}
}

func TestScore_IsDirectional(t *testing.T) {
	a := profile("", []string{"React"}, []string{"Figma", "Go"})
	b := profile("", []string{"Figma"}, nil)

	ab := domain.Score(a, b)
	ba := domain.Score(b, a)

	assert.Equal(t, 3, ab.Score)
	assert.Equal(t, []string{"You need: Figma"}, ab.Reasons)
	assert.Equal(t, 3, ba.Score)
	assert.Equal(t, []string{"They need: Figma"}, ba.Reasons)
}

func TestScore_CaseInsensitiveKeepsSourceSpelling(t *testing.T) {
	got := domain.Score(
		profile("", []string{"UI/UX Design"}, nil),
		profile("", []string{"ui/ux design"}, nil),
	)
	assert.Equal(t, 1, got.Score)
	assert.Equal(t, []string{"Both have: UI/UX Design"}, got.Reasons)
}

func TestBucketForScore(t *testing.T) {
	assert.Equal(t, domain.BucketExplore, domain.BucketForScore(0))
	assert.Equal(t, domain.BucketExplore, domain.BucketForScore(2))
	assert.Equal(t, domain.BucketGoodPotential, domain.BucketForScore(3))
	assert.Equal(t, domain.BucketGoodPotential, domain.BucketForScore(5))
	assert.Equal(t, domain.BucketStrongComplement, domain.BucketForScore(6))
}

func TestNormalizeSkills(t *testing.T) {
	got := domain.NormalizeSkills([]string{" React ", "", "react", "Go", "  "})
	assert.Equal(t, []string{"React", "Go"}, got)
	assert.Equal(t, []string{}, domain.NormalizeSkills(nil))
}
