package domain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teammatch/backend/internal/domain"
)

func TestGenerateMatches(t *testing.T) {
	ctx := context.Background()

	t.Run("ranks every other participant by score", func(t *testing.T) {
		f := newFixture(t)
		dev := f.join(t, "Developer", []string{"React"}, []string{"Figma"})
		designer := f.join(t, "Designer", []string{"Figma"}, []string{"React"})
		pm := f.join(t, "Product Manager", []string{"Roadmaps"}, nil)
		other := f.join(t, "Developer", []string{"Rust"}, nil)

		got, err := f.matches.GenerateMatches(ctx, f.event.ID, dev)
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, []uuid.UUID{designer, pm, other}, targets(got))
		assert.Equal(t, 8, got[0].Score)
		assert.Equal(t, domain.BucketStrongComplement, got[0].Bucket)
		assert.Equal(t, []string{"They need: React", "You need: Figma", "Complementary roles"}, got[0].Reasons)
		for i, m := range got {
			assert.Equal(t, i+1, m.Rank)
			assert.Equal(t, dev, m.SourceUserID)
			assert.Equal(t, f.event.ID, m.EventID)
			assert.NotEqual(t, dev, m.TargetUserID)
		}

		assert.Equal(t, []domain.ChangeKind{domain.ChangeMatchesGenerated}, f.notifier.kinds())
		assert.Equal(t, 3, f.notifier.events[0].MatchCount)
	})

	t.Run("regenerating is idempotent", func(t *testing.T) {
		f := newFixture(t)
		a := f.join(t, "Developer", []string{"Go"}, []string{"Figma"})
		f.join(t, "Designer", []string{"Figma"}, []string{"Go"})
		f.join(t, "Developer", []string{"Go"}, nil)

		first, err := f.matches.GenerateMatches(ctx, f.event.ID, a)
		require.NoError(t, err)
		second, err := f.matches.GenerateMatches(ctx, f.event.ID, a)
		require.NoError(t, err)

		require.Len(t, second, len(first))
		for i := range first {
			assert.Equal(t, first[i].TargetUserID, second[i].TargetUserID)
			assert.Equal(t, first[i].Score, second[i].Score)
			assert.Equal(t, first[i].Rank, second[i].Rank)
			assert.Equal(t, first[i].GeneratedAt, second[i].GeneratedAt)
		}

		stored, err := f.matches.ListMatches(ctx, f.event.ID, a)
		require.NoError(t, err)
		assert.Len(t, stored, 2)
	})

	t.Run("overwrites rows after a profile change", func(t *testing.T) {
		f := newFixture(t)
		a := f.join(t, "Developer", []string{"Go"}, nil)
		b := f.join(t, "Developer", nil, nil)

		got, err := f.matches.GenerateMatches(ctx, f.event.ID, a)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 0, got[0].Score)

		_, err = f.profiles.UpsertProfile(ctx, f.event.ID, b, domain.ProfileInput{Role: "Developer", SkillsNeed: []string{"Go"}})
		require.NoError(t, err)

		got, err = f.matches.GenerateMatches(ctx, f.event.ID, a)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 3, got[0].Score)
		assert.Equal(t, []string{"They need: Go"}, got[0].Reasons)
	})

	t.Run("directions are independent", func(t *testing.T) {
		f := newFixture(t)
		a := f.join(t, "Developer", []string{"Go"}, nil)
		b := f.join(t, "Designer", nil, []string{"Go"})

		_, err := f.matches.GenerateMatches(ctx, f.event.ID, a)
		require.NoError(t, err)

		fromB, err := f.matches.ListMatches(ctx, f.event.ID, b)
		require.NoError(t, err)
		assert.Empty(t, fromB)

		gotB, err := f.matches.GenerateMatches(ctx, f.event.ID, b)
		require.NoError(t, err)
		require.Len(t, gotB, 1)
		assert.Equal(t, a, gotB[0].TargetUserID)
		assert.Equal(t, []string{"You need: Go", "Complementary roles"}, gotB[0].Reasons)
	})

	t.Run("sole participant gets an empty set", func(t *testing.T) {
		f := newFixture(t)
		a := f.join(t, "Developer", []string{"Go"}, nil)

		got, err := f.matches.GenerateMatches(ctx, f.event.ID, a)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("source without profile", func(t *testing.T) {
		f := newFixture(t)
		f.join(t, "Developer", nil, nil)

		_, err := f.matches.GenerateMatches(ctx, f.event.ID, uuid.New())
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})

	t.Run("notifier failure does not fail generation", func(t *testing.T) {
		f := newFixture(t)
		f.notifier.err = errors.New("hub down")
		a := f.join(t, "Developer", nil, nil)
		f.join(t, "Designer", nil, nil)

		got, err := f.matches.GenerateMatches(ctx, f.event.ID, a)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestListMatches_AttachesTargetProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.join(t, "Developer", []string{"Go"}, nil)
	b := f.join(t, "Designer", nil, []string{"Go"})

	_, err := f.matches.GenerateMatches(ctx, f.event.ID, a)
	require.NoError(t, err)

	got, err := f.matches.ListMatches(ctx, f.event.ID, a)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].TargetProfile)
	assert.Equal(t, b, got[0].TargetProfile.UserID)
	assert.Equal(t, "Designer", got[0].TargetProfile.Role)
}

func TestPassOnCandidate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.join(t, "Developer", []string{"Go"}, []string{"Figma"})
	b := f.join(t, "Designer", []string{"Figma"}, []string{"Go"})
	c := f.join(t, "Product Manager", nil, nil)

	_, err := f.matches.GenerateMatches(ctx, f.event.ID, a)
	require.NoError(t, err)
	_, err = f.matches.GenerateMatches(ctx, f.event.ID, b)
	require.NoError(t, err)

	require.NoError(t, f.matches.PassOnCandidate(ctx, f.event.ID, a, b))

	fromA, err := f.matches.ListMatches(ctx, f.event.ID, a)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{c}, targets(fromA))

	fromB, err := f.matches.ListMatches(ctx, f.event.ID, b)
	require.NoError(t, err)
	assert.Contains(t, targets(fromB), a)

	t.Run("passing twice is not an error", func(t *testing.T) {
		assert.NoError(t, f.matches.PassOnCandidate(ctx, f.event.ID, a, b))
	})

	t.Run("cannot pass on yourself", func(t *testing.T) {
		err := f.matches.PassOnCandidate(ctx, f.event.ID, a, a)
		assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	})

	t.Run("regeneration brings the candidate back", func(t *testing.T) {
		got, err := f.matches.GenerateMatches(ctx, f.event.ID, a)
		require.NoError(t, err)
		assert.Contains(t, targets(got), b)
	})
}
