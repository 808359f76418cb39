package domain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teammatch/backend/internal/domain"
	"github.com/teammatch/backend/internal/repository/memory"
)

func TestStoreError(t *testing.T) {
	t.Run("keeps both the category and the driver error", func(t *testing.T) {
		driverErr := &pgconn.PgError{Code: "08006", Message: "connection failure"}
		err := domain.StoreError("matches.list", driverErr)

		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
		var pgErr *pgconn.PgError
		require.ErrorAs(t, err, &pgErr)
		assert.Equal(t, "08006", pgErr.Code)
		assert.Contains(t, err.Error(), "matches.list")
	})

	t.Run("wraps plain errors", func(t *testing.T) {
		cause := errors.New("dial tcp: connection refused")
		err := domain.StoreError("events.get", cause)
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, domain.ErrEventNotFound)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, domain.StoreError("events.get", nil))
	})
}

type brokenMatches struct {
	domain.MatchRepository
	err error
}

func (b brokenMatches) ReplaceMatches(context.Context, uuid.UUID, uuid.UUID, []*domain.MatchCandidate) ([]*domain.MatchCandidate, error) {
	return nil, b.err
}

func TestGenerateMatches_StoreUnavailable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.join(t, "Developer", []string{"Go"}, nil)
	f.join(t, "Designer", nil, []string{"Go"})

	cause := errors.New("connection reset by peer")
	svc := domain.NewMatchService(f.store, brokenMatches{MatchRepository: memory.New(), err: domain.StoreError("matches.replace", cause)}, f.notifier, nil)

	_, err := svc.GenerateMatches(ctx, f.event.ID, a)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, f.notifier.kinds())
}
