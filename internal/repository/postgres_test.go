package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teammatch/backend/internal/domain"
)

func TestPairLockKey_IgnoresOrder(t *testing.T) {
	event, a, b := uuid.New(), uuid.New(), uuid.New()
	assert.Equal(t, pairLockKey(event, a, b), pairLockKey(event, b, a))
	assert.NotEqual(t, pairLockKey(event, a, b), pairLockKey(uuid.New(), a, b))

	lo, hi := orderPair(a, b)
	lo2, hi2 := orderPair(b, a)
	assert.Equal(t, lo, lo2)
	assert.Equal(t, hi, hi2)
}

// newTestRepository connects to TEST_DATABASE_URL and applies the schema.
func newTestRepository(t *testing.T) *PostgresRepository {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := Connect(ctx, url, 10, 1)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := NewPostgresRepository(pool)
	require.NoError(t, repo.Migrate(ctx))
	return repo
}

func createTestEvent(t *testing.T, repo *PostgresRepository, endsAt *time.Time) *domain.Event {
	t.Helper()
	code, err := domain.GenerateEventCode()
	require.NoError(t, err)

	e, err := repo.CreateEvent(context.Background(), domain.CreateEventParams{
		Name:   "Integration",
		Code:   code,
		HostID: uuid.New(),
		EndsAt: endsAt,
	})
	require.NoError(t, err)
	return e
}

func TestPostgres_EventCodesAreUnique(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	e := createTestEvent(t, repo, nil)

	_, err := repo.CreateEvent(ctx, domain.CreateEventParams{Name: "Dup", Code: e.Code, HostID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrEventCodeTaken)

	got, err := repo.GetEventByCode(ctx, e.Code)
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)

	user := uuid.New()
	_, created, err := repo.JoinEvent(ctx, e.ID, user)
	require.NoError(t, err)
	assert.True(t, created)
	_, created, err = repo.JoinEvent(ctx, e.ID, user)
	require.NoError(t, err)
	assert.False(t, created)

	_, _, err = repo.JoinEvent(ctx, uuid.New(), user)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestPostgres_ReplaceMatches(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	e := createTestEvent(t, repo, nil)
	source, x, y := uuid.New(), uuid.New(), uuid.New()

	set := []*domain.MatchCandidate{
		{TargetUserID: y, Score: 6, Rank: 1, Reasons: []string{"You need: Figma"}, Bucket: domain.BucketStrongComplement},
		{TargetUserID: x, Score: 3, Rank: 2, Reasons: []string{"They need: Go"}, Bucket: domain.BucketGoodPotential},
	}
	first, err := repo.ReplaceMatches(ctx, e.ID, source, set)
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := repo.ReplaceMatches(ctx, e.ID, source, set)
	require.NoError(t, err)
	require.Len(t, second, 2)
	for i := range first {
		assert.Equal(t, first[i].TargetUserID, second[i].TargetUserID)
		assert.True(t, first[i].GeneratedAt.Equal(second[i].GeneratedAt))
	}

	third, err := repo.ReplaceMatches(ctx, e.ID, source, set[1:])
	require.NoError(t, err)
	require.Len(t, third, 1)
	assert.Equal(t, x, third[0].TargetUserID)

	require.NoError(t, repo.DeleteMatch(ctx, e.ID, source, x))
	require.NoError(t, repo.DeleteMatch(ctx, e.ID, source, x))
	left, err := repo.ListMatches(ctx, e.ID, source)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestPostgres_ConcurrentInterestKeepsOneRow(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	e := createTestEvent(t, repo, nil)

	svc := domain.NewConnectionService(repo, repo, nil, nil)
	a, b := uuid.New(), uuid.New()
	for _, u := range []uuid.UUID{a, b} {
		_, err := repo.UpsertProfile(ctx, domain.UpsertProfileParams{EventID: e.ID, UserID: u, Role: "Developer"})
		require.NoError(t, err)
	}

	var (
		wg   sync.WaitGroup
		errs [2]error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = svc.ExpressInterest(ctx, e.ID, a, b)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = svc.ExpressInterest(ctx, e.ID, b, a)
	}()
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	all := []domain.ConnectionStatus{domain.ConnectionStatusPending, domain.ConnectionStatusAccepted, domain.ConnectionStatusDeclined}
	conns, err := repo.ListConnections(ctx, e.ID, a, all)
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, domain.ConnectionStatusAccepted, conns[0].Status)
}

func TestPostgres_PruneEndedEvents(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	past := time.Now().Add(-72 * time.Hour)
	e := createTestEvent(t, repo, &past)
	source := uuid.New()

	_, err := repo.ReplaceMatches(ctx, e.ID, source, []*domain.MatchCandidate{
		{TargetUserID: uuid.New(), Rank: 1, Reasons: []string{"Similar interests"}, Bucket: domain.BucketExplore},
	})
	require.NoError(t, err)

	n, err := repo.PruneEndedEvents(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))

	left, err := repo.ListMatches(ctx, e.ID, source)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestPostgres_DeviceTokens(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	user := uuid.New()
	token := "token-" + uuid.NewString()

	require.NoError(t, repo.RegisterDevice(ctx, user, token, "ios"))
	tokens, err := repo.ListDeviceTokens(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, []string{token}, tokens)

	require.NoError(t, repo.RemoveDeviceToken(ctx, token))
	tokens, err = repo.ListDeviceTokens(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, tokens)
}
