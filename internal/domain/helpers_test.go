package domain_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/teammatch/backend/internal/domain"
	"github.com/teammatch/backend/internal/repository/memory"
)

type recorder struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
	err    error
}

func (r *recorder) Publish(_ context.Context, ev domain.ChangeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recorder) kinds() []domain.ChangeKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ChangeKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

type fixture struct {
	store       *memory.Store
	notifier    *recorder
	events      *domain.EventService
	profiles    *domain.ProfileService
	matches     *domain.MatchService
	connections *domain.ConnectionService
	event       *domain.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	rec := &recorder{}
	f := &fixture{
		store:       store,
		notifier:    rec,
		events:      domain.NewEventService(store),
		profiles:    domain.NewProfileService(store, store),
		matches:     domain.NewMatchService(store, store, rec, nil),
		connections: domain.NewConnectionService(store, store, rec, nil),
	}

	event, err := f.events.CreateEvent(context.Background(), uuid.New(), domain.CreateEventInput{Name: "HackMIT 2025"})
	require.NoError(t, err)
	f.event = event
	return f
}

func (f *fixture) join(t *testing.T, role string, have, need []string) uuid.UUID {
	t.Helper()
	userID := uuid.New()
	_, err := f.profiles.UpsertProfile(context.Background(), f.event.ID, userID, domain.ProfileInput{
		Name:       role + " " + userID.String()[:4],
		Role:       role,
		SkillsHave: have,
		SkillsNeed: need,
	})
	require.NoError(t, err)
	return userID
}

func targets(ms []*domain.MatchCandidate) []uuid.UUID {
	out := make([]uuid.UUID, len(ms))
	for i, m := range ms {
		out[i] = m.TargetUserID
	}
	return out
}
