// Package memory is an in-process implementation of the domain
// repositories. Every read returns copies, so callers cannot mutate stored
// state.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teammatch/backend/internal/domain"
)

type pairKey struct {
	eventID uuid.UUID
	lo, hi  uuid.UUID
}

type userKey struct {
	eventID uuid.UUID
	userID  uuid.UUID
}

type storedConnection struct {
	conn *domain.Connection
	seq  uint64
}

type storedProfile struct {
	profile *domain.Profile
	seq     uint64
}

type storedParticipant struct {
	p   *domain.Participant
	seq uint64
}

// Store holds every repository in memory. The zero value is not usable; use New.
type Store struct {
	mu  sync.RWMutex
	seq uint64
	now func() time.Time

	events       map[uuid.UUID]*domain.Event
	eventSeq     map[uuid.UUID]uint64
	codes        map[string]uuid.UUID
	participants map[userKey]storedParticipant
	profiles     map[userKey]storedProfile
	matches      map[userKey][]*domain.MatchCandidate
	connections  map[pairKey]storedConnection
	devices      map[string]device

	locksMu   sync.Mutex
	pairLocks map[pairKey]*pairLock
}

// pairLock is dropped from Store.pairLocks once no caller holds or awaits it.
type pairLock struct {
	mu   sync.Mutex
	refs int
}

type device struct {
	userID    uuid.UUID
	platform  string
	updatedAt time.Time
	seq       uint64
}

func New() *Store {
	return &Store{
		now:          func() time.Time { return time.Now().UTC() },
		events:       make(map[uuid.UUID]*domain.Event),
		eventSeq:     make(map[uuid.UUID]uint64),
		codes:        make(map[string]uuid.UUID),
		participants: make(map[userKey]storedParticipant),
		profiles:     make(map[userKey]storedProfile),
		matches:      make(map[userKey][]*domain.MatchCandidate),
		connections:  make(map[pairKey]storedConnection),
		devices:      make(map[string]device),
		pairLocks:    make(map[pairKey]*pairLock),
	}
}

// Ping always succeeds
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) nextSeq() uint64 {
	s.seq++
	return s.seq
}

// Events

func (s *Store) CreateEvent(_ context.Context, params domain.CreateEventParams) (*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.codes[params.Code]; taken {
		return nil, domain.ErrEventCodeTaken
	}
	e := &domain.Event{
		ID:          uuid.New(),
		Name:        params.Name,
		Code:        params.Code,
		HostID:      params.HostID,
		Description: cloneString(params.Description),
		StartsAt:    cloneTime(params.StartsAt),
		EndsAt:      cloneTime(params.EndsAt),
		CreatedAt:   s.now(),
	}
	s.events[e.ID] = e
	s.eventSeq[e.ID] = s.nextSeq()
	s.codes[e.Code] = e.ID
	return copyEvent(e), nil
}

func (s *Store) GetEventByID(_ context.Context, id uuid.UUID) (*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return copyEvent(e), nil
}

func (s *Store) GetEventByCode(_ context.Context, code string) (*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.codes[code]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return copyEvent(s.events[id]), nil
}

func (s *Store) ListHostedEvents(_ context.Context, hostID uuid.UUID) ([]*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.Event{}
	for id, e := range s.events {
		if e.HostID == hostID {
			out = append(out, s.events[id])
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return s.eventSeq[out[i].ID] > s.eventSeq[out[j].ID]
	})
	for i, e := range out {
		out[i] = copyEvent(e)
	}
	return out, nil
}

func (s *Store) ListUserEvents(_ context.Context, userID uuid.UUID) ([]*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	joined := []storedParticipant{}
	for key, sp := range s.participants {
		if key.userID == userID {
			joined = append(joined, sp)
		}
	}
	sort.Slice(joined, func(i, j int) bool { return joined[i].seq > joined[j].seq })

	out := make([]*domain.Event, 0, len(joined))
	for _, sp := range joined {
		if e, ok := s.events[sp.p.EventID]; ok {
			out = append(out, copyEvent(e))
		}
	}
	return out, nil
}

func (s *Store) JoinEvent(_ context.Context, eventID, userID uuid.UUID) (*domain.Participant, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[eventID]; !ok {
		return nil, false, domain.ErrEventNotFound
	}
	key := userKey{eventID, userID}
	if sp, ok := s.participants[key]; ok {
		p := *sp.p
		return &p, false, nil
	}
	p := &domain.Participant{EventID: eventID, UserID: userID, JoinedAt: s.now()}
	s.participants[key] = storedParticipant{p: p, seq: s.nextSeq()}
	out := *p
	return &out, true, nil
}

// Profiles

func (s *Store) GetProfile(_ context.Context, eventID, userID uuid.UUID) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sp, ok := s.profiles[userKey{eventID, userID}]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return copyProfile(sp.profile), nil
}

func (s *Store) ListEventProfiles(_ context.Context, eventID uuid.UUID) ([]*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := []storedProfile{}
	for key, sp := range s.profiles {
		if key.eventID == eventID {
			stored = append(stored, sp)
		}
	}
	sort.Slice(stored, func(i, j int) bool { return stored[i].seq < stored[j].seq })

	out := make([]*domain.Profile, len(stored))
	for i, sp := range stored {
		out[i] = copyProfile(sp.profile)
	}
	return out, nil
}

func (s *Store) UpsertProfile(_ context.Context, params domain.UpsertProfileParams) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[params.EventID]; !ok {
		return nil, domain.ErrEventNotFound
	}

	now := s.now()
	key := userKey{params.EventID, params.UserID}
	sp, exists := s.profiles[key]
	if !exists {
		sp = storedProfile{
			profile: &domain.Profile{EventID: params.EventID, UserID: params.UserID, CreatedAt: now},
			seq:     s.nextSeq(),
		}
	}

	p := sp.profile
	p.Name = params.Name
	p.Role = params.Role
	p.SkillsHave = cloneStrings(params.SkillsHave)
	p.SkillsNeed = cloneStrings(params.SkillsNeed)
	p.ExperienceLevel = nil
	if params.ExperienceLevel != nil {
		l := *params.ExperienceLevel
		p.ExperienceLevel = &l
	}
	p.Major = cloneString(params.Major)
	p.Year = cloneString(params.Year)
	p.Bio = cloneString(params.Bio)
	p.UpdatedAt = now

	s.profiles[key] = sp
	return copyProfile(p), nil
}

// Matches

// ReplaceMatches keeps the GeneratedAt of rows whose content is unchanged.
func (s *Store) ReplaceMatches(_ context.Context, eventID, sourceUserID uuid.UUID, candidates []*domain.MatchCandidate) ([]*domain.MatchCandidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := userKey{eventID, sourceUserID}
	previous := make(map[uuid.UUID]*domain.MatchCandidate, len(s.matches[key]))
	for _, m := range s.matches[key] {
		previous[m.TargetUserID] = m
	}

	now := s.now()
	next := make([]*domain.MatchCandidate, 0, len(candidates))
	for _, c := range candidates {
		m := copyMatch(c)
		m.EventID = eventID
		m.SourceUserID = sourceUserID
		m.TargetProfile = nil
		m.GeneratedAt = now
		if old, ok := previous[c.TargetUserID]; ok && sameMatch(old, m) {
			m.GeneratedAt = old.GeneratedAt
		}
		next = append(next, m)
	}
	sortMatches(next)

	if len(next) == 0 {
		delete(s.matches, key)
	} else {
		s.matches[key] = next
	}
	return copyMatches(next), nil
}

func (s *Store) ListMatches(_ context.Context, eventID, sourceUserID uuid.UUID) ([]*domain.MatchCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyMatches(s.matches[userKey{eventID, sourceUserID}]), nil
}

func (s *Store) DeleteMatch(_ context.Context, eventID, sourceUserID, targetUserID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := userKey{eventID, sourceUserID}
	kept := s.matches[key][:0:0]
	for _, m := range s.matches[key] {
		if m.TargetUserID != targetUserID {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		delete(s.matches, key)
	} else {
		s.matches[key] = kept
	}
	return nil
}

func (s *Store) PruneEndedEvents(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for key, rows := range s.matches {
		e, ok := s.events[key.eventID]
		if !ok || e.EndsAt == nil || !e.EndsAt.Before(cutoff) {
			continue
		}
		n += int64(len(rows))
		delete(s.matches, key)
	}
	return n, nil
}

// Connections

func newPairKey(eventID, a, b uuid.UUID) pairKey {
	if lessUUID(b, a) {
		a, b = b, a
	}
	return pairKey{eventID: eventID, lo: a, hi: b}
}

func lessUUID(a, b uuid.UUID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func (s *Store) lockPair(key pairKey) func() {
	s.locksMu.Lock()
	l, ok := s.pairLocks[key]
	if !ok {
		l = &pairLock{}
		s.pairLocks[key] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.pairLocks, key)
		}
		s.locksMu.Unlock()
	}
}

// WithPair serializes callers on the same pair. Writes made through the
// PairTx are staged and applied only when fn returns nil.
func (s *Store) WithPair(ctx context.Context, eventID, userA, userB uuid.UUID, fn func(ctx context.Context, tx domain.PairTx) error) error {
	key := newPairKey(eventID, userA, userB)
	unlock := s.lockPair(key)
	defer unlock()

	tx := &pairTx{store: s, key: key, userA: userA, userB: userB}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if tx.staged == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.connections[key]
	if !ok {
		sc.seq = s.nextSeq()
	}
	sc.conn = tx.staged
	s.connections[key] = sc
	return nil
}

func (s *Store) ListConnections(_ context.Context, eventID, userID uuid.UUID, statuses []domain.ConnectionStatus) ([]*domain.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[domain.ConnectionStatus]bool, len(statuses))
	for _, st := range statuses {
		wanted[st] = true
	}

	matched := []storedConnection{}
	for key, sc := range s.connections {
		if key.eventID != eventID || !sc.conn.Involves(userID) || !wanted[sc.conn.Status] {
			continue
		}
		matched = append(matched, sc)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq > matched[j].seq })

	out := make([]*domain.Connection, len(matched))
	for i, sc := range matched {
		out[i] = copyConnection(sc.conn)
	}
	return out, nil
}

type pairTx struct {
	store  *Store
	key    pairKey
	userA  uuid.UUID
	userB  uuid.UUID
	staged *domain.Connection
}

func (tx *pairTx) current() *domain.Connection {
	if tx.staged != nil {
		return tx.staged
	}
	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()
	if sc, ok := tx.store.connections[tx.key]; ok {
		return sc.conn
	}
	return nil
}

func (tx *pairTx) FindPair(context.Context) (*domain.Connection, error) {
	c := tx.current()
	if c == nil {
		return nil, nil
	}
	return copyConnection(c), nil
}

func (tx *pairTx) CreateConnection(_ context.Context, userAID, userBID uuid.UUID) (*domain.Connection, error) {
	if newPairKey(tx.key.eventID, userAID, userBID) != tx.key {
		return nil, domain.ErrInvalidOperation
	}
	if tx.current() != nil {
		return nil, domain.ErrInvalidOperation
	}

	tx.store.mu.RLock()
	_, eventExists := tx.store.events[tx.key.eventID]
	now := tx.store.now()
	tx.store.mu.RUnlock()
	if !eventExists {
		return nil, domain.ErrEventNotFound
	}

	tx.staged = &domain.Connection{
		ID:        uuid.New(),
		EventID:   tx.key.eventID,
		UserAID:   userAID,
		UserBID:   userBID,
		Status:    domain.ConnectionStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return copyConnection(tx.staged), nil
}

func (tx *pairTx) UpdateConnectionStatus(_ context.Context, connectionID uuid.UUID, status domain.ConnectionStatus) (*domain.Connection, error) {
	c := tx.current()
	if c == nil || c.ID != connectionID {
		return nil, domain.ErrConnectionNotFound
	}
	updated := copyConnection(c)
	updated.Status = status
	updated.UpdatedAt = tx.store.now()
	tx.staged = updated
	return copyConnection(updated), nil
}

// Devices

func (s *Store) RegisterDevice(_ context.Context, userID uuid.UUID, token, platform string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.devices[token] = device{userID: userID, platform: platform, updatedAt: s.now(), seq: s.nextSeq()}
	return nil
}

func (s *Store) ListDeviceTokens(_ context.Context, userID uuid.UUID) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type entry struct {
		token string
		seq   uint64
	}
	var entries []entry
	for token, d := range s.devices {
		if d.userID == userID {
			entries = append(entries, entry{token, d.seq})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq > entries[j].seq })

	tokens := make([]string, len(entries))
	for i, e := range entries {
		tokens[i] = e.token
	}
	return tokens, nil
}

func (s *Store) RemoveDeviceToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.devices, token)
	return nil
}
