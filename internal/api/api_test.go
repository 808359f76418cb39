package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teammatch/backend/internal/auth"
	"github.com/teammatch/backend/internal/domain"
	"github.com/teammatch/backend/internal/repository/memory"
	"github.com/teammatch/backend/pkg/response"
)

type testServer struct {
	t      *testing.T
	srv    *httptest.Server
	jwt    *auth.JWTManager
	store  *memory.Store
	hub    *WebSocketManager
	cancel context.CancelFunc
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("down") }

func newTestServer(t *testing.T, deps map[string]Pinger) *testServer {
	t.Helper()
	return newTestServerWithMatches(t, deps, nil)
}

// newTestServerWithMatches serves candidates from matches instead of the
// memory store when it is not nil.
func newTestServerWithMatches(t *testing.T, deps map[string]Pinger, matches domain.MatchRepository) *testServer {
	t.Helper()
	logger := zap.NewNop()
	store := memory.New()
	if matches == nil {
		matches = store
	}
	jwtManager := auth.NewJWTManager("test-secret", time.Hour, "teammatch")

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewWebSocketManager(logger, nil)
	go hub.Run(ctx)

	profileService := domain.NewProfileService(store, store)
	handlers := Handlers{
		Health:      NewHealthHandler("test", deps, logger),
		Events:      NewEventHandler(domain.NewEventService(store), logger),
		Profiles:    NewProfileHandler(profileService, logger),
		Matches:     NewMatchHandler(domain.NewMatchService(store, matches, hub, logger), logger),
		Connections: NewConnectionHandler(domain.NewConnectionService(store, store, hub, logger), logger),
		Devices:     NewDeviceHandler(store, logger),
		WebSocket:   hub,
	}
	srv := httptest.NewServer(NewRouter(handlers, jwtManager, nil, logger).Setup())

	ts := &testServer{t: t, srv: srv, jwt: jwtManager, store: store, hub: hub, cancel: cancel}
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return ts
}

func (ts *testServer) token(userID uuid.UUID) string {
	token, _, err := ts.jwt.GenerateAccessToken(userID)
	require.NoError(ts.t, err)
	return token
}

type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
}

func (ts *testServer) do(method, path string, userID uuid.UUID, body any) (int, envelope) {
	ts.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.srv.URL+path, reader)
	require.NoError(ts.t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		req.Header.Set("Authorization", "Bearer "+ts.token(userID))
	}

	resp, err := ts.srv.Client().Do(req)
	require.NoError(ts.t, err)
	defer resp.Body.Close()

	var env envelope
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(ts.t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp.StatusCode, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

// createEvent creates an event hosted by host and returns it
func (ts *testServer) createEvent(host uuid.UUID) domain.Event {
	status, env := ts.do(http.MethodPost, "/api/v1/events", host, map[string]any{"name": "Spring Hackathon"})
	require.Equal(ts.t, http.StatusCreated, status)
	return decodeData[domain.Event](ts.t, env)
}

func (ts *testServer) putProfile(eventID, userID uuid.UUID, role string, have, need []string) {
	status, env := ts.do(http.MethodPut, "/api/v1/events/"+eventID.String()+"/profile", userID, map[string]any{
		"role":        role,
		"skills_have": have,
		"skills_need": need,
	})
	require.Equal(ts.t, http.StatusOK, status, "%+v", env.Error)
}
