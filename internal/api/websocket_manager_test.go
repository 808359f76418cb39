package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teammatch/backend/internal/domain"
)

func dialWS(t *testing.T, ts *testServer, userID uuid.UUID) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.srv.URL, "http") + "/api/v1/ws"
	header := http.Header{"Authorization": []string{"Bearer " + ts.token(userID)}}

	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return ts.hub.ClientCount(userID) > 0 }, 2*time.Second, 10*time.Millisecond)
	return conn
}

type wsFrame struct {
	Type    string             `json:"type"`
	Payload domain.ChangeEvent `json:"payload"`
}

func TestWebSocketDelivery(t *testing.T) {
	ts := newTestServer(t, nil)
	alice, bob := uuid.New(), uuid.New()
	event := ts.createEvent(alice)
	ts.putProfile(event.ID, alice, "Developer", []string{"Go"}, nil)
	ts.putProfile(event.ID, bob, "Designer", []string{"Figma"}, nil)

	bobConn := dialWS(t, ts, bob)

	status, _ := ts.do(http.MethodPost, "/api/v1/events/"+event.ID.String()+"/connections", alice,
		map[string]string{"target_user_id": bob.String()})
	require.Equal(t, http.StatusOK, status)

	require.NoError(t, bobConn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame wsFrame
	require.NoError(t, bobConn.ReadJSON(&frame))

	assert.Equal(t, string(domain.ChangeInterestExpressed), frame.Type)
	assert.Equal(t, event.ID, frame.Payload.EventID)
	assert.Equal(t, alice, frame.Payload.SourceUserID)
	require.NotNil(t, frame.Payload.Connection)
	assert.Equal(t, domain.ConnectionStatusPending, frame.Payload.Connection.Status)
}

func TestWebSocketRequiresAuth(t *testing.T) {
	ts := newTestServer(t, nil)
	url := "ws" + strings.TrimPrefix(ts.srv.URL, "http") + "/api/v1/ws"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWebSocketUnregister(t *testing.T) {
	ts := newTestServer(t, nil)
	user := uuid.New()
	conn := dialWS(t, ts, user)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return ts.hub.ClientCount(user) == 0 }, 2*time.Second, 10*time.Millisecond)
}
