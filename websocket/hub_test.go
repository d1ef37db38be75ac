package websocket

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"friendgraph/config"
	"friendgraph/models"
	"friendgraph/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeViews struct {
	views map[[2]string]models.FriendView
}

func (f *fakeViews) GetFriendView(_ context.Context, requesterID, targetID string) (*models.FriendView, error) {
	v, ok := f.views[[2]string{requesterID, targetID}]
	if !ok {
		return nil, errors.New("not found")
	}
	return &v, nil
}

func (f *fakeViews) GetAllFriendViews(_ context.Context, requesterID string) ([]models.FriendView, error) {
	out := []models.FriendView{}
	for key, v := range f.views {
		if key[0] == requesterID {
			out = append(out, v)
		}
	}
	return out, nil
}

func startHub(t *testing.T, views FriendViews) (*Hub, *httptest.Server) {
	t.Helper()
	config.Cfg = &config.Config{JWTSecret: "ws-secret"}

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(views, 5*time.Second)
	go hub.Run(ctx)

	router := gin.New()
	router.GET("/ws", hub.HandleWebSocket)
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return hub, server
}

func dial(t *testing.T, server *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	token, err := utils.GenerateToken(userID)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHandleWebSocket_RejectsMissingToken(t *testing.T) {
	_, server := startHub(t, &fakeViews{})

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestClient_PingAndRefreshFriends(t *testing.T) {
	alice, bob := utils.GenerateUUID(), utils.GenerateUUID()
	views := &fakeViews{views: map[[2]string]models.FriendView{
		{alice, bob}: {ID: bob, FullName: "Bob", PhoneNumber: "1", TotalFriendCount: 1},
	}}
	hub, server := startHub(t, views)
	conn := dial(t, server, alice)
	require.Eventually(t, func() bool { return hub.IsOnline(alice) }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(map[string]string{"action": "ping"}))
	assert.Equal(t, "pong", readMessage(t, conn)["event"])

	require.NoError(t, conn.WriteJSON(map[string]string{"action": "refresh_friends"}))
	msg := readMessage(t, conn)
	assert.Equal(t, "friends", msg["event"])

	data, ok := msg["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)
	assert.Equal(t, bob, data[0].(map[string]any)["id"])
}

func TestHub_FriendshipAcceptedPushesToBothSides(t *testing.T) {
	alice, bob := utils.GenerateUUID(), utils.GenerateUUID()
	views := &fakeViews{views: map[[2]string]models.FriendView{
		{alice, bob}: {ID: bob, FullName: "Bob", PhoneNumber: "1", TotalFriendCount: 1},
		{bob, alice}: {ID: alice, FullName: "Alice", PhoneNumber: "2", TotalFriendCount: 1},
	}}
	hub, server := startHub(t, views)
	aliceConn := dial(t, server, alice)
	bobConn := dial(t, server, bob)
	require.Eventually(t, func() bool { return hub.IsOnline(alice) && hub.IsOnline(bob) }, 2*time.Second, 10*time.Millisecond)

	hub.FriendshipAccepted(context.Background(), alice, bob)

	msg := readMessage(t, aliceConn)
	assert.Equal(t, "friendship_accepted", msg["event"])
	assert.Equal(t, bob, msg["data"].(map[string]any)["id"])

	msg = readMessage(t, bobConn)
	assert.Equal(t, "friendship_accepted", msg["event"])
	assert.Equal(t, alice, msg["data"].(map[string]any)["id"])
}

func TestHub_OfflineUsersAreSkipped(t *testing.T) {
	hub := NewHub(&fakeViews{}, 5*time.Second)

	assert.False(t, hub.IsOnline("nobody"))
	hub.FriendshipAccepted(context.Background(), "nobody", "else")
}

func TestHub_StopsAcceptingAfterShutdown(t *testing.T) {
	hub := NewHub(&fakeViews{}, 5*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	client := &Client{ID: "c1", UserID: "u1", Hub: hub, Send: make(chan []byte, 1)}
	assert.False(t, hub.add(client))
}
