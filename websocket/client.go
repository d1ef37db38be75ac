package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"friendgraph/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Client struct {
	ID     string
	UserID string
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
}

func (c *Client) ReadPump() {
	defer func() {
		c.Hub.remove(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket error", "user_id", c.UserID, "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return
	}

	switch msg.Action {
	case "ping":
		c.send(&Message{Event: "pong"})
	case "refresh_friends":
		c.sendFriends()
	}
}

func (c *Client) send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.Hub.sendToClient(c, data)
}

func (c *Client) sendFriends() {
	ctx, cancel := context.WithTimeout(context.Background(), c.Hub.queryTimeout)
	defer cancel()

	views, err := c.Hub.views.GetAllFriendViews(ctx, c.UserID)
	if err != nil {
		slog.Error("refresh friends failed", "user_id", c.UserID, "error", err)
		c.send(&Message{Event: "error", Data: gin.H{"message": "failed to load friends"}})
		return
	}
	c.send(&Message{Event: "friends", Data: views})
}

// HandleWebSocket upgrades an authenticated request and registers the
// connection with the hub.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.Unauthorized(c, "missing token")
		return
	}

	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Unauthorized(c, "invalid token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade error", "error", err)
		return
	}

	client := &Client{
		ID:     utils.GenerateUUID(),
		UserID: claims.UserID,
		Hub:    h,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	if !h.add(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
