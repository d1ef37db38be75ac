package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"friendgraph/metrics"
	"friendgraph/models"
)

// FriendViews is the read side the hub pushes to clients.
type FriendViews interface {
	GetFriendView(ctx context.Context, requesterID, targetID string) (*models.FriendView, error)
	GetAllFriendViews(ctx context.Context, requesterID string) ([]models.FriendView, error)
}

type Hub struct {
	clients   map[string]*Client
	userConns map[string]map[*Client]bool
	register  chan *Client
	done      chan struct{}
	mu        sync.RWMutex

	views        FriendViews
	queryTimeout time.Duration
}

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type ClientMessage struct {
	Action string `json:"action"`
}

// NewHub bounds each friend view lookup it makes by queryTimeout.
func NewHub(views FriendViews, queryTimeout time.Duration) *Hub {
	return &Hub{
		clients:      make(map[string]*Client),
		userConns:    make(map[string]map[*Client]bool),
		register:     make(chan *Client),
		done:         make(chan struct{}),
		views:        views,
		queryTimeout: queryTimeout,
	}
}

// Run serves registrations until ctx is done, then closes every client's
// send channel.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			if h.userConns[client.UserID] == nil {
				h.userConns[client.UserID] = make(map[*Client]bool)
			}
			h.userConns[client.UserID][client] = true
			h.mu.Unlock()
			metrics.WebsocketClients.Inc()

		case <-ctx.Done():
			h.mu.Lock()
			for _, client := range h.clients {
				close(client.Send)
				metrics.WebsocketClients.Dec()
			}
			h.clients = make(map[string]*Client)
			h.userConns = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return
		}
	}
}

// add registers client with the running hub. It reports false once the hub
// has stopped.
func (h *Hub) add(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	if h.userConns[client.UserID] != nil {
		delete(h.userConns[client.UserID], client)
		if len(h.userConns[client.UserID]) == 0 {
			delete(h.userConns, client.UserID)
		}
	}
	close(client.Send)
	metrics.WebsocketClients.Dec()
}

func (h *Hub) SendToUser(userID string, msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.userConns[userID] {
		select {
		case client.Send <- data:
		default:
		}
	}
}

// sendToClient queues data for client unless it has been removed, whose Send
// channel is closed.
func (h *Hub) sendToClient(client *Client, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.clients[client.ID] != client {
		return
	}
	select {
	case client.Send <- data:
	default:
	}
}

func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userConns[userID]) > 0
}

// FriendshipAccepted pushes each side's fresh view of the other to whichever
// of the two users is online.
func (h *Hub) FriendshipAccepted(ctx context.Context, userID, friendID string) {
	for _, pair := range [][2]string{{userID, friendID}, {friendID, userID}} {
		viewer, target := pair[0], pair[1]
		if !h.IsOnline(viewer) {
			continue
		}

		view, err := h.views.GetFriendView(ctx, viewer, target)
		if err != nil {
			slog.Warn("friend view for push failed", "user_id", viewer, "friend_id", target, "error", err)
			continue
		}
		h.SendToUser(viewer, &Message{Event: "friendship_accepted", Data: view})
	}
}
