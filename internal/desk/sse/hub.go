package sse

import (
	"encoding/json"
	"sync"

	"github.com/bitfantasy/assetdesk/internal/desk/entity"
	"go.uber.org/zap"
)

// EventNotification carries one new in-app notification.
const EventNotification = "notification"

// Event represents a Server-Sent Event. Kind is the notification type for
// notification events and empty otherwise.
type Event struct {
	EventType string `json:"event"`
	Kind      string `json:"kind,omitempty"`
	Data      string `json:"data"`
}

// Client represents a connected SSE client
type Client struct {
	ID     string
	UserID string
	Events chan Event
}

// Hub keeps the open streams, keyed by client id.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger,
	}
}

// Register adds a new client to the hub
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	h.logger.Debug("sse client registered",
		zap.String("client_id", client.ID),
		zap.String("user_id", client.UserID),
		zap.Int("total", len(h.clients)))
}

// Unregister removes a client and closes its channel.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Events)
		delete(h.clients, clientID)
		h.logger.Debug("sse client unregistered",
			zap.String("client_id", clientID),
			zap.Int("total", len(h.clients)))
	}
}

// Count open streams, all users.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SendToUser delivers event to every stream the user has open. Slow
// clients with a full buffer miss the event.
func (h *Hub) SendToUser(userID string, event Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for _, client := range h.clients {
		if client.UserID != userID {
			continue
		}
		select {
		case client.Events <- event:
			delivered++
		default:
			h.logger.Warn("sse client buffer full, skipping event", zap.String("client_id", client.ID))
		}
	}
	return delivered
}

// PublishNotification pushes n to its recipient's open streams.
func (h *Hub) PublishNotification(n *entity.Notification) {
	if n == nil {
		return
	}
	data, err := json.Marshal(n)
	if err != nil {
		h.logger.Warn("sse notification encode failed", zap.String("notification_id", n.ID), zap.Error(err))
		return
	}
	h.SendToUser(n.UserID, Event{EventType: EventNotification, Kind: n.Type, Data: string(data)})
}
