package handler

import (
	"strings"
	"time"

	"github.com/bitfantasy/assetdesk/internal/desk/service"
	"github.com/bitfantasy/assetdesk/internal/desk/sse"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sseHeartbeat = 30 * time.Second

// SSEHandler streams notifications to the signed-in user.
type SSEHandler struct {
	hub           *sse.Hub
	notifications *service.NotificationService
	heartbeat     time.Duration
}

func NewSSEHandler(hub *sse.Hub, notifications *service.NotificationService) *SSEHandler {
	return &SSEHandler{hub: hub, notifications: notifications, heartbeat: sseHeartbeat}
}

// Stream GET /sse/events?token=xxx&types=Component%20Order,Complaint%20Rejected
//
// The first event carries the caller's unread count so a reconnecting
// client can resync its badge. With types set, notifications of other
// types are not sent on this stream.
func (h *SSEHandler) Stream(c *gin.Context) {
	actor := GetActor(c)
	clientID := actor.ID + "_" + uuid.New().String()[:8]
	kinds := parseKinds(c.Query("types"))

	unread, err := h.notifications.UnreadCount(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	client := &sse.Client{
		ID:     clientID,
		UserID: actor.ID,
		Events: make(chan sse.Event, 64),
	}
	h.hub.Register(client)
	defer h.hub.Unregister(clientID)

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	c.SSEvent("connected", gin.H{"client_id": clientID, "unread": unread})
	c.Writer.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case event, ok := <-client.Events:
			if !ok {
				return
			}
			if !wants(kinds, event.Kind) {
				continue
			}
			c.SSEvent(event.EventType, event.Data)
			c.Writer.Flush()
		case <-heartbeat.C:
			c.Writer.WriteString(": keepalive\n\n")
			c.Writer.Flush()
		}
	}
}

func parseKinds(raw string) map[string]bool {
	if raw == "" {
		return nil
	}
	kinds := make(map[string]bool)
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			kinds[k] = true
		}
	}
	return kinds
}

// events without a kind are stream control and always pass
func wants(kinds map[string]bool, kind string) bool {
	return len(kinds) == 0 || kind == "" || kinds[kind]
}
