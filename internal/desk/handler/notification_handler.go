package handler

import (
	"github.com/bitfantasy/assetdesk/internal/desk/service"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// List GET /notifications?unread=true
func (h *NotificationHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	unreadOnly := c.Query("unread") == "true"
	items, total, err := h.svc.List(c.Request.Context(), GetActor(c), page, pageSize, unreadOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	Paged(c, items, page, pageSize, total)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	n, err := h.svc.UnreadCount(c.Request.Context(), GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"unread": n})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	n, err := h.svc.MarkRead(c.Request.Context(), GetActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, n)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	count, err := h.svc.MarkAllRead(c.Request.Context(), GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"updated": count})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetActor(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	Success(c, nil)
}
