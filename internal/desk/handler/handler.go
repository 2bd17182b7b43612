package handler

import (
	"errors"
	"strconv"

	"github.com/bitfantasy/assetdesk/internal/desk/entity"
	"github.com/bitfantasy/assetdesk/internal/desk/service"
	"github.com/bitfantasy/assetdesk/internal/desk/sse"
	"github.com/gin-gonic/gin"
)

// Handlers desk handler set
type Handlers struct {
	Complaint    *ComplaintHandler
	Quote        *QuoteHandler
	Notification *NotificationHandler
	SSE          *SSEHandler
}

// NewHandlers hub may be nil; the event stream is then not registered.
func NewHandlers(svc *service.Services, hub *sse.Hub) *Handlers {
	h := &Handlers{
		Complaint:    NewComplaintHandler(svc.Complaint, svc.Quote),
		Quote:        NewQuoteHandler(svc.Quote),
		Notification: NewNotificationHandler(svc.Notification),
	}
	if hub != nil {
		h.SSE = NewSSEHandler(hub, svc.Notification)
	}
	return h
}

// Response envelope for every JSON reply
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Paged list reply
func Paged(c *gin.Context, items interface{}, page, pageSize int, total int64) {
	pages := 0
	if pageSize > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	Success(c, ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: pages,
		},
	})
}

// Error status is code/100.
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// respondError maps service errors onto the envelope. Storage details stay
// out of the reply.
func respondError(c *gin.Context, err error) {
	var (
		authz    *service.AuthorizationError
		notFound *service.NotFoundError
		invalid  *service.ValidationError
		conflict *service.StateConflictError
	)
	switch {
	case errors.As(err, &authz):
		Forbidden(c, err.Error())
	case errors.As(err, &notFound):
		NotFound(c, err.Error())
	case errors.As(err, &invalid):
		BadRequest(c, err.Error())
	case errors.As(err, &conflict):
		Conflict(c, err.Error())
	default:
		_ = c.Error(err)
		InternalError(c, "internal error")
	}
}

func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetActor builds the caller identity the JWT middleware left on the context.
func GetActor(c *gin.Context) service.Actor {
	return service.Actor{
		ID:    GetUserID(c),
		Email: c.GetString("user_email"),
		Role:  entity.Role(c.GetString("role")),
	}
}

func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}
