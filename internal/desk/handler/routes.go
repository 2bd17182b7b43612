package handler

import (
	"github.com/bitfantasy/assetdesk/internal/desk/policy"
	"github.com/bitfantasy/assetdesk/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Register mounts the desk API on an authenticated group. submitGuards run
// in front of vendor bid submission only.
func (h *Handlers) Register(api *gin.RouterGroup, submitGuards ...gin.HandlerFunc) {
	complaints := api.Group("/complaints")
	{
		complaints.PATCH("/:id/forward", h.Complaint.ForwardWithComponents)
		complaints.PATCH("/:id/forward-to-manager", h.Complaint.ForwardToManager)
		complaints.PATCH("/:id/reject", h.Complaint.Reject)
		complaints.POST("/:id/resolve", h.Complaint.Resolve)
		complaints.GET("/:id/component-details", h.Complaint.ComponentDetails)
		complaints.POST("/:id/images", h.Complaint.UploadImage)
		complaints.POST("/:id/create-quote-request", h.Complaint.CreateQuoteRequest)
	}

	api.GET("/ats/complaints", h.Complaint.ListForATS)
	api.GET("/assistant-manager/complaints", h.Complaint.ListForAssistantManager)
	api.GET("/assistant-manager/approval-history", h.Complaint.ApprovalHistory)
	api.GET("/manager/complaints", h.Complaint.ListForManager)

	quotes := api.Group("/quote-requests")
	{
		quotes.POST("", h.Quote.Create)
		quotes.GET("", h.Quote.List)
		quotes.GET("/mine", h.Quote.ListMine)
		quotes.DELETE("/vendors/:selectionId", h.Quote.RemoveVendor)
		quotes.GET("/:id", h.Quote.Get)
		quotes.PUT("/:id", h.Quote.Update)
		quotes.DELETE("/:id", h.Quote.Delete)
		quotes.POST("/:id/vendors", h.Quote.AddVendor)
		quotes.GET("/:id/responses", h.Quote.ListResponses)
		quotes.POST("/:id/responses", append(submitGuards, h.Quote.SubmitResponse)...)
		quotes.GET("/:id/export", h.Quote.Export)
	}
	api.PUT("/quote-responses/:id/review", h.Quote.Review)

	vendor := api.Group("/vendor", middleware.RequireRole(roleNames(policy.QuoteViewVendor)...))
	{
		vendor.GET("/quote-requests", h.Quote.ListForVendor)
		vendor.GET("/quote-responses", h.Quote.ListVendorResponses)
	}

	notifications := api.Group("/notifications")
	{
		notifications.GET("", h.Notification.List)
		notifications.GET("/count", h.Notification.UnreadCount)
		notifications.PUT("/read-all", h.Notification.MarkAllRead)
		notifications.PUT("/:id/read", h.Notification.MarkRead)
		notifications.DELETE("/:id", h.Notification.Delete)
	}

	if h.SSE != nil {
		api.GET("/sse/events", h.SSE.Stream)
	}
}

func roleNames(action policy.Action) []string {
	roles := policy.Roles(action)
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return names
}
