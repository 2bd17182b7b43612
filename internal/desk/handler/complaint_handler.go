package handler

import (
	"io"
	"net/http"

	"github.com/bitfantasy/assetdesk/internal/desk/service"
	"github.com/gin-gonic/gin"
)

// maxImageBytes upload cap per complaint image
const maxImageBytes = 10 << 20

type ComplaintHandler struct {
	svc    *service.ComplaintService
	quotes *service.QuoteService
}

func NewComplaintHandler(svc *service.ComplaintService, quotes *service.QuoteService) *ComplaintHandler {
	return &ComplaintHandler{svc: svc, quotes: quotes}
}

// ForwardWithComponents PATCH /complaints/:id/forward
func (h *ComplaintHandler) ForwardWithComponents(c *gin.Context) {
	var req service.ForwardComponentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	complaint, err := h.svc.ForwardWithComponents(c.Request.Context(), GetActor(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, complaint)
}

// ForwardToManager PATCH /complaints/:id/forward-to-manager
func (h *ComplaintHandler) ForwardToManager(c *gin.Context) {
	var req service.ForwardToManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	complaint, err := h.svc.ForwardToManager(c.Request.Context(), GetActor(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, complaint)
}

// Reject PATCH /complaints/:id/reject
func (h *ComplaintHandler) Reject(c *gin.Context) {
	var req service.RejectComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	complaint, err := h.svc.Reject(c.Request.Context(), GetActor(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, complaint)
}

// Resolve POST /complaints/:id/resolve. An empty body is allowed.
func (h *ComplaintHandler) Resolve(c *gin.Context) {
	var req service.ResolveComplaintRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, "invalid request: "+err.Error())
			return
		}
	}
	complaint, err := h.svc.Resolve(c.Request.Context(), GetActor(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, complaint)
}

func (h *ComplaintHandler) ComponentDetails(c *gin.Context) {
	details, err := h.svc.GetComponentDetails(c.Request.Context(), GetActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, details)
}

// UploadImage POST /complaints/:id/images (multipart, field "file")
func (h *ComplaintHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > maxImageBytes {
		BadRequest(c, "file too large")
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		BadRequest(c, "cannot read upload: "+err.Error())
		return
	}
	defer src.Close()

	body, err := io.ReadAll(io.LimitReader(src, maxImageBytes+1))
	if err != nil {
		BadRequest(c, "cannot read upload: "+err.Error())
		return
	}
	if len(body) > maxImageBytes {
		BadRequest(c, "file too large")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(body)
	}

	complaint, err := h.svc.AttachImage(c.Request.Context(), GetActor(c), c.Param("id"), fileHeader.Filename, contentType, body)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, complaint)
}

// CreateQuoteRequest POST /complaints/:id/create-quote-request
func (h *ComplaintHandler) CreateQuoteRequest(c *gin.Context) {
	var req service.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	qr, err := h.quotes.CreateFromComplaint(c.Request.Context(), GetActor(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, qr)
}

// ListForATS GET /ats/complaints?status=
func (h *ComplaintHandler) ListForATS(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.ListForATS(c.Request.Context(), GetActor(c), c.Query("status"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	Paged(c, items, page, pageSize, total)
}

func (h *ComplaintHandler) ListForAssistantManager(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.ListForAssistantManager(c.Request.Context(), GetActor(c), c.Query("status"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	Paged(c, items, page, pageSize, total)
}

func (h *ComplaintHandler) ApprovalHistory(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.ApprovalHistory(c.Request.Context(), GetActor(c), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	Paged(c, items, page, pageSize, total)
}

func (h *ComplaintHandler) ListForManager(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.ListForManager(c.Request.Context(), GetActor(c), c.Query("status"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	Paged(c, items, page, pageSize, total)
}
