package handler

import (
	"fmt"

	"github.com/bitfantasy/assetdesk/internal/desk/service"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type QuoteHandler struct {
	svc *service.QuoteService
}

func NewQuoteHandler(svc *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{svc: svc}
}

// AddVendorRequest body of POST /quote-requests/:id/vendors
type AddVendorRequest struct {
	VendorID string `json:"vendor_id" binding:"required"`
}

func (h *QuoteHandler) Create(c *gin.Context) {
	var req service.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	qr, err := h.svc.Create(c.Request.Context(), GetActor(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, qr)
}

// List GET /quote-requests?status=&search=&vendor_id=
func (h *QuoteHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status":    c.Query("status"),
		"search":    c.Query("search"),
		"vendor_id": c.Query("vendor_id"),
	}
	items, total, err := h.svc.List(c.Request.Context(), GetActor(c), page, pageSize, filters)
	if err != nil {
		respondError(c, err)
		return
	}
	Paged(c, items, page, pageSize, total)
}

func (h *QuoteHandler) ListMine(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.ListMine(c.Request.Context(), GetActor(c), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	Paged(c, items, page, pageSize, total)
}

func (h *QuoteHandler) Get(c *gin.Context) {
	qr, err := h.svc.Get(c.Request.Context(), GetActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, qr)
}

func (h *QuoteHandler) Update(c *gin.Context) {
	var req service.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	qr, err := h.svc.Update(c.Request.Context(), GetActor(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, qr)
}

func (h *QuoteHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetActor(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	Success(c, nil)
}

func (h *QuoteHandler) AddVendor(c *gin.Context) {
	var req AddVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	sel, err := h.svc.AddVendor(c.Request.Context(), GetActor(c), c.Param("id"), req.VendorID)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, sel)
}

// RemoveVendor DELETE /quote-requests/vendors/:selectionId
func (h *QuoteHandler) RemoveVendor(c *gin.Context) {
	if err := h.svc.RemoveVendor(c.Request.Context(), GetActor(c), c.Param("selectionId")); err != nil {
		respondError(c, err)
		return
	}
	Success(c, nil)
}

func (h *QuoteHandler) SubmitResponse(c *gin.Context) {
	var req service.SubmitQuoteResponse
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	resp, err := h.svc.SubmitResponse(c.Request.Context(), GetActor(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, resp)
}

func (h *QuoteHandler) ListResponses(c *gin.Context) {
	items, err := h.svc.ListResponses(c.Request.Context(), GetActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// Review PUT /quote-responses/:id/review
func (h *QuoteHandler) Review(c *gin.Context) {
	var req service.ReviewQuoteResponse
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	result, err := h.svc.Review(c.Request.Context(), GetActor(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, result)
}

// Export GET /quote-requests/:id/export
func (h *QuoteHandler) Export(c *gin.Context) {
	f, filename, err := h.svc.ExportComparison(c.Request.Context(), GetActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}

// ListForVendor GET /vendor/quote-requests
func (h *QuoteHandler) ListForVendor(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.ListForVendor(c.Request.Context(), GetActor(c), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	Paged(c, items, page, pageSize, total)
}

// ListVendorResponses GET /vendor/quote-responses
func (h *QuoteHandler) ListVendorResponses(c *gin.Context) {
	items, err := h.svc.ListVendorResponses(c.Request.Context(), GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}
