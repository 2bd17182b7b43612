package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bitfantasy/assetdesk/internal/desk/entity"
	"github.com/bitfantasy/assetdesk/internal/desk/policy"
	"github.com/bitfantasy/assetdesk/internal/desk/repository"
	"github.com/bitfantasy/assetdesk/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuoteService vendor quote procurement
type QuoteService struct {
	quotes        QuoteStore
	vendors       VendorDirectory
	complaints    ComplaintStore
	complaintSvc  *ComplaintService
	linker        *Linker
	notifications *NotificationService
	tx            Transactor
	announcer     Announcer
	logger        *zap.Logger
	now           func() time.Time
}

func NewQuoteService(
	quotes QuoteStore,
	vendors VendorDirectory,
	complaints ComplaintStore,
	complaintSvc *ComplaintService,
	linker *Linker,
	notifications *NotificationService,
	tx Transactor,
	logger *zap.Logger,
) *QuoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteService{
		quotes:        quotes,
		vendors:       vendors,
		complaints:    complaints,
		complaintSvc:  complaintSvc,
		linker:        linker,
		notifications: notifications,
		tx:            tx,
		logger:        logger,
		now:           time.Now,
	}
}

// SetAnnouncer enables the outbound acceptance card.
func (s *QuoteService) SetAnnouncer(a Announcer) {
	s.announcer = a
}

// CreateQuoteRequest new request for bids
type CreateQuoteRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description" binding:"required"`
	Requirements string     `json:"requirements"`
	Budget       *float64   `json:"budget"`
	Priority     string     `json:"priority"`
	Status       string     `json:"status"`
	DueDate      *time.Time `json:"due_date"`
}

// UpdateQuoteRequest partial update; nil fields are left alone
type UpdateQuoteRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Requirements *string    `json:"requirements"`
	Budget       *float64   `json:"budget"`
	Priority     *string    `json:"priority"`
	Status       *string    `json:"status"`
	DueDate      *time.Time `json:"due_date"`
}

// SubmitQuoteResponse vendor bid
type SubmitQuoteResponse struct {
	VendorID         string  `json:"vendor_id"`
	QuoteAmount      float64 `json:"quote_amount" binding:"required"`
	Description      string  `json:"description" binding:"required"`
	DeliveryTimeline string  `json:"delivery_timeline"`
}

// ReviewQuoteResponse manager decision on a bid
type ReviewQuoteResponse struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// ReviewResult outcome of Review
type ReviewResult struct {
	Response           *entity.QuoteResponse `json:"response"`
	NotificationSent   bool                  `json:"notification_sent"`
	RelatedComplaintID *string               `json:"related_complaint_id"`
	LinkStrategy       LinkStrategy          `json:"link_strategy"`
	VendorName         string                `json:"vendor_name"`
	QuoteAmount        float64               `json:"quote_amount"`
}

// Create starts a request in draft unless draft or open is asked for.
func (s *QuoteService) Create(ctx context.Context, actor Actor, req *CreateQuoteRequest) (*entity.QuoteRequest, error) {
	if err := authorize(actor, policy.QuoteCreate); err != nil {
		return nil, err
	}
	qr, err := s.newRequest(actor, req)
	if err != nil {
		return nil, err
	}
	if err := s.quotes.CreateRequest(ctx, qr); err != nil {
		return nil, persistence("create quote request", err)
	}
	s.logger.Info("quote request created", zap.String("quote_request_id", qr.ID), zap.String("created_by", actor.ID))
	return qr, nil
}

// CreateFromComplaint raises a request for the components a complaint
// needs and links the two.
func (s *QuoteService) CreateFromComplaint(ctx context.Context, actor Actor, complaintID string, req *CreateQuoteRequest) (*entity.QuoteRequest, error) {
	if err := authorize(actor, policy.QuoteCreateFromComplaint); err != nil {
		return nil, err
	}

	var qr *entity.QuoteRequest
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.complaints.FindByID(ctx, complaintID)
		if err != nil {
			return lookup(err, "complaint", complaintID)
		}
		if !c.HasComponentReason() {
			return &ValidationError{Field: "component_purchase_reason", Rule: "complaint has no component purchase reason"}
		}

		linked := *req
		linked.Title = fmt.Sprintf("%s (Complaint: %s)", strings.TrimSpace(req.Title), c.Title)
		linked.Description = fmt.Sprintf("Component purchase for complaint #%s: %s\n\nAdditional details: %s",
			c.ID, c.ComponentPurchaseReason, strings.TrimSpace(req.Description))

		qr, err = s.newRequest(actor, &linked)
		if err != nil {
			return err
		}
		qr.SourceComplaintID = &c.ID
		if err := s.quotes.CreateRequest(ctx, qr); err != nil {
			return persistence("create quote request", err)
		}

		note := fmt.Sprintf("Quote request %s created for component purchase. Status: %s", qr.ID, qr.Status)
		return s.complaintSvc.AppendNote(ctx, c, note)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("quote request created from complaint",
		zap.String("quote_request_id", qr.ID), zap.String("complaint_id", complaintID))
	return qr, nil
}

func (s *QuoteService) newRequest(actor Actor, req *CreateQuoteRequest) (*entity.QuoteRequest, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &ValidationError{Field: "title", Rule: "must not be empty"}
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, &ValidationError{Field: "description", Rule: "must not be empty"}
	}
	if req.Budget != nil && *req.Budget < 0 {
		return nil, &ValidationError{Field: "budget", Rule: "must not be negative"}
	}

	priority := entity.PriorityMedium
	if req.Priority != "" {
		p, err := entity.ParsePriority(req.Priority)
		if err != nil {
			return nil, &ValidationError{Field: "priority", Rule: err.Error()}
		}
		priority = p
	}

	status := entity.QuoteRequestStatusDraft
	if req.Status != "" {
		st, err := entity.ParseQuoteRequestStatus(req.Status)
		if err != nil || (st != entity.QuoteRequestStatusDraft && st != entity.QuoteRequestStatusOpen) {
			return nil, &ValidationError{Field: "status", Rule: "new requests start as draft or open"}
		}
		status = st
	}

	return &entity.QuoteRequest{
		ID:           uuid.New().String(),
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Requirements: req.Requirements,
		Budget:       req.Budget,
		Priority:     priority,
		Status:       status,
		CreatedByID:  actor.ID,
		Version:      1,
		CreatedAt:    s.now().UTC(),
		DueDate:      req.DueDate,
	}, nil
}

// Update edits request fields. Status may only move to cancelled or closed
// from draft or open.
func (s *QuoteService) Update(ctx context.Context, actor Actor, id string, req *UpdateQuoteRequest) (*entity.QuoteRequest, error) {
	qr, err := s.loadRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(actor, policy.QuoteUpdate, qr.CreatedByID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, &ValidationError{Field: "title", Rule: "must not be empty"}
		}
		qr.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		qr.Description = *req.Description
	}
	if req.Requirements != nil {
		qr.Requirements = *req.Requirements
	}
	if req.Budget != nil {
		if *req.Budget < 0 {
			return nil, &ValidationError{Field: "budget", Rule: "must not be negative"}
		}
		qr.Budget = req.Budget
	}
	if req.Priority != nil {
		p, err := entity.ParsePriority(*req.Priority)
		if err != nil {
			return nil, &ValidationError{Field: "priority", Rule: err.Error()}
		}
		qr.Priority = p
	}
	if req.DueDate != nil {
		qr.DueDate = req.DueDate
	}
	if req.Status != nil && entity.QuoteRequestStatus(*req.Status) != qr.Status {
		st, err := entity.ParseQuoteRequestStatus(*req.Status)
		if err != nil {
			return nil, &ValidationError{Field: "status", Rule: err.Error()}
		}
		if st != entity.QuoteRequestStatusCancelled && st != entity.QuoteRequestStatusClosed {
			return nil, &StateConflictError{Entity: "quote request", ID: qr.ID, State: string(qr.Status), Rule: "status may only be set to cancelled or closed"}
		}
		if qr.Status != entity.QuoteRequestStatusDraft && qr.Status != entity.QuoteRequestStatusOpen {
			return nil, &StateConflictError{Entity: "quote request", ID: qr.ID, State: string(qr.Status), Rule: "only draft or open requests can be cancelled or closed"}
		}
		qr.Status = st
	}

	if err := s.quotes.SaveRequest(ctx, qr); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, &StateConflictError{Entity: "quote request", ID: qr.ID, State: string(qr.Status), Rule: "modified concurrently"}
		}
		return nil, persistence("save quote request", err)
	}
	return qr, nil
}

// Delete removes a request that never reached pending.
func (s *QuoteService) Delete(ctx context.Context, actor Actor, id string) error {
	qr, err := s.loadRequest(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeOwner(actor, policy.QuoteDelete, qr.CreatedByID); err != nil {
		return err
	}
	if !qr.Deletable() {
		return &StateConflictError{Entity: "quote request", ID: qr.ID, State: string(qr.Status), Rule: "only draft, open or cancelled requests can be deleted"}
	}
	if err := s.quotes.DeleteRequest(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: "quote request", ID: id}
		}
		return persistence("delete quote request", err)
	}
	s.logger.Info("quote request deleted", zap.String("quote_request_id", id), zap.String("actor", actor.ID))
	return nil
}

// AddVendor invites a vendor. Inviting twice returns the first invitation.
func (s *QuoteService) AddVendor(ctx context.Context, actor Actor, id, vendorID string) (*entity.VendorSelection, error) {
	qr, err := s.loadRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(actor, policy.QuoteAddVendor, qr.CreatedByID); err != nil {
		return nil, err
	}
	if qr.Status != entity.QuoteRequestStatusDraft && qr.Status != entity.QuoteRequestStatusOpen {
		return nil, &StateConflictError{Entity: "quote request", ID: qr.ID, State: string(qr.Status), Rule: "vendors can only be added to draft or open requests"}
	}
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return nil, lookup(err, "vendor", vendorID)
	}

	var sel *entity.VendorSelection
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		sel, err = s.quotes.CreateSelection(ctx, &entity.VendorSelection{
			ID:             uuid.New().String(),
			QuoteRequestID: qr.ID,
			VendorID:       vendorID,
			SentDate:       s.now().UTC(),
		})
		if err != nil {
			return persistence("create vendor selection", err)
		}
		if qr.Status == entity.QuoteRequestStatusDraft {
			err := s.quotes.TransitionRequest(ctx, qr.ID,
				[]entity.QuoteRequestStatus{entity.QuoteRequestStatusDraft}, entity.QuoteRequestStatusOpen)
			if err != nil && !errors.Is(err, repository.ErrVersionConflict) {
				return persistence("open quote request", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sel, nil
}

// RemoveVendor withdraws an invitation the vendor has not answered.
func (s *QuoteService) RemoveVendor(ctx context.Context, actor Actor, selectionID string) error {
	sel, err := s.quotes.FindSelectionByID(ctx, selectionID)
	if err != nil {
		return lookup(err, "vendor selection", selectionID)
	}
	qr, err := s.loadRequest(ctx, sel.QuoteRequestID)
	if err != nil {
		return err
	}
	if err := authorizeOwner(actor, policy.QuoteRemoveVendor, qr.CreatedByID); err != nil {
		return err
	}
	if sel.HasResponded {
		return &StateConflictError{Entity: "vendor selection", ID: sel.ID, State: "responded", Rule: "cannot remove a vendor that has already responded"}
	}
	if err := s.quotes.DeleteSelection(ctx, selectionID); err != nil {
		return persistence("delete vendor selection", err)
	}
	return nil
}

// SubmitResponse creates or replaces a vendor's bid.
func (s *QuoteService) SubmitResponse(ctx context.Context, actor Actor, id string, req *SubmitQuoteResponse) (*entity.QuoteResponse, error) {
	if err := authorize(actor, policy.QuoteSubmitResponse); err != nil {
		return nil, err
	}
	if req.QuoteAmount <= 0 {
		return nil, &ValidationError{Field: "quote_amount", Rule: "must be positive"}
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, &ValidationError{Field: "description", Rule: "must not be empty"}
	}

	qr, err := s.loadRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	vendorID := req.VendorID
	if actor.Role == entity.RoleVendor {
		v, err := s.vendors.FindByEmail(ctx, actor.Email)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, &AuthorizationError{Action: policy.QuoteSubmitResponse, Role: actor.Role, Reason: "no vendor profile for this account"}
			}
			return nil, persistence("find vendor by email", err)
		}
		if vendorID != "" && vendorID != v.ID {
			return nil, &AuthorizationError{Action: policy.QuoteSubmitResponse, Role: actor.Role, Reason: "cannot submit for another vendor"}
		}
		vendorID = v.ID
		if _, err := s.quotes.FindSelection(ctx, qr.ID, vendorID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, &AuthorizationError{Action: policy.QuoteSubmitResponse, Role: actor.Role, Reason: "vendor was not invited to this request"}
			}
			return nil, persistence("find vendor selection", err)
		}
	} else {
		if vendorID == "" {
			return nil, &ValidationError{Field: "vendor_id", Rule: "required when submitting on behalf of a vendor"}
		}
		if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
			return nil, lookup(err, "vendor", vendorID)
		}
	}

	if !qr.Status.AcceptsBids() {
		return nil, &StateConflictError{Entity: "quote request", ID: qr.ID, State: string(qr.Status), Rule: "responses are only accepted while open or pending"}
	}

	var resp *entity.QuoteResponse
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		// conditional on status so a bid cannot land on a request accepted
		// after it was loaded
		err := s.quotes.TransitionRequest(ctx, qr.ID,
			[]entity.QuoteRequestStatus{entity.QuoteRequestStatusOpen, entity.QuoteRequestStatusPending},
			entity.QuoteRequestStatusPending)
		if errors.Is(err, repository.ErrVersionConflict) {
			return &StateConflictError{Entity: "quote request", ID: qr.ID, State: "no longer open", Rule: "responses are only accepted while open or pending"}
		}
		if err != nil {
			return persistence("advance quote request", err)
		}

		now := s.now().UTC()
		existing, err := s.quotes.FindResponse(ctx, qr.ID, vendorID)
		switch {
		case err == nil:
			if existing.Status == entity.QuoteResponseStatusAccepted {
				return &StateConflictError{Entity: "quote response", ID: existing.ID, State: string(existing.Status), Rule: "an accepted response cannot be replaced"}
			}
			existing.QuoteAmount = req.QuoteAmount
			existing.Description = strings.TrimSpace(req.Description)
			existing.DeliveryTimeline = req.DeliveryTimeline
			existing.Status = entity.QuoteResponseStatusPendingReview
			existing.SubmittedAt = now
			if err := s.quotes.SaveResponse(ctx, existing); err != nil {
				return persistence("save quote response", err)
			}
			resp = existing
		case errors.Is(err, repository.ErrNotFound):
			resp = &entity.QuoteResponse{
				ID:               uuid.New().String(),
				QuoteRequestID:   qr.ID,
				VendorID:         vendorID,
				QuoteAmount:      req.QuoteAmount,
				Description:      strings.TrimSpace(req.Description),
				DeliveryTimeline: req.DeliveryTimeline,
				Status:           entity.QuoteResponseStatusPendingReview,
				SubmittedAt:      now,
			}
			if err := s.quotes.CreateResponse(ctx, resp); err != nil {
				return persistence("create quote response", err)
			}
		default:
			return persistence("find quote response", err)
		}

		// responders are always selected vendors
		if _, err := s.quotes.CreateSelection(ctx, &entity.VendorSelection{
			ID:             uuid.New().String(),
			QuoteRequestID: qr.ID,
			VendorID:       vendorID,
			SentDate:       now,
		}); err != nil {
			return persistence("ensure vendor selection", err)
		}
		if err := s.quotes.MarkResponded(ctx, qr.ID, vendorID); err != nil {
			return persistence("mark vendor responded", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordQuoteResponse()
	s.logger.Info("quote response submitted",
		zap.String("quote_request_id", qr.ID),
		zap.String("vendor_id", vendorID),
		zap.Float64("amount", resp.QuoteAmount))
	return resp, nil
}

// Review records a manager decision. Accepting fulfils the request and
// links it to the complaint it was bought for, all in one transaction.
func (s *QuoteService) Review(ctx context.Context, actor Actor, responseID string, req *ReviewQuoteResponse) (*ReviewResult, error) {
	if err := authorize(actor, policy.QuoteReview); err != nil {
		return nil, err
	}
	status, err := entity.ParseQuoteResponseStatus(req.Status)
	if err != nil || status == entity.QuoteResponseStatusPendingReview {
		return nil, &ValidationError{Field: "status", Rule: "must be accepted, rejected or negotiating"}
	}

	result := &ReviewResult{}
	var link *LinkResult
	var qr *entity.QuoteRequest

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		resp, err := s.quotes.FindResponseByID(ctx, responseID)
		if err != nil {
			return lookup(err, "quote response", responseID)
		}
		qr = resp.QuoteRequest
		if qr == nil {
			if qr, err = s.loadRequest(ctx, resp.QuoteRequestID); err != nil {
				return err
			}
		}
		if !qr.Status.AcceptsBids() {
			return &StateConflictError{Entity: "quote request", ID: qr.ID, State: string(qr.Status), Rule: "responses can only be reviewed while the request is open or pending"}
		}
		if resp.Status == entity.QuoteResponseStatusAccepted {
			return &StateConflictError{Entity: "quote response", ID: resp.ID, State: string(resp.Status), Rule: "an accepted response cannot be reviewed again"}
		}

		now := s.now().UTC()
		reviewer := actor.ID
		resp.Status = status
		resp.Notes = req.Notes
		resp.ReviewedByID = &reviewer
		resp.ReviewedAt = &now
		if err := s.quotes.SaveResponse(ctx, resp); err != nil {
			return persistence("save quote response", err)
		}

		vendorName := resp.VendorID
		if resp.Vendor != nil {
			vendorName = resp.Vendor.Name
		}
		result.Response = resp
		result.VendorName = vendorName
		result.QuoteAmount = resp.QuoteAmount
		result.LinkStrategy = LinkNone

		if status != entity.QuoteResponseStatusAccepted {
			return nil
		}

		if err := s.quotes.FulfilRequest(ctx, qr.ID, qr.Version, now); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				return &StateConflictError{Entity: "quote request", ID: qr.ID, State: string(qr.Status), Rule: "request changed while accepting; another response may have been accepted"}
			}
			return persistence("fulfil quote request", err)
		}
		qr.Status = entity.QuoteRequestStatusFulfilled
		qr.CompletedDate = &now
		qr.Version++

		accepted, err := s.quotes.CountAccepted(ctx, qr.ID)
		if err != nil {
			return persistence("count accepted responses", err)
		}
		if accepted != 1 {
			return &StateConflictError{Entity: "quote request", ID: qr.ID, State: string(qr.Status), Rule: "a fulfilled request must have exactly one accepted response"}
		}

		link, err = s.linker.Link(ctx, qr, resp, vendorName)
		if err != nil {
			return err
		}
		result.LinkStrategy = link.Strategy
		if link.Complaint != nil {
			result.RelatedComplaintID = &link.Complaint.ID
		}
		result.NotificationSent = link.Notification != nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordQuoteReview(string(status))
	s.logger.Info("quote response reviewed",
		zap.String("quote_response_id", responseID),
		zap.String("status", string(status)),
		zap.String("reviewer", actor.ID))

	if link != nil {
		s.notifications.Publish(link.Notification)
		s.announce(qr, result, link, actor)
	}
	return result, nil
}

func (s *QuoteService) announce(qr *entity.QuoteRequest, result *ReviewResult, link *LinkResult, actor Actor) {
	if s.announcer == nil {
		return
	}
	a := Acceptance{
		RequestID:    qr.ID,
		RequestTitle: qr.Title,
		VendorName:   result.VendorName,
		Amount:       result.QuoteAmount,
		ReviewerID:   actor.ID,
		Deadline:     link.Deadline,
	}
	if link.Complaint != nil {
		a.ComplaintID = link.Complaint.ID
	}
	go func() {
		if err := s.announcer.AnnounceAcceptance(context.Background(), a); err != nil {
			s.logger.Warn("acceptance announcement failed", zap.String("quote_request_id", a.RequestID), zap.Error(err))
		}
	}()
}

// === read views ===

func (s *QuoteService) Get(ctx context.Context, actor Actor, id string) (*entity.QuoteRequest, error) {
	qr, err := s.loadRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == entity.RoleVendor {
		if err := s.vendorInvited(ctx, actor, qr); err != nil {
			return nil, err
		}
		return qr, nil
	}
	if err := authorizeOwner(actor, policy.QuoteView, qr.CreatedByID); err != nil {
		return nil, err
	}
	return qr, nil
}

// List filters: status, created_by, vendor_id, search.
func (s *QuoteService) List(ctx context.Context, actor Actor, page, pageSize int, filters map[string]string) ([]entity.QuoteRequest, int64, error) {
	if err := authorize(actor, policy.QuoteView); err != nil {
		return nil, 0, err
	}
	if st := filters["status"]; st != "" {
		if _, err := entity.ParseQuoteRequestStatus(st); err != nil {
			return nil, 0, &ValidationError{Field: "status", Rule: err.Error()}
		}
	}
	items, total, err := s.quotes.ListRequests(ctx, page, pageSize, filters)
	if err != nil {
		return nil, 0, persistence("list quote requests", err)
	}
	return items, total, nil
}

// ListMine requests created by the actor.
func (s *QuoteService) ListMine(ctx context.Context, actor Actor, page, pageSize int) ([]entity.QuoteRequest, int64, error) {
	items, total, err := s.quotes.ListRequests(ctx, page, pageSize, map[string]string{"created_by": actor.ID})
	if err != nil {
		return nil, 0, persistence("list quote requests", err)
	}
	return items, total, nil
}

// ListForVendor requests the calling vendor was invited to.
func (s *QuoteService) ListForVendor(ctx context.Context, actor Actor, page, pageSize int) ([]entity.QuoteRequest, int64, error) {
	if err := authorize(actor, policy.QuoteViewVendor); err != nil {
		return nil, 0, err
	}
	v, err := s.vendors.FindByEmail(ctx, actor.Email)
	if err != nil {
		return nil, 0, lookup(err, "vendor", actor.Email)
	}
	items, total, err := s.quotes.ListRequests(ctx, page, pageSize, map[string]string{"vendor_id": v.ID})
	if err != nil {
		return nil, 0, persistence("list quote requests", err)
	}
	return items, total, nil
}

// ListResponses bids on one request.
func (s *QuoteService) ListResponses(ctx context.Context, actor Actor, id string) ([]entity.QuoteResponse, error) {
	qr, err := s.loadRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(actor, policy.QuoteView, qr.CreatedByID); err != nil {
		return nil, err
	}
	items, err := s.quotes.ListResponses(ctx, id)
	if err != nil {
		return nil, persistence("list quote responses", err)
	}
	return items, nil
}

// ListVendorResponses bids placed by the calling vendor.
func (s *QuoteService) ListVendorResponses(ctx context.Context, actor Actor) ([]entity.QuoteResponse, error) {
	if err := authorize(actor, policy.QuoteViewVendor); err != nil {
		return nil, err
	}
	v, err := s.vendors.FindByEmail(ctx, actor.Email)
	if err != nil {
		return nil, lookup(err, "vendor", actor.Email)
	}
	items, err := s.quotes.ListResponsesByVendor(ctx, v.ID)
	if err != nil {
		return nil, persistence("list vendor responses", err)
	}
	return items, nil
}

func (s *QuoteService) vendorInvited(ctx context.Context, actor Actor, qr *entity.QuoteRequest) error {
	v, err := s.vendors.FindByEmail(ctx, actor.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &AuthorizationError{Action: policy.QuoteViewVendor, Role: actor.Role, Reason: "no vendor profile for this account"}
		}
		return persistence("find vendor by email", err)
	}
	for _, sel := range qr.VendorSelections {
		if sel.VendorID == v.ID {
			return nil
		}
	}
	return &AuthorizationError{Action: policy.QuoteViewVendor, Role: actor.Role, Reason: "vendor was not invited to this request"}
}

func (s *QuoteService) loadRequest(ctx context.Context, id string) (*entity.QuoteRequest, error) {
	qr, err := s.quotes.FindRequest(ctx, id)
	if err != nil {
		return nil, lookup(err, "quote request", id)
	}
	return qr, nil
}
