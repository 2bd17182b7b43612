package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/bitfantasy/assetdesk/internal/desk/entity"
	"github.com/bitfantasy/assetdesk/internal/desk/policy"
	"github.com/bitfantasy/assetdesk/internal/desk/repository"
	"github.com/bitfantasy/assetdesk/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const minComponentReasonLen = 10

// ComplaintService complaint workflow state machine
type ComplaintService struct {
	complaints    ComplaintStore
	notifications *NotificationService
	images        ImageStore
	logger        *zap.Logger
	now           func() time.Time
}

func NewComplaintService(complaints ComplaintStore, notifications *NotificationService, logger *zap.Logger) *ComplaintService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComplaintService{
		complaints:    complaints,
		notifications: notifications,
		logger:        logger,
		now:           time.Now,
	}
}

// SetImageStore enables image uploads.
func (s *ComplaintService) SetImageStore(store ImageStore) {
	s.images = store
}

// ForwardComponentsRequest ATS asks for a component purchase
type ForwardComponentsRequest struct {
	ComponentPurchaseReason string  `json:"component_purchase_reason" binding:"required"`
	Status                  string  `json:"status"`
	AssignedTo              *string `json:"assigned_to"`
}

// ForwardToManagerRequest assistant manager escalation
type ForwardToManagerRequest struct {
	AssignedTo      *string `json:"assigned_to"`
	ResolutionNotes string  `json:"resolution_notes"`
	Priority        string  `json:"priority"`
}

// RejectComplaintRequest approval-stage rejection
type RejectComplaintRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ResolveComplaintRequest ATS resolution
type ResolveComplaintRequest struct {
	ResolutionNotes string `json:"resolution_notes"`
}

// ForwardWithComponents records why components must be bought and moves the
// complaint to the approval chain.
func (s *ComplaintService) ForwardWithComponents(ctx context.Context, actor Actor, id string, req *ForwardComponentsRequest) (*entity.Complaint, error) {
	if err := authorize(actor, policy.ComplaintForwardComponents); err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(req.ComponentPurchaseReason)
	if len([]rune(reason)) < minComponentReasonLen {
		return nil, &ValidationError{Field: "component_purchase_reason", Rule: fmt.Sprintf("must be at least %d characters", minComponentReasonLen)}
	}

	target := entity.ComplaintStatusForwarded
	if req.Status != "" {
		st, err := entity.ParseComplaintStatus(req.Status)
		if err != nil || st == entity.ComplaintStatusResolved {
			return nil, &ValidationError{Field: "status", Rule: "must be a known non-resolved status"}
		}
		target = st
	}

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	c.ComponentPurchaseReason = reason
	c.AssignedTo = req.AssignedTo
	s.transition(c, target)

	if err := s.save(ctx, c, "forward_components"); err != nil {
		return nil, err
	}
	return c, nil
}

// ForwardToManager escalates to manager approval.
func (s *ComplaintService) ForwardToManager(ctx context.Context, actor Actor, id string, req *ForwardToManagerRequest) (*entity.Complaint, error) {
	if err := authorize(actor, policy.ComplaintForwardManager); err != nil {
		return nil, err
	}

	var priority entity.Priority
	if req.Priority != "" {
		p, err := entity.ParsePriority(req.Priority)
		if err != nil {
			return nil, &ValidationError{Field: "priority", Rule: err.Error()}
		}
		priority = p
	}

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	note := strings.TrimSpace(req.ResolutionNotes)
	if note == "" {
		note = fmt.Sprintf("Forwarded to manager by %s", actor.Email)
	}
	c.ResolutionNotes = appendNote(c.ResolutionNotes, note)
	if req.AssignedTo != nil {
		c.AssignedTo = req.AssignedTo
	}
	if priority != "" {
		c.Priority = priority
	}
	s.transition(c, entity.ComplaintStatusPendingManagerApproval)

	if err := s.save(ctx, c, "forward_manager"); err != nil {
		return nil, err
	}
	return c, nil
}

// Reject sends the complaint back to the ATS queue and tells every ATS user.
func (s *ComplaintService) Reject(ctx context.Context, actor Actor, id string, req *RejectComplaintRequest) (*entity.Complaint, error) {
	if err := authorize(actor, policy.ComplaintReject); err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, &ValidationError{Field: "reason", Rule: "must not be empty"}
	}

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	title := RoleTitle(actor.Role)
	c.ResolutionNotes = appendNote(c.ResolutionNotes, fmt.Sprintf("Rejected by %s: %s", title, reason))
	c.AssignedTo = nil
	s.transition(c, entity.ComplaintStatusInProgress)

	if err := s.save(ctx, c, "reject"); err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Complaint %s has been rejected by %s. Reason: %s", c.ID, title, reason)
	relatedID := c.ID
	if _, err := s.notifications.NotifyRole(ctx, entity.RoleATS, msg, entity.NotificationTypeComplaintRejection, &relatedID); err != nil {
		s.logger.Warn("rejection notification failed", zap.String("complaint_id", c.ID), zap.Error(err))
	}
	return c, nil
}

// Resolve closes out the ATS work and tells the employee.
func (s *ComplaintService) Resolve(ctx context.Context, actor Actor, id string, req *ResolveComplaintRequest) (*entity.Complaint, error) {
	if err := authorize(actor, policy.ComplaintResolve); err != nil {
		return nil, err
	}

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	note := strings.TrimSpace(req.ResolutionNotes)
	if note == "" {
		note = "Resolved by ATS team"
	}
	c.ResolutionNotes = appendNote(c.ResolutionNotes, note)
	s.transition(c, entity.ComplaintStatusResolved)

	if err := s.save(ctx, c, "resolve"); err != nil {
		return nil, err
	}

	email := ""
	if c.Employee != nil {
		email = c.Employee.Email
	}
	msg := fmt.Sprintf("Your complaint '%s' has been resolved by the ATS team.", c.Title)
	relatedID := c.ID
	n, err := s.notifications.RecordForEmail(ctx, email, msg, entity.NotificationTypeComplaintResolved, &relatedID)
	switch {
	case errors.Is(err, ErrNoRecipient):
		s.logger.Info("no user account for complaint employee, resolution notice skipped",
			zap.String("complaint_id", c.ID), zap.String("email", email))
	case err != nil:
		s.logger.Warn("resolution notification failed", zap.String("complaint_id", c.ID), zap.Error(err))
	default:
		s.notifications.Publish(n)
	}
	return c, nil
}

// MarkComponentsOrdered records a placed component order. Runs inside the
// quote acceptance transaction, so no policy check applies here.
func (s *ComplaintService) MarkComponentsOrdered(ctx context.Context, c *entity.Complaint, note string) error {
	c.ResolutionNotes = appendNote(c.ResolutionNotes, note)
	s.transition(c, entity.ComplaintStatusInProgress)
	return s.save(ctx, c, "components_ordered")
}

// AppendNote adds an audit line without changing status.
func (s *ComplaintService) AppendNote(ctx context.Context, c *entity.Complaint, note string) error {
	c.ResolutionNotes = appendNote(c.ResolutionNotes, note)
	c.LastUpdated = s.now().UTC()
	if err := s.complaints.Save(ctx, c); err != nil {
		return persistence("save complaint", err)
	}
	return nil
}

// AttachImage stores an image and appends its URL to the complaint.
// Employees may only attach to their own complaints.
func (s *ComplaintService) AttachImage(ctx context.Context, actor Actor, id, filename, contentType string, body []byte) (*entity.Complaint, error) {
	if err := authorize(actor, policy.ComplaintUploadImage); err != nil {
		return nil, err
	}
	if s.images == nil {
		return nil, &StateConflictError{Entity: "complaint", ID: id, State: "images disabled", Rule: "no image store configured"}
	}
	if len(body) == 0 {
		return nil, &ValidationError{Field: "file", Rule: "must not be empty"}
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, &ValidationError{Field: "file", Rule: "must be an image"}
	}

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == entity.RoleEmployee && (c.Employee == nil || !strings.EqualFold(c.Employee.Email, actor.Email)) {
		return nil, &AuthorizationError{Action: policy.ComplaintUploadImage, Role: actor.Role, Reason: "not the complaint owner"}
	}

	key := fmt.Sprintf("complaints/%s/%s%s", c.ID, uuid.New().String()[:8], path.Ext(filename))
	url, err := s.images.Put(ctx, key, body, contentType)
	if err != nil {
		return nil, persistence("store complaint image", err)
	}

	c.Images = append(c.Images, url)
	c.LastUpdated = s.now().UTC()
	if err := s.complaints.Save(ctx, c); err != nil {
		return nil, persistence("save complaint", err)
	}
	return c, nil
}

// === read views ===

func (s *ComplaintService) ListForATS(ctx context.Context, actor Actor, status string, page, pageSize int) ([]entity.Complaint, int64, error) {
	if err := authorize(actor, policy.ComplaintViewATS); err != nil {
		return nil, 0, err
	}
	f := repository.ComplaintFilter{}
	if status != "" {
		st, err := entity.ParseComplaintStatus(status)
		if err != nil {
			return nil, 0, &ValidationError{Field: "status", Rule: err.Error()}
		}
		f.Status = st
	}
	return s.list(ctx, page, pageSize, f)
}

// ListForAssistantManager forwarded complaints plus anything assigned to the actor.
func (s *ComplaintService) ListForAssistantManager(ctx context.Context, actor Actor, status string, page, pageSize int) ([]entity.Complaint, int64, error) {
	if err := authorize(actor, policy.ComplaintViewAssistant); err != nil {
		return nil, 0, err
	}
	f := repository.ComplaintFilter{ForwardedOrAssignedTo: actor.ID}
	if status != "" {
		st, err := entity.ParseComplaintStatus(status)
		if err != nil {
			return nil, 0, &ValidationError{Field: "status", Rule: err.Error()}
		}
		f.Status = st
	}
	return s.list(ctx, page, pageSize, f)
}

// ListForManager defaults to complaints awaiting approval or in progress.
func (s *ComplaintService) ListForManager(ctx context.Context, actor Actor, status string, page, pageSize int) ([]entity.Complaint, int64, error) {
	if err := authorize(actor, policy.ComplaintViewManager); err != nil {
		return nil, 0, err
	}
	f := repository.ComplaintFilter{
		Statuses: []entity.ComplaintStatus{entity.ComplaintStatusPendingManagerApproval, entity.ComplaintStatusInProgress},
	}
	if status != "" {
		st, err := entity.ParseComplaintStatus(status)
		if err != nil {
			return nil, 0, &ValidationError{Field: "status", Rule: err.Error()}
		}
		f.Status = st
	}
	return s.list(ctx, page, pageSize, f)
}

// ApprovalHistory complaints the assistant manager already acted on.
func (s *ComplaintService) ApprovalHistory(ctx context.Context, actor Actor, page, pageSize int) ([]entity.Complaint, int64, error) {
	if err := authorize(actor, policy.ComplaintViewAssistant); err != nil {
		return nil, 0, err
	}
	f := repository.ComplaintFilter{
		NotesContainAny: []string{
			"Forwarded to manager by " + actor.Email,
			"Rejected by " + RoleTitle(entity.RoleAssistantManager) + ":",
		},
		OrderByUpdated: true,
	}
	return s.list(ctx, page, pageSize, f)
}

// ComponentDetails purchase context for one complaint
type ComponentDetails struct {
	ComplaintID             string                 `json:"complaint_id"`
	Title                   string                 `json:"title"`
	Status                  entity.ComplaintStatus `json:"status"`
	Priority                entity.Priority        `json:"priority"`
	ComponentPurchaseReason string                 `json:"component_purchase_reason"`
	ResolutionNotes         string                 `json:"resolution_notes"`
	AssignedTo              *string                `json:"assigned_to"`
	EmployeeName            string                 `json:"employee_name"`
	EmployeeEmail           string                 `json:"employee_email"`
	LastUpdated             time.Time              `json:"last_updated"`
}

func (s *ComplaintService) GetComponentDetails(ctx context.Context, actor Actor, id string) (*ComponentDetails, error) {
	if err := authorize(actor, policy.ComplaintViewComponents); err != nil {
		return nil, err
	}
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &ComponentDetails{
		ComplaintID:             c.ID,
		Title:                   c.Title,
		Status:                  c.Status,
		Priority:                c.Priority,
		ComponentPurchaseReason: c.ComponentPurchaseReason,
		ResolutionNotes:         c.ResolutionNotes,
		AssignedTo:              c.AssignedTo,
		LastUpdated:             c.LastUpdated,
	}
	if c.Employee != nil {
		d.EmployeeName = c.Employee.Name
		d.EmployeeEmail = c.Employee.Email
	}
	return d, nil
}

// === helpers ===

func (s *ComplaintService) load(ctx context.Context, id string) (*entity.Complaint, error) {
	c, err := s.complaints.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "complaint", id)
	}
	return c, nil
}

func (s *ComplaintService) list(ctx context.Context, page, pageSize int, f repository.ComplaintFilter) ([]entity.Complaint, int64, error) {
	items, total, err := s.complaints.List(ctx, page, pageSize, f)
	if err != nil {
		return nil, 0, persistence("list complaints", err)
	}
	return items, total, nil
}

// transition sets status and keeps resolution_date in step with it.
func (s *ComplaintService) transition(c *entity.Complaint, to entity.ComplaintStatus) {
	now := s.now().UTC()
	c.Status = to
	if to == entity.ComplaintStatusResolved {
		c.ResolutionDate = &now
	} else {
		c.ResolutionDate = nil
	}
	c.LastUpdated = now
}

func (s *ComplaintService) save(ctx context.Context, c *entity.Complaint, op string) error {
	if err := s.complaints.Save(ctx, c); err != nil {
		return persistence("save complaint", err)
	}
	metrics.RecordComplaintTransition(op, string(c.Status))
	s.logger.Info("complaint transitioned",
		zap.String("complaint_id", c.ID),
		zap.String("operation", op),
		zap.String("status", string(c.Status)))
	return nil
}

// appendNote joins notes with a newline, never dropping earlier text.
func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	if note == "" {
		return existing
	}
	return existing + "\n" + note
}
