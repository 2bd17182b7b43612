package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bitfantasy/assetdesk/internal/desk/entity"
	"github.com/bitfantasy/assetdesk/internal/desk/repository"
	"github.com/bitfantasy/assetdesk/internal/metrics"
	"go.uber.org/zap"
)

// LinkStrategy how the complaint behind an accepted quote was found
type LinkStrategy string

const (
	LinkExplicit LinkStrategy = "explicit"
	LinkExact    LinkStrategy = "exact"
	LinkFallback LinkStrategy = "fallback"
	LinkNone     LinkStrategy = "none"
)

const (
	DefaultDeliveryDays = 14
	deadlineLayout      = "January 02, 2006"
)

// LinkResult outcome of linking an accepted quote to a complaint
type LinkResult struct {
	Strategy     LinkStrategy
	Complaint    *entity.Complaint
	Notification *entity.Notification
	Deadline     string
}

// Linker finds the complaint an accepted quote was bought for, tells the
// employee and moves the complaint along.
type Linker struct {
	complaints    ComplaintStore
	complaintSvc  *ComplaintService
	notifications *NotificationService
	tx            Transactor
	logger        *zap.Logger
	now           func() time.Time
	deliveryDays  int
	explicitLinks bool
}

func NewLinker(complaints ComplaintStore, complaintSvc *ComplaintService, notifications *NotificationService, tx Transactor, logger *zap.Logger) *Linker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Linker{
		complaints:    complaints,
		complaintSvc:  complaintSvc,
		notifications: notifications,
		tx:            tx,
		logger:        logger,
		now:           time.Now,
		deliveryDays:  DefaultDeliveryDays,
		explicitLinks: true,
	}
}

// SetDeliveryDays overrides the promised delivery window.
func (l *Linker) SetDeliveryDays(days int) {
	if days > 0 {
		l.deliveryDays = days
	}
}

// SetExplicitLinks toggles use of QuoteRequest.SourceComplaintID.
func (l *Linker) SetExplicitLinks(enabled bool) {
	l.explicitLinks = enabled
}

// Link runs on quote acceptance. ctx carries the acceptance transaction.
// The notification insert runs in a savepoint; its failure is logged and
// does not abort the acceptance. A failed complaint update does.
func (l *Linker) Link(ctx context.Context, qr *entity.QuoteRequest, resp *entity.QuoteResponse, vendorName string) (*LinkResult, error) {
	complaint, strategy, err := l.FindComplaint(ctx, qr)
	if err != nil {
		return nil, err
	}
	metrics.RecordLink(string(strategy))

	result := &LinkResult{Strategy: strategy, Complaint: complaint}
	if complaint == nil {
		l.logger.Info("accepted quote matches no complaint", zap.String("quote_request_id", qr.ID))
		return result, nil
	}

	result.Deadline = l.now().UTC().AddDate(0, 0, l.deliveryDays).Format(deadlineLayout)
	result.Notification = l.notifyEmployee(ctx, complaint, result.Deadline)

	note := fmt.Sprintf("Components ordered from %s. Expected delivery: %s. Order amount: $%.2f",
		vendorName, result.Deadline, resp.QuoteAmount)
	if err := l.complaintSvc.MarkComponentsOrdered(ctx, complaint, note); err != nil {
		return nil, err
	}

	l.logger.Info("accepted quote linked to complaint",
		zap.String("quote_request_id", qr.ID),
		zap.String("complaint_id", complaint.ID),
		zap.String("strategy", string(strategy)))
	return result, nil
}

func (l *Linker) notifyEmployee(ctx context.Context, c *entity.Complaint, deadline string) *entity.Notification {
	email := ""
	if c.Employee != nil {
		email = c.Employee.Email
	}
	msg := fmt.Sprintf("The new component has been ordered and is expected to be installed within %s (Deadline: %s).",
		deliveryWindow(l.deliveryDays), deadline)
	relatedID := c.ID

	var n *entity.Notification
	err := l.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		n, err = l.notifications.RecordForEmail(ctx, email, msg, entity.NotificationTypeComponentOrder, &relatedID)
		return err
	})
	switch {
	case errors.Is(err, ErrNoRecipient):
		l.logger.Info("no user account for complaint employee, order notice skipped",
			zap.String("complaint_id", c.ID), zap.String("email", email))
		return nil
	case err != nil:
		l.logger.Warn("order notification failed", zap.String("complaint_id", c.ID), zap.Error(err))
		return nil
	}
	return n
}

// FindComplaint resolves the complaint behind qr: explicit link, then exact
// text match, then the most recently updated open approval.
func (l *Linker) FindComplaint(ctx context.Context, qr *entity.QuoteRequest) (*entity.Complaint, LinkStrategy, error) {
	if l.explicitLinks && qr.SourceComplaintID != nil && *qr.SourceComplaintID != "" {
		c, err := l.complaints.FindByID(ctx, *qr.SourceComplaintID)
		if err == nil {
			return c, LinkExplicit, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, LinkNone, persistence("load linked complaint", err)
		}
		l.logger.Warn("linked complaint no longer exists, falling back to matching",
			zap.String("quote_request_id", qr.ID), zap.String("complaint_id", *qr.SourceComplaintID))
	}

	candidates, err := l.complaints.ListWithComponentReason(ctx)
	if err != nil {
		return nil, LinkNone, persistence("list complaints with component reason", err)
	}
	if c := MatchExact(candidates, qr.Title, qr.Description); c != nil {
		return c, LinkExact, nil
	}
	if c := MatchFallback(candidates); c != nil {
		return c, LinkFallback, nil
	}
	return nil, LinkNone, nil
}

// MatchExact returns the first complaint, in the given order, whose reason
// and the request title or description contain one another, ignoring case.
func MatchExact(complaints []entity.Complaint, title, description string) *entity.Complaint {
	texts := make([]string, 0, 2)
	for _, t := range []string{title, description} {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			texts = append(texts, t)
		}
	}
	for i := range complaints {
		reason := strings.ToLower(strings.TrimSpace(complaints[i].ComponentPurchaseReason))
		if reason == "" {
			continue
		}
		for _, t := range texts {
			if strings.Contains(t, reason) || strings.Contains(reason, t) {
				return &complaints[i]
			}
		}
	}
	return nil
}

// MatchFallback picks the most recently updated complaint still awaiting
// approval or in progress. Ties keep the earlier candidate.
func MatchFallback(complaints []entity.Complaint) *entity.Complaint {
	var best *entity.Complaint
	for i := range complaints {
		c := &complaints[i]
		if !c.HasComponentReason() {
			continue
		}
		if c.Status != entity.ComplaintStatusPendingManagerApproval && c.Status != entity.ComplaintStatusInProgress {
			continue
		}
		if best == nil || c.LastUpdated.After(best.LastUpdated) {
			best = c
		}
	}
	return best
}

func deliveryWindow(days int) string {
	if days%7 == 0 {
		weeks := days / 7
		if weeks == 1 {
			return "1 week"
		}
		return fmt.Sprintf("%d weeks", weeks)
	}
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
