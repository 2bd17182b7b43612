package entity

import (
	"database/sql/driver"
	"fmt"
)

// ComplaintStatus complaint workflow state
type ComplaintStatus string

const (
	ComplaintStatusOpen                   ComplaintStatus = "open"
	ComplaintStatusForwarded              ComplaintStatus = "forwarded"
	ComplaintStatusPendingManagerApproval ComplaintStatus = "pending_manager_approval"
	ComplaintStatusInProgress             ComplaintStatus = "in_progress"
	ComplaintStatusResolved               ComplaintStatus = "resolved"
	ComplaintStatusClosed                 ComplaintStatus = "closed"
)

var complaintStatuses = []ComplaintStatus{
	ComplaintStatusOpen,
	ComplaintStatusForwarded,
	ComplaintStatusPendingManagerApproval,
	ComplaintStatusInProgress,
	ComplaintStatusResolved,
	ComplaintStatusClosed,
}

// Priority complaint / quote request priority
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

var priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// QuoteRequestStatus quote request lifecycle state
type QuoteRequestStatus string

const (
	QuoteRequestStatusDraft     QuoteRequestStatus = "draft"
	QuoteRequestStatusOpen      QuoteRequestStatus = "open"
	QuoteRequestStatusPending   QuoteRequestStatus = "pending"
	QuoteRequestStatusFulfilled QuoteRequestStatus = "fulfilled"
	QuoteRequestStatusCancelled QuoteRequestStatus = "cancelled"
	QuoteRequestStatusClosed    QuoteRequestStatus = "closed"
)

var quoteRequestStatuses = []QuoteRequestStatus{
	QuoteRequestStatusDraft,
	QuoteRequestStatusOpen,
	QuoteRequestStatusPending,
	QuoteRequestStatusFulfilled,
	QuoteRequestStatusCancelled,
	QuoteRequestStatusClosed,
}

// QuoteResponseStatus vendor bid review state
type QuoteResponseStatus string

const (
	QuoteResponseStatusPendingReview QuoteResponseStatus = "pending_review"
	QuoteResponseStatusAccepted      QuoteResponseStatus = "accepted"
	QuoteResponseStatusRejected      QuoteResponseStatus = "rejected"
	QuoteResponseStatusNegotiating   QuoteResponseStatus = "negotiating"
)

var quoteResponseStatuses = []QuoteResponseStatus{
	QuoteResponseStatusPendingReview,
	QuoteResponseStatusAccepted,
	QuoteResponseStatusRejected,
	QuoteResponseStatusNegotiating,
}

// Role user role
type Role string

const (
	RoleEmployee         Role = "employee"
	RoleATS              Role = "ats"
	RoleAssistantManager Role = "assistant_manager"
	RoleManager          Role = "manager"
	RoleVendor           Role = "vendor"
	RoleAdmin            Role = "admin"
)

var roles = []Role{RoleEmployee, RoleATS, RoleAssistantManager, RoleManager, RoleVendor, RoleAdmin}

// closed string enums; the zero value is never valid.
type enum interface {
	~string
}

func contains[T enum](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func parse[T enum](set []T, kind, v string) (T, error) {
	if !contains(set, T(v)) {
		return "", fmt.Errorf("unknown %s %q", kind, v)
	}
	return T(v), nil
}

func value[T enum](set []T, kind string, v T) (driver.Value, error) {
	if !contains(set, v) {
		return nil, fmt.Errorf("refusing to store unknown %s %q", kind, string(v))
	}
	return string(v), nil
}

func scan[T enum](set []T, kind string, src interface{}, dst *T) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		return fmt.Errorf("%s cannot be null", kind)
	default:
		return fmt.Errorf("unsupported %s source type %T", kind, src)
	}
	parsed, err := parse(set, kind, raw)
	if err != nil {
		return err
	}
	*dst = parsed
	return nil
}

func ParseComplaintStatus(v string) (ComplaintStatus, error) {
	return parse(complaintStatuses, "complaint status", v)
}

func (s ComplaintStatus) Valid() bool { return contains(complaintStatuses, s) }

func (s ComplaintStatus) Value() (driver.Value, error) {
	return value(complaintStatuses, "complaint status", s)
}

func (s *ComplaintStatus) Scan(src interface{}) error {
	return scan(complaintStatuses, "complaint status", src, s)
}

func ParsePriority(v string) (Priority, error) {
	return parse(priorities, "priority", v)
}

func (p Priority) Valid() bool { return contains(priorities, p) }

func (p Priority) Value() (driver.Value, error) {
	return value(priorities, "priority", p)
}

func (p *Priority) Scan(src interface{}) error {
	return scan(priorities, "priority", src, p)
}

func ParseQuoteRequestStatus(v string) (QuoteRequestStatus, error) {
	return parse(quoteRequestStatuses, "quote request status", v)
}

func (s QuoteRequestStatus) Valid() bool { return contains(quoteRequestStatuses, s) }

// AcceptsBids reports whether vendors may still respond and responses may be reviewed.
func (s QuoteRequestStatus) AcceptsBids() bool {
	return s == QuoteRequestStatusOpen || s == QuoteRequestStatusPending
}

func (s QuoteRequestStatus) Value() (driver.Value, error) {
	return value(quoteRequestStatuses, "quote request status", s)
}

func (s *QuoteRequestStatus) Scan(src interface{}) error {
	return scan(quoteRequestStatuses, "quote request status", src, s)
}

func ParseQuoteResponseStatus(v string) (QuoteResponseStatus, error) {
	return parse(quoteResponseStatuses, "quote response status", v)
}

func (s QuoteResponseStatus) Valid() bool { return contains(quoteResponseStatuses, s) }

func (s QuoteResponseStatus) Value() (driver.Value, error) {
	return value(quoteResponseStatuses, "quote response status", s)
}

func (s *QuoteResponseStatus) Scan(src interface{}) error {
	return scan(quoteResponseStatuses, "quote response status", src, s)
}

func ParseRole(v string) (Role, error) {
	return parse(roles, "role", v)
}

func (r Role) Valid() bool { return contains(roles, r) }

func (r Role) Value() (driver.Value, error) {
	return value(roles, "role", r)
}

func (r *Role) Scan(src interface{}) error {
	return scan(roles, "role", src, r)
}
