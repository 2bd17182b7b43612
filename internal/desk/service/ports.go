package service

import (
	"context"
	"time"

	"github.com/bitfantasy/assetdesk/internal/desk/entity"
	"github.com/bitfantasy/assetdesk/internal/desk/repository"
)

// ComplaintStore persists complaints.
type ComplaintStore interface {
	FindByID(ctx context.Context, id string) (*entity.Complaint, error)
	List(ctx context.Context, page, pageSize int, f repository.ComplaintFilter) ([]entity.Complaint, int64, error)
	ListWithComponentReason(ctx context.Context) ([]entity.Complaint, error)
	Save(ctx context.Context, c *entity.Complaint) error
}

// QuoteStore persists quote requests, selections and responses.
type QuoteStore interface {
	FindRequest(ctx context.Context, id string) (*entity.QuoteRequest, error)
	ListRequests(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.QuoteRequest, int64, error)
	CreateRequest(ctx context.Context, qr *entity.QuoteRequest) error
	SaveRequest(ctx context.Context, qr *entity.QuoteRequest) error
	TransitionRequest(ctx context.Context, id string, from []entity.QuoteRequestStatus, to entity.QuoteRequestStatus) error
	FulfilRequest(ctx context.Context, id string, version int, completedAt time.Time) error
	DeleteRequest(ctx context.Context, id string) error

	FindSelection(ctx context.Context, requestID, vendorID string) (*entity.VendorSelection, error)
	FindSelectionByID(ctx context.Context, id string) (*entity.VendorSelection, error)
	CreateSelection(ctx context.Context, sel *entity.VendorSelection) (*entity.VendorSelection, error)
	MarkResponded(ctx context.Context, requestID, vendorID string) error
	DeleteSelection(ctx context.Context, id string) error

	FindResponse(ctx context.Context, requestID, vendorID string) (*entity.QuoteResponse, error)
	FindResponseByID(ctx context.Context, id string) (*entity.QuoteResponse, error)
	CreateResponse(ctx context.Context, resp *entity.QuoteResponse) error
	SaveResponse(ctx context.Context, resp *entity.QuoteResponse) error
	ListResponses(ctx context.Context, requestID string) ([]entity.QuoteResponse, error)
	ListResponsesByVendor(ctx context.Context, vendorID string) ([]entity.QuoteResponse, error)
	CountAccepted(ctx context.Context, requestID string) (int64, error)
}

// UserDirectory resolves login accounts.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	ListByRole(ctx context.Context, role entity.Role) ([]entity.User, error)
}

// VendorDirectory resolves vendors.
type VendorDirectory interface {
	FindByID(ctx context.Context, id string) (*entity.Vendor, error)
	FindByEmail(ctx context.Context, email string) (*entity.Vendor, error)
}

// NotificationStore persists notifications.
type NotificationStore interface {
	Create(ctx context.Context, n *entity.Notification) error
	FindByID(ctx context.Context, id string) (*entity.Notification, error)
	ListForUser(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) ([]entity.Notification, int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

// Transactor runs fn in a transaction; nested calls become savepoints.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Publisher pushes a stored notification to connected clients.
type Publisher interface {
	PublishNotification(n *entity.Notification)
}

// UnreadCounter caches per-user unread counts.
type UnreadCounter interface {
	Get(ctx context.Context, userID string) (count int64, ok bool, err error)
	Set(ctx context.Context, userID string, count int64) error
	Invalidate(ctx context.Context, userID string) error
}

// ImageStore keeps complaint attachments.
type ImageStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (url string, err error)
}

// Announcer posts an accepted quote to the team channel.
type Announcer interface {
	AnnounceAcceptance(ctx context.Context, a Acceptance) error
}

// Acceptance summary of an accepted quote.
type Acceptance struct {
	RequestID    string
	RequestTitle string
	VendorName   string
	Amount       float64
	ReviewerID   string
	ComplaintID  string
	Deadline     string
}
