package service

import (
	"github.com/bitfantasy/assetdesk/internal/desk/repository"
	"go.uber.org/zap"
)

// Services desk service set
type Services struct {
	Notification *NotificationService
	Complaint    *ComplaintService
	Quote        *QuoteService
	Linker       *Linker
}

// NewServices wires the services over one repository set. Optional
// collaborators (publisher, cache, image store, announcer) are attached
// afterwards with the Set* methods.
func NewServices(repos *repository.Repositories, logger *zap.Logger) *Services {
	if logger == nil {
		logger = zap.NewNop()
	}
	notifications := NewNotificationService(repos.Notification, repos.User, logger.Named("notification"))
	complaints := NewComplaintService(repos.Complaint, notifications, logger.Named("complaint"))
	linker := NewLinker(repos.Complaint, complaints, notifications, repos.Tx, logger.Named("linker"))
	quotes := NewQuoteService(repos.Quote, repos.Vendor, repos.Complaint, complaints, linker, notifications, repos.Tx, logger.Named("quote"))

	return &Services{
		Notification: notifications,
		Complaint:    complaints,
		Quote:        quotes,
		Linker:       linker,
	}
}
