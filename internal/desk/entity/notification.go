package entity

import "time"

// Notification in-app message delivered to one user
type Notification struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"user_id" gorm:"size:36;not null;index"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	Type      string    `json:"type" gorm:"size:50;not null"`
	RelatedID *string   `json:"related_id" gorm:"size:36"`
	Read      bool      `json:"read" gorm:"not null;default:false;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Notification types. The spelling is consumed by existing clients.
const (
	NotificationTypeComplaintRejection = "Complaint Rejection"
	NotificationTypeComplaintResolved  = "complaint_resolved"
	NotificationTypeComponentOrder     = "Component Order"
)

// AllModels returns every model for AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Employee{},
		&Vendor{},
		&Complaint{},
		&QuoteRequest{},
		&VendorSelection{},
		&QuoteResponse{},
		&Notification{},
	}
}
