package entity

import "time"

// QuoteRequest request for vendor bids
type QuoteRequest struct {
	ID           string             `json:"id" gorm:"primaryKey;size:36"`
	Title        string             `json:"title" gorm:"size:255;not null;index"`
	Description  string             `json:"description" gorm:"type:text;not null"`
	Requirements string             `json:"requirements" gorm:"type:text"`
	Budget       *float64           `json:"budget" gorm:"type:decimal(15,2)"`
	Priority     Priority           `json:"priority" gorm:"size:20;not null"`
	Status       QuoteRequestStatus `json:"status" gorm:"size:20;not null;index"`
	CreatedByID  string             `json:"created_by_id" gorm:"size:36;not null;index"`

	// set when the request was raised from a complaint
	SourceComplaintID *string `json:"source_complaint_id" gorm:"size:36;index"`

	// optimistic lock for status transitions
	Version int `json:"version" gorm:"not null"`

	CreatedAt     time.Time  `json:"created_at"`
	DueDate       *time.Time `json:"due_date"`
	CompletedDate *time.Time `json:"completed_date"`

	VendorSelections []VendorSelection `json:"vendors,omitempty" gorm:"foreignKey:QuoteRequestID"`
	Responses        []QuoteResponse   `json:"responses,omitempty" gorm:"foreignKey:QuoteRequestID"`
}

func (QuoteRequest) TableName() string {
	return "quote_requests"
}

// Deletable reports whether the request may be removed.
func (q *QuoteRequest) Deletable() bool {
	switch q.Status {
	case QuoteRequestStatusDraft, QuoteRequestStatusOpen, QuoteRequestStatusCancelled:
		return true
	}
	return false
}

// VendorSelection vendor invited to bid on a quote request
type VendorSelection struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	QuoteRequestID string    `json:"quote_request_id" gorm:"size:36;not null;uniqueIndex:uq_quote_request_vendor"`
	VendorID       string    `json:"vendor_id" gorm:"size:36;not null;uniqueIndex:uq_quote_request_vendor"`
	SentDate       time.Time `json:"sent_date"`
	HasResponded   bool      `json:"has_responded" gorm:"not null;default:false"`

	Vendor *Vendor `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
}

func (VendorSelection) TableName() string {
	return "quote_request_vendors"
}

// QuoteResponse vendor bid
type QuoteResponse struct {
	ID               string              `json:"id" gorm:"primaryKey;size:36"`
	QuoteRequestID   string              `json:"quote_request_id" gorm:"size:36;not null;uniqueIndex:uq_quote_response_vendor"`
	VendorID         string              `json:"vendor_id" gorm:"size:36;not null;uniqueIndex:uq_quote_response_vendor"`
	QuoteAmount      float64             `json:"quote_amount" gorm:"type:decimal(15,2);not null"`
	Description      string              `json:"description" gorm:"type:text;not null"`
	DeliveryTimeline string              `json:"delivery_timeline" gorm:"size:255"`
	Status           QuoteResponseStatus `json:"status" gorm:"size:20;not null;index"`
	SubmittedAt      time.Time           `json:"submitted_at"`
	ReviewedAt       *time.Time          `json:"reviewed_at"`
	ReviewedByID     *string             `json:"reviewed_by_id" gorm:"size:36"`
	Notes            string              `json:"notes" gorm:"type:text"`

	Vendor       *Vendor       `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
	QuoteRequest *QuoteRequest `json:"quote_request,omitempty" gorm:"foreignKey:QuoteRequestID"`
}

func (QuoteResponse) TableName() string {
	return "quote_responses"
}
