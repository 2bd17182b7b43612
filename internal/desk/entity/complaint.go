package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Complaint IT support ticket raised by an employee
type Complaint struct {
	ID                      string          `json:"id" gorm:"primaryKey;size:36"`
	EmployeeID              string          `json:"employee_id" gorm:"size:36;not null;index"`
	AssetID                 *string         `json:"asset_id" gorm:"size:36"`
	Title                   string          `json:"title" gorm:"size:255;not null;index"`
	Description             string          `json:"description" gorm:"type:text;not null"`
	Priority                Priority        `json:"priority" gorm:"size:20;not null"`
	Status                  ComplaintStatus `json:"status" gorm:"size:50;not null;index"`
	ComponentPurchaseReason string          `json:"component_purchase_reason" gorm:"type:text"`
	ResolutionNotes         string          `json:"resolution_notes" gorm:"type:text"`
	AssignedTo              *string         `json:"assigned_to" gorm:"size:36"`
	Images                  StringList      `json:"images" gorm:"type:text"`
	DateSubmitted           time.Time       `json:"date_submitted" gorm:"not null;index"`
	LastUpdated             time.Time       `json:"last_updated" gorm:"not null"`
	ResolutionDate          *time.Time      `json:"resolution_date"`

	Employee *Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
}

func (Complaint) TableName() string {
	return "complaints"
}

// HasComponentReason reports whether the complaint asks for a component purchase.
func (c *Complaint) HasComponentReason() bool {
	return c.ComponentPurchaseReason != ""
}

// StringList JSON-encoded list of strings stored in a text column
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported string list source type %T", src)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(l))
}
