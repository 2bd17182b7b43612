package entity

import "time"

// User login account; the role drives authorization
type User struct {
	ID        string     `json:"id" gorm:"primaryKey;size:36"`
	Email     string     `json:"email" gorm:"size:128;not null;uniqueIndex"`
	Role      Role       `json:"role" gorm:"size:32;not null;index"`
	IsActive  bool       `json:"is_active" gorm:"not null"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login"`
}

func (User) TableName() string {
	return "users"
}

// Employee staff member who raises complaints
type Employee struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	Name       string    `json:"name" gorm:"size:128;not null"`
	Email      string    `json:"email" gorm:"size:128;not null;uniqueIndex"`
	Department string    `json:"department" gorm:"size:128"`
	Role       string    `json:"role" gorm:"size:64"`
	Phone      string    `json:"phone" gorm:"size:32"`
	Location   string    `json:"location" gorm:"size:128"`
	DateJoined time.Time `json:"date_joined"`
}

func (Employee) TableName() string {
	return "employees"
}

// Vendor supplier that can bid on quote requests
type Vendor struct {
	ID            string `json:"id" gorm:"primaryKey;size:36"`
	Name          string `json:"name" gorm:"size:128;not null"`
	Email         string `json:"email" gorm:"size:128;not null;uniqueIndex"`
	Phone         string `json:"phone" gorm:"size:32"`
	Address       string `json:"address" gorm:"type:text"`
	ContactPerson string `json:"contact_person" gorm:"size:128"`
	ServiceType   string `json:"service_type" gorm:"size:64"`
}

func (Vendor) TableName() string {
	return "vendors"
}
