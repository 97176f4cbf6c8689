package models

import "time"

type Employee struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"not null" json:"first_name"`
	LastName  string    `gorm:"not null" json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (Employee) TableName() string {
	return "employees"
}

// FullName returns "LastName FirstName", the order used in listings and reports.
func (e *Employee) FullName() string {
	return e.LastName + " " + e.FirstName
}

// IsValid reports whether the required fields are set.
func (e *Employee) IsValid() bool {
	return e.FirstName != "" && e.LastName != ""
}
