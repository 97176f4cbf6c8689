package models

import "time"

// LeaveEntry is one day of leave. Year is the accounting year the day is booked
// against, which may differ from the calendar year of Date.
type LeaveEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EmployeeID uint      `gorm:"not null;uniqueIndex:idx_leave_employee_date;index:idx_leave_employee_year" json:"employee_id"`
	Date       Date      `gorm:"not null;uniqueIndex:idx_leave_employee_date;index" json:"date"`
	Year       int       `gorm:"not null;index:idx_leave_employee_year" json:"year"`
	Note       *string   `json:"note,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Employee *Employee `gorm:"foreignKey:EmployeeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (LeaveEntry) TableName() string {
	return "leave_entries"
}

// NoteText returns the note or an empty string.
func (l *LeaveEntry) NoteText() string {
	if l.Note == nil {
		return ""
	}
	return *l.Note
}
