package models

import "time"

// YearlyAllotment is the number of leave days an employee may take in one accounting year.
type YearlyAllotment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EmployeeID uint      `gorm:"not null;uniqueIndex:idx_allotment_employee_year" json:"employee_id"`
	Year       int       `gorm:"not null;uniqueIndex:idx_allotment_employee_year;index" json:"year"`
	TotalDays  int       `gorm:"not null" json:"total_days"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Employee *Employee `gorm:"foreignKey:EmployeeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (YearlyAllotment) TableName() string {
	return "yearly_allotments"
}

// IsValid reports whether the required fields are set.
func (a *YearlyAllotment) IsValid() bool {
	return a.EmployeeID != 0 && a.Year > 0 && a.TotalDays >= 0
}
