package models

// EmployeeYearSummary is one row of the yearly employee listing.
// TotalDays is nil when the employee has no allotment for the year.
type EmployeeYearSummary struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	TotalDays *int   `json:"total_days"`
	Used      int    `json:"used"`
}

// Remaining returns the unused days, or nil without an allotment.
func (s *EmployeeYearSummary) Remaining() *int {
	if s.TotalDays == nil {
		return nil
	}
	left := *s.TotalDays - s.Used
	return &left
}

// LeaveDay lists who is on leave on one date of a period report.
type LeaveDay struct {
	Date  Date     `json:"date"`
	Names []string `json:"names"`
}

// YearStatus tells whether leave can be booked against a year.
type YearStatus string

const (
	YearUnopened YearStatus = "unopened"
	YearOpen     YearStatus = "open"
)
