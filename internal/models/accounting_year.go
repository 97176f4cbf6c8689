package models

import (
	"strconv"
	"time"
)

// FirstMonth is the month an accounting year starts in. Leave years run July to June.
const FirstMonth = time.July

// AccountingYearFor returns the accounting year containing t: the calendar year from
// July on, the previous one before that.
func AccountingYearFor(t time.Time) int {
	if t.Month() >= FirstMonth {
		return t.Year()
	}
	return t.Year() - 1
}

// AccountingYearRange returns the first and last day of an accounting year.
func AccountingYearRange(year int) (Date, Date) {
	start := NewDate(year, FirstMonth, 1)
	return start, NewDate(year+1, FirstMonth, 1).AddDays(-1)
}

// InAccountingYear reports whether d falls inside the given accounting year.
func InAccountingYear(d Date, year int) bool {
	start, end := AccountingYearRange(year)
	return !d.Before(start) && !d.After(end)
}

// YearLabel formats an accounting year the way it is shown to users, e.g. "2024/2025".
func YearLabel(year int) string {
	return strconv.Itoa(year) + "/" + strconv.Itoa(year+1)
}
