package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccountingYearFor(t *testing.T) {
	tests := []struct {
		at   time.Time
		want int
	}{
		{time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), 2023},
		{time.Date(2024, time.June, 30, 23, 59, 0, 0, time.UTC), 2023},
		{time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), 2024},
		{time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), 2024},
	}
	for _, tt := range tests {
		t.Run(tt.at.Format(DateLayout), func(t *testing.T) {
			assert.Equal(t, tt.want, AccountingYearFor(tt.at))
		})
	}
}

func TestAccountingYearRange(t *testing.T) {
	start, end := AccountingYearRange(2024)
	assert.Equal(t, NewDate(2024, time.July, 1), start)
	assert.Equal(t, NewDate(2025, time.June, 30), end)

	assert.True(t, InAccountingYear(NewDate(2025, time.March, 3), 2024))
	assert.False(t, InAccountingYear(NewDate(2024, time.June, 30), 2024))
	assert.False(t, InAccountingYear(NewDate(2025, time.July, 1), 2024))
}

func TestYearLabel(t *testing.T) {
	assert.Equal(t, "2024/2025", YearLabel(2024))
}

func TestEmployeeYearSummaryRemaining(t *testing.T) {
	total := 20
	s := EmployeeYearSummary{TotalDays: &total, Used: 5}
	if assert.NotNil(t, s.Remaining()) {
		assert.Equal(t, 15, *s.Remaining())
	}

	assert.Nil(t, (&EmployeeYearSummary{}).Remaining())
}

func TestEmployeeFullName(t *testing.T) {
	e := Employee{FirstName: "Ana", LastName: "Babić"}
	assert.Equal(t, "Babić Ana", e.FullName())
	assert.True(t, e.IsValid())
	assert.False(t, (&Employee{FirstName: "Ana"}).IsValid())
}
