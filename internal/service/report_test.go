package service

import (
	"bytes"
	"testing"
	"time"

	"annual-leave/internal/apperr"
	"annual-leave/internal/models"
	"annual-leave/pkg/holidays"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReports(t *testing.T) (*ReportService, *AccountingService) {
	t.Helper()
	svc, _ := newTestService(t)
	cal := holidays.Calendar{
		"2024-12-25": "Christmas",
		"2024-12-26": "St. Stephen's Day",
	}
	return NewReportService(svc, cal), svc
}

func lastNames(rows []EmployeeRow) []string {
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.LastName)
	}
	return names
}

func TestEmployeeTableCollationOrder(t *testing.T) {
	reports, svc := newTestReports(t)

	for _, name := range [][2]string{
		{"Marko", "Čolić"},
		{"Ivo", "Horvat"},
		{"Luka", "Cvitan"},
		{"Ana", "Babić"},
	} {
		_, err := svc.AddEmployee(name[0], name[1], 20)
		require.NoError(t, err)
	}

	table, err := reports.EmployeeTable(2024, "")
	require.NoError(t, err)
	assert.Equal(t, "2024/2025", table.Label)
	assert.False(t, table.NeedsOpening())
	assert.Equal(t, []string{"Babić", "Cvitan", "Čolić", "Horvat"}, lastNames(table.Rows))
}

func TestEmployeeTableCells(t *testing.T) {
	reports, svc := newTestReports(t)

	ana, err := svc.AddEmployee("Ana", "Babić", 20)
	require.NoError(t, err)
	_, err = svc.AddEmployee("Ivo", "Horvat", 25)
	require.NoError(t, err)
	_, err = svc.AddLeaveEntry(ana.ID, day(2024, time.July, 1), 2024, "")
	require.NoError(t, err)

	table, err := reports.EmployeeTable(2024, "")
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, "20", table.Rows[0].TotalDays)
	assert.Equal(t, "1", table.Rows[0].Used)
	assert.Equal(t, "19", table.Rows[0].Remaining)

	// Zero usage is left blank.
	assert.Equal(t, "25", table.Rows[1].TotalDays)
	assert.Equal(t, "", table.Rows[1].Used)
	assert.Equal(t, "25", table.Rows[1].Remaining)

	unopened, err := reports.EmployeeTable(2026, "")
	require.NoError(t, err)
	assert.True(t, unopened.NeedsOpening())
	require.Len(t, unopened.Rows, 2)
	assert.Equal(t, "", unopened.Rows[0].TotalDays)
	assert.Equal(t, "", unopened.Rows[0].Remaining)
}

func TestEmployeeTableSearch(t *testing.T) {
	reports, svc := newTestReports(t)

	_, err := svc.AddEmployee("Ana", "Babić", 20)
	require.NoError(t, err)
	_, err = svc.AddEmployee("Ivo", "Horvat", 25)
	require.NoError(t, err)

	table, err := reports.EmployeeTable(2024, "BABIĆ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Babić"}, lastNames(table.Rows))

	table, err = reports.EmployeeTable(2024, "25")
	require.NoError(t, err)
	assert.Equal(t, []string{"Horvat"}, lastNames(table.Rows))

	table, err = reports.EmployeeTable(2024, "nobody")
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
}

func TestPeriodTable(t *testing.T) {
	reports, svc := newTestReports(t)

	ana, err := svc.AddEmployee("Ana", "Babić", 20)
	require.NoError(t, err)
	ivo, err := svc.AddEmployee("Ivo", "Horvat", 20)
	require.NoError(t, err)

	_, err = svc.AddLeaveEntry(ana.ID, day(2024, time.December, 24), 2024, "")
	require.NoError(t, err)
	_, err = svc.AddLeaveEntry(ivo.ID, day(2024, time.December, 24), 2024, "")
	require.NoError(t, err)
	_, err = svc.AddLeaveEntry(ana.ID, day(2024, time.December, 26), 2024, "")
	require.NoError(t, err)

	table, err := reports.PeriodTable(day(2024, time.December, 24), day(2024, time.December, 26))
	require.NoError(t, err)

	require.Len(t, table.Columns, 3)
	assert.Equal(t, "24.12.2024", table.Columns[0].Header)
	assert.Equal(t, "", table.Columns[0].Holiday)
	assert.Equal(t, "Christmas", table.Columns[1].Holiday)

	assert.Equal(t, [][]string{
		{"Babić Ana", "", "Babić Ana"},
		{"Horvat Ivo", "", ""},
	}, table.Rows)

	var buf bytes.Buffer
	require.NoError(t, table.WriteCSV(&buf))

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, "period_report", buf.Bytes())
}

func TestPeriodTableEmptyAndInvalid(t *testing.T) {
	reports, _ := newTestReports(t)

	table, err := reports.PeriodTable(day(2024, time.July, 1), day(2024, time.July, 2))
	require.NoError(t, err)
	assert.Len(t, table.Columns, 2)
	assert.Empty(t, table.Rows)

	_, err = reports.PeriodTable(day(2024, time.July, 2), day(2024, time.July, 1))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestNewReportServiceWithoutCalendar(t *testing.T) {
	svc, _ := newTestService(t)
	reports := NewReportService(svc, nil)

	table, err := reports.PeriodTable(models.NewDate(2024, time.December, 25), models.NewDate(2024, time.December, 25))
	require.NoError(t, err)
	assert.Equal(t, "", table.Columns[0].Holiday)
}
