package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"annual-leave/internal/models"
	"annual-leave/pkg/holidays"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// EmployeeRow is one display row of the yearly employee table. Empty strings stand
// for "no allotment" and "nothing used".
type EmployeeRow struct {
	ID        uint
	LastName  string
	FirstName string
	TotalDays string
	Used      string
	Remaining string
}

func (r EmployeeRow) cells() []string {
	return []string{strconv.FormatUint(uint64(r.ID), 10), r.LastName, r.FirstName, r.TotalDays, r.Used, r.Remaining}
}

// EmployeeTable is the yearly employee listing.
type EmployeeTable struct {
	Year   int
	Label  string
	Status models.YearStatus
	Rows   []EmployeeRow
}

// NeedsOpening tells the UI to offer opening the year.
func (t *EmployeeTable) NeedsOpening() bool {
	return t.Status == models.YearUnopened
}

// PeriodColumn is one day of the period report.
type PeriodColumn struct {
	Date    models.Date
	Header  string
	Holiday string
	Names   []string
}

// PeriodTable lays the period report out with one column per day. Rows are padded
// with empty cells up to the busiest day.
type PeriodTable struct {
	Columns []PeriodColumn
	Rows    [][]string
}

// ReportService shapes engine results for display.
type ReportService struct {
	accounting *AccountingService
	calendar   holidays.Calendar
	lang       language.Tag
}

func NewReportService(accounting *AccountingService, calendar holidays.Calendar) *ReportService {
	if calendar == nil {
		calendar = holidays.Calendar{}
	}
	return &ReportService{
		accounting: accounting,
		calendar:   calendar,
		lang:       language.Croatian,
	}
}

// EmployeeTable lists employees for year sorted by last and first name in Croatian
// collation order. A non-empty search keeps rows where any cell contains it, ignoring case.
func (s *ReportService) EmployeeTable(year int, search string) (*EmployeeTable, error) {
	summaries, err := s.accounting.ListEmployeesForYear(year)
	if err != nil {
		return nil, err
	}
	status, err := s.accounting.YearStatus(year)
	if err != nil {
		return nil, err
	}

	rows := make([]EmployeeRow, 0, len(summaries))
	for i := range summaries {
		rows = append(rows, employeeRow(&summaries[i]))
	}

	col := collate.New(s.lang)
	sort.SliceStable(rows, func(i, j int) bool {
		if c := col.CompareString(rows[i].LastName, rows[j].LastName); c != 0 {
			return c < 0
		}
		if c := col.CompareString(rows[i].FirstName, rows[j].FirstName); c != 0 {
			return c < 0
		}
		return rows[i].ID < rows[j].ID
	})

	if search = strings.TrimSpace(search); search != "" {
		rows = filterRows(rows, search)
	}

	return &EmployeeTable{
		Year:   year,
		Label:  models.YearLabel(year),
		Status: status,
		Rows:   rows,
	}, nil
}

func employeeRow(s *models.EmployeeYearSummary) EmployeeRow {
	row := EmployeeRow{ID: s.ID, LastName: s.LastName, FirstName: s.FirstName}
	if s.Used > 0 {
		row.Used = strconv.Itoa(s.Used)
	}
	if s.TotalDays != nil {
		row.TotalDays = strconv.Itoa(*s.TotalDays)
		row.Remaining = strconv.Itoa(*s.Remaining())
	}
	return row
}

func filterRows(rows []EmployeeRow, search string) []EmployeeRow {
	fold := cases.Fold()
	needle := fold.String(search)

	kept := rows[:0]
	for _, row := range rows {
		for _, cell := range row.cells() {
			if strings.Contains(fold.String(cell), needle) {
				kept = append(kept, row)
				break
			}
		}
	}
	return kept
}

// PeriodTable builds the day-per-column view of LeavePeriodReport.
func (s *ReportService) PeriodTable(start, end models.Date) (*PeriodTable, error) {
	days, err := s.accounting.LeavePeriodReport(start, end)
	if err != nil {
		return nil, err
	}

	table := &PeriodTable{Columns: make([]PeriodColumn, 0, len(days))}
	depth := 0
	for _, d := range days {
		holiday, _ := s.calendar.Lookup(d.Date.Time)
		table.Columns = append(table.Columns, PeriodColumn{
			Date:    d.Date,
			Header:  d.Date.Display(),
			Holiday: holiday,
			Names:   d.Names,
		})
		depth = max(depth, len(d.Names))
	}

	table.Rows = make([][]string, depth)
	for i := range table.Rows {
		row := make([]string, len(table.Columns))
		for c, column := range table.Columns {
			if i < len(column.Names) {
				row[c] = column.Names[i]
			}
		}
		table.Rows[i] = row
	}
	return table, nil
}

// WriteCSV writes one line per day: date, holiday, head count and the names joined
// with "; ".
func (t *PeriodTable) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "holiday", "count", "employees"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, c := range t.Columns {
		record := []string{c.Header, c.Holiday, strconv.Itoa(len(c.Names)), strings.Join(c.Names, "; ")}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
