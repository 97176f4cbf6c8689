package repository

import (
	"errors"
	"io"
	"testing"
	"time"

	"annual-leave/internal/apperr"
	"annual-leave/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db, err := Open(MemoryPath, logger)
	require.NoError(t, err)

	store, err := NewStore(db, logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func addEmployee(t *testing.T, s *Store, first, last string) *models.Employee {
	t.Helper()
	e := &models.Employee{FirstName: first, LastName: last}
	require.NoError(t, s.Employees.Create(e))
	require.NotZero(t, e.ID)
	return e
}

func addAllotment(t *testing.T, s *Store, employeeID uint, year, days int) {
	t.Helper()
	require.NoError(t, s.Allotments.Create(&models.YearlyAllotment{EmployeeID: employeeID, Year: year, TotalDays: days}))
}

func addLeave(t *testing.T, s *Store, employeeID uint, date models.Date, year int) *models.LeaveEntry {
	t.Helper()
	entry := &models.LeaveEntry{EmployeeID: employeeID, Date: date, Year: year}
	ok, err := s.LeaveEntries.CreateWithinAllotment(entry)
	require.NoError(t, err)
	require.True(t, ok)
	return entry
}

func TestCreateSchemaIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, CreateSchema(s.DB()))
	require.NoError(t, CreateSchema(s.DB()))

	for _, table := range []string{"employees", "yearly_allotments", "leave_entries"} {
		assert.True(t, s.DB().Migrator().HasTable(table), table)
	}
}

func TestDeleteEmployeeCascades(t *testing.T) {
	s := newTestStore(t)
	ana := addEmployee(t, s, "Ana", "Babić")
	ivo := addEmployee(t, s, "Ivo", "Horvat")
	addAllotment(t, s, ana.ID, 2024, 20)
	addAllotment(t, s, ivo.ID, 2024, 20)
	addLeave(t, s, ana.ID, models.NewDate(2024, time.July, 1), 2024)
	addLeave(t, s, ivo.ID, models.NewDate(2024, time.July, 1), 2024)

	require.NoError(t, s.Employees.Delete(ana.ID))

	entries, err := s.LeaveEntries.GetByEmployeeID(ana.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	allotments, err := s.Allotments.GetByEmployeeID(ana.ID)
	require.NoError(t, err)
	assert.Empty(t, allotments)

	// Other employees are untouched.
	entries, err = s.LeaveEntries.GetByEmployeeID(ivo.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	err = s.Employees.Delete(ana.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestAllotmentUniquePerEmployeeYear(t *testing.T) {
	s := newTestStore(t)
	ana := addEmployee(t, s, "Ana", "Babić")
	addAllotment(t, s, ana.ID, 2024, 20)

	err := s.Allotments.Create(&models.YearlyAllotment{EmployeeID: ana.ID, Year: 2024, TotalDays: 25})
	assert.True(t, errors.Is(err, apperr.ErrConstraintViolation), "got %v", err)
}

func TestForeignKeyViolation(t *testing.T) {
	s := newTestStore(t)

	err := s.Allotments.Create(&models.YearlyAllotment{EmployeeID: 999, Year: 2024, TotalDays: 20})
	assert.True(t, errors.Is(err, apperr.ErrConstraintViolation), "got %v", err)
}

func TestCarryForward(t *testing.T) {
	s := newTestStore(t)
	ana := addEmployee(t, s, "Ana", "Babić")
	ivo := addEmployee(t, s, "Ivo", "Horvat")
	addAllotment(t, s, ana.ID, 2024, 20)
	addAllotment(t, s, ivo.ID, 2024, 26)

	n, err := s.Allotments.CarryForward(2024, 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	a, err := s.Allotments.GetByEmployeeAndYear(ivo.ID, 2025)
	require.NoError(t, err)
	assert.Equal(t, 26, a.TotalDays)

	// A second copy hits the unique index and inserts nothing.
	_, err = s.Allotments.CarryForward(2024, 2025)
	assert.True(t, errors.Is(err, apperr.ErrConstraintViolation), "got %v", err)

	count, err := s.Allotments.CountByYear(2025)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestOpenYearsFrom(t *testing.T) {
	s := newTestStore(t)
	ana := addEmployee(t, s, "Ana", "Babić")
	ivo := addEmployee(t, s, "Ivo", "Horvat")
	addAllotment(t, s, ana.ID, 2022, 20)
	addAllotment(t, s, ana.ID, 2023, 20)
	addAllotment(t, s, ivo.ID, 2023, 20)
	addAllotment(t, s, ana.ID, 2024, 20)

	years, err := s.Allotments.OpenYearsFrom(2023)
	require.NoError(t, err)
	assert.Equal(t, []int{2023, 2024}, years)
}

func TestCountAll(t *testing.T) {
	s := newTestStore(t)

	count, err := s.Allotments.CountAll()
	require.NoError(t, err)
	assert.Zero(t, count)

	ana := addEmployee(t, s, "Ana", "Babić")
	addAllotment(t, s, ana.ID, 2022, 20)
	addAllotment(t, s, ana.ID, 2023, 20)

	count, err = s.Allotments.CountAll()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestUpdateTotalDaysMissingAllotment(t *testing.T) {
	s := newTestStore(t)
	ana := addEmployee(t, s, "Ana", "Babić")

	err := s.Allotments.UpdateTotalDays(ana.ID, 2024, 10)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestCreateWithinAllotment(t *testing.T) {
	s := newTestStore(t)
	ana := addEmployee(t, s, "Ana", "Babić")
	addAllotment(t, s, ana.ID, 2024, 2)

	first := addLeave(t, s, ana.ID, models.NewDate(2024, time.July, 1), 2024)
	assert.NotZero(t, first.ID)
	assert.Equal(t, models.NewDate(2024, time.July, 1), first.Date)
	addLeave(t, s, ana.ID, models.NewDate(2024, time.July, 2), 2024)

	ok, err := s.LeaveEntries.CreateWithinAllotment(&models.LeaveEntry{
		EmployeeID: ana.ID, Date: models.NewDate(2024, time.July, 3), Year: 2024,
	})
	require.NoError(t, err)
	assert.False(t, ok, "allotment is used up")

	ok, err = s.LeaveEntries.CreateWithinAllotment(&models.LeaveEntry{
		EmployeeID: ana.ID, Date: models.NewDate(2025, time.July, 3), Year: 2025,
	})
	require.NoError(t, err)
	assert.False(t, ok, "no allotment for 2025")

	count, err := s.LeaveEntries.CountByEmployeeAndYear(ana.ID, 2024)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestCreateWithinAllotmentDuplicateDate(t *testing.T) {
	s := newTestStore(t)
	ana := addEmployee(t, s, "Ana", "Babić")
	addAllotment(t, s, ana.ID, 2024, 20)
	addLeave(t, s, ana.ID, models.NewDate(2024, time.July, 1), 2024)

	_, err := s.LeaveEntries.CreateWithinAllotment(&models.LeaveEntry{
		EmployeeID: ana.ID, Date: models.NewDate(2024, time.July, 1), Year: 2024,
	})
	var dup *apperr.DuplicateDateError
	require.True(t, errors.As(err, &dup), "got %v", err)
	assert.Equal(t, "2024-07-01", dup.Date)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestLeaveEntryUpdates(t *testing.T) {
	s := newTestStore(t)
	ana := addEmployee(t, s, "Ana", "Babić")
	addAllotment(t, s, ana.ID, 2024, 20)
	first := addLeave(t, s, ana.ID, models.NewDate(2024, time.July, 1), 2024)
	second := addLeave(t, s, ana.ID, models.NewDate(2024, time.July, 2), 2024)

	err := s.LeaveEntries.UpdateDate(second.ID, models.NewDate(2024, time.July, 1))
	var dup *apperr.DuplicateDateError
	require.True(t, errors.As(err, &dup), "got %v", err)

	require.NoError(t, s.LeaveEntries.UpdateDate(second.ID, models.NewDate(2024, time.August, 5)))
	note := "more sun"
	require.NoError(t, s.LeaveEntries.UpdateNote(first.ID, &note))

	got, err := s.LeaveEntries.GetByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "more sun", got.NoteText())

	exists, err := s.LeaveEntries.ExistsOnDate(ana.ID, models.NewDate(2024, time.August, 5), 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.LeaveEntries.ExistsOnDate(ana.ID, models.NewDate(2024, time.August, 5), second.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.LeaveEntries.Delete(first.ID))
	_, err = s.LeaveEntries.GetByID(first.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.True(t, errors.Is(s.LeaveEntries.Delete(first.ID), apperr.ErrNotFound))
}

func TestListYearSummaries(t *testing.T) {
	s := newTestStore(t)
	ana := addEmployee(t, s, "Ana", "Babić")
	ivo := addEmployee(t, s, "Ivo", "Horvat")
	addAllotment(t, s, ana.ID, 2024, 20)
	addLeave(t, s, ana.ID, models.NewDate(2024, time.July, 1), 2024)
	addLeave(t, s, ana.ID, models.NewDate(2025, time.January, 2), 2024)

	rows, err := s.Employees.ListYearSummaries(2024)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, ana.ID, rows[0].ID)
	require.NotNil(t, rows[0].TotalDays)
	assert.Equal(t, 20, *rows[0].TotalDays)
	assert.Equal(t, 2, rows[0].Used)

	assert.Equal(t, ivo.ID, rows[1].ID)
	assert.Nil(t, rows[1].TotalDays)
	assert.Equal(t, 0, rows[1].Used)
}

func TestListInRange(t *testing.T) {
	s := newTestStore(t)
	ana := addEmployee(t, s, "Ana", "Babić")
	ivo := addEmployee(t, s, "Ivo", "Horvat")
	addAllotment(t, s, ana.ID, 2023, 20)
	addAllotment(t, s, ana.ID, 2024, 20)
	addAllotment(t, s, ivo.ID, 2024, 20)
	addLeave(t, s, ana.ID, models.NewDate(2024, time.June, 30), 2023)
	addLeave(t, s, ivo.ID, models.NewDate(2024, time.July, 1), 2024)
	addLeave(t, s, ana.ID, models.NewDate(2024, time.July, 1), 2024)
	addLeave(t, s, ana.ID, models.NewDate(2024, time.July, 10), 2024)

	rows, err := s.LeaveEntries.ListInRange(models.NewDate(2024, time.June, 30), models.NewDate(2024, time.July, 1))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, models.NewDate(2024, time.June, 30), rows[0].Date)
	assert.Equal(t, "Babić", rows[0].LastName)
	assert.Equal(t, models.NewDate(2024, time.July, 1), rows[1].Date)
	assert.Equal(t, "Babić", rows[1].LastName)
	assert.Equal(t, "Horvat", rows[2].LastName)
}

func TestTransactionRollsBack(t *testing.T) {
	s := newTestStore(t)
	boom := errors.New("boom")

	err := s.Transaction(func(tx *Store) error {
		if err := tx.Employees.Create(&models.Employee{FirstName: "Ana", LastName: "Babić"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	employees, err := s.Employees.GetAll()
	require.NoError(t, err)
	assert.Empty(t, employees)
}
