package service

import (
	"errors"
	"time"

	"annual-leave/internal/apperr"
	"annual-leave/internal/models"
	"annual-leave/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// AccountingService owns the leave-year rules: employees, yearly allotments, leave
// entries and year rollover. It is the only writer to the store.
type AccountingService struct {
	store    *repository.Store
	validate *validator.Validate
	logger   *logrus.Logger
	now      func() time.Time
}

// Option configures an AccountingService.
type Option func(*AccountingService)

// WithClock replaces time.Now, which decides the current accounting year.
func WithClock(now func() time.Time) Option {
	return func(s *AccountingService) { s.now = now }
}

// WithLogger sets the logger used for state changes.
func WithLogger(logger *logrus.Logger) Option {
	return func(s *AccountingService) { s.logger = logger }
}

func NewAccountingService(store *repository.Store, opts ...Option) *AccountingService {
	s := &AccountingService{
		store:    store,
		validate: validator.New(),
		logger:   logrus.StandardLogger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CurrentAccountingYear returns the accounting year containing today.
func (s *AccountingService) CurrentAccountingYear() int {
	return models.AccountingYearFor(s.now())
}

// AddEmployee creates an employee and enrolls them, with totalDays each, into every
// year already open at or after the current accounting year. On a database without
// any allotment the current accounting year is opened for them; otherwise an employee
// added while only past years are open gets no allotment until the next OpenYear.
// All rows commit together.
func (s *AccountingService) AddEmployee(firstName, lastName string, totalDays int) (*models.Employee, error) {
	const op = "AddEmployee"

	in := EmployeeInput{FirstName: normalizeName(firstName), LastName: normalizeName(lastName), TotalDays: totalDays}
	if err := validateStruct(s.validate, op, in); err != nil {
		return nil, err
	}

	current := s.CurrentAccountingYear()
	employee := &models.Employee{FirstName: in.FirstName, LastName: in.LastName}
	var years []int

	err := s.store.Transaction(func(tx *repository.Store) error {
		var err error
		years, err = tx.Allotments.OpenYearsFrom(current)
		if err != nil {
			return err
		}
		if len(years) == 0 {
			total, err := tx.Allotments.CountAll()
			if err != nil {
				return err
			}
			if total == 0 {
				years = []int{current}
			}
		}

		if err := tx.Employees.Create(employee); err != nil {
			return err
		}

		allotments := make([]models.YearlyAllotment, 0, len(years))
		for _, year := range years {
			allotments = append(allotments, models.YearlyAllotment{
				EmployeeID: employee.ID,
				Year:       year,
				TotalDays:  in.TotalDays,
			})
		}
		return tx.Allotments.BulkCreate(allotments)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"id":         employee.ID,
		"name":       employee.FullName(),
		"total_days": in.TotalDays,
		"years":      years,
	}).Info("Employee added")
	return employee, nil
}

// GetEmployee returns one employee.
func (s *AccountingService) GetEmployee(id uint) (*models.Employee, error) {
	return s.store.Employees.GetByID(id)
}

// UpdateEmployee changes the names and the allotment for year, touching only what
// differs. Lowering the allotment below the days already taken is rejected.
func (s *AccountingService) UpdateEmployee(id uint, firstName, lastName string, totalDays, year int) (*models.Employee, error) {
	const op = "UpdateEmployee"

	in := EmployeeInput{FirstName: normalizeName(firstName), LastName: normalizeName(lastName), TotalDays: totalDays}
	if err := validateStruct(s.validate, op, in); err != nil {
		return nil, err
	}

	var employee *models.Employee
	err := s.store.Transaction(func(tx *repository.Store) error {
		var err error
		employee, err = tx.Employees.GetByID(id)
		if err != nil {
			return err
		}

		if employee.FirstName != in.FirstName || employee.LastName != in.LastName {
			if err := tx.Employees.UpdateNames(id, in.FirstName, in.LastName); err != nil {
				return err
			}
			employee.FirstName, employee.LastName = in.FirstName, in.LastName
		}

		allotment, err := tx.Allotments.GetByEmployeeAndYear(id, year)
		if err != nil {
			if apperr.IsNotFound(err) {
				return apperr.New(apperr.ErrNotFound, op, "employee %d has no allotment for %d", id, year)
			}
			return err
		}
		if allotment.TotalDays == in.TotalDays {
			return nil
		}

		used, err := tx.LeaveEntries.CountByEmployeeAndYear(id, year)
		if err != nil {
			return err
		}
		if int64(in.TotalDays) < used {
			return apperr.New(apperr.ErrValidation, op,
				"allotment of %d days is below the %d days already taken in %d", in.TotalDays, used, year)
		}
		return tx.Allotments.UpdateTotalDays(id, year, in.TotalDays)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"id": id, "year": year}).Info("Employee updated")
	return employee, nil
}

// DeleteEmployee removes an employee together with all allotments and leave entries.
// Asking the user for confirmation is the caller's job.
func (s *AccountingService) DeleteEmployee(id uint) error {
	if err := s.store.Employees.Delete(id); err != nil {
		return err
	}
	s.logger.WithField("id", id).Info("Employee deleted")
	return nil
}

// OpenYear rolls allotments from year-1 into year, carrying every day count forward.
// It rejects a year that is already open and requires year-1 to be open.
func (s *AccountingService) OpenYear(year int) (int64, error) {
	const op = "OpenYear"

	if err := validateStruct(s.validate, op, YearInput{Year: year}); err != nil {
		return 0, err
	}

	var created int64
	err := s.store.Transaction(func(tx *repository.Store) error {
		existing, err := tx.Allotments.CountByYear(year)
		if err != nil {
			return err
		}
		if existing > 0 {
			return apperr.New(apperr.ErrAlreadyOpen, op, "year %d is already open", year)
		}

		previous, err := tx.Allotments.CountByYear(year - 1)
		if err != nil {
			return err
		}
		if previous == 0 {
			return apperr.New(apperr.ErrPrecedingYearNotOpen, op, "year %d is not open", year-1)
		}

		created, err = tx.Allotments.CarryForward(year-1, year)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{"year": year, "allotments": created}).Info("Year opened")
	return created, nil
}

// YearStatus reports whether any allotment exists for year.
func (s *AccountingService) YearStatus(year int) (models.YearStatus, error) {
	count, err := s.store.Allotments.CountByYear(year)
	if err != nil {
		return "", err
	}
	if count == 0 {
		return models.YearUnopened, nil
	}
	return models.YearOpen, nil
}

// ListEmployeesForYear returns every employee with their allotment for year (nil when
// they have none) and the number of leave days booked against it.
func (s *AccountingService) ListEmployeesForYear(year int) ([]models.EmployeeYearSummary, error) {
	return s.store.Employees.ListYearSummaries(year)
}

// AddLeaveEntry books one day of leave against year. The day must fall inside that
// accounting year, must not already be booked for the employee, and the employee
// must have allotment left.
func (s *AccountingService) AddLeaveEntry(employeeID uint, date models.Date, year int, note string) (*models.LeaveEntry, error) {
	const op = "AddLeaveEntry"

	if date.IsZero() {
		return nil, apperr.New(apperr.ErrValidation, op, "date is required")
	}
	if !models.InAccountingYear(date, year) {
		return nil, apperr.New(apperr.ErrValidation, op, "%s is outside accounting year %s", date.Display(), models.YearLabel(year))
	}

	entry := &models.LeaveEntry{
		EmployeeID: employeeID,
		Date:       date,
		Year:       year,
		Note:       optionalNote(note),
	}

	err := s.store.Transaction(func(tx *repository.Store) error {
		if _, err := tx.Employees.GetByID(employeeID); err != nil {
			return err
		}

		taken, err := tx.LeaveEntries.ExistsOnDate(employeeID, date, 0)
		if err != nil {
			return err
		}
		if taken {
			return &apperr.DuplicateDateError{EmployeeID: employeeID, Date: date.String()}
		}

		allotment, err := tx.Allotments.GetByEmployeeAndYear(employeeID, year)
		if err != nil {
			if apperr.IsNotFound(err) {
				return apperr.New(apperr.ErrNotFound, op, "employee %d has no allotment for %d", employeeID, year)
			}
			return err
		}

		used, err := tx.LeaveEntries.CountByEmployeeAndYear(employeeID, year)
		if err != nil {
			return err
		}
		if used >= int64(allotment.TotalDays) {
			return &apperr.CapacityExceededError{EmployeeID: employeeID, Year: year, Allotted: allotment.TotalDays, Used: int(used)}
		}

		// The insert re-checks the count, so a concurrent writer cannot push past the cap.
		inserted, err := tx.LeaveEntries.CreateWithinAllotment(entry)
		if err != nil {
			return err
		}
		if !inserted {
			return &apperr.CapacityExceededError{EmployeeID: employeeID, Year: year, Allotted: allotment.TotalDays, Used: allotment.TotalDays}
		}
		return nil
	})
	if err != nil {
		var capErr *apperr.CapacityExceededError
		if errors.As(err, &capErr) {
			s.logger.WithFields(logrus.Fields{"employee_id": employeeID, "year": year}).Debug("Allotment exhausted")
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"id":          entry.ID,
		"employee_id": employeeID,
		"date":        date.String(),
		"year":        year,
	}).Info("Leave entry added")
	return entry, nil
}

// UpdateLeaveEntry moves an entry to another day of the same accounting year.
func (s *AccountingService) UpdateLeaveEntry(id uint, newDate models.Date) (*models.LeaveEntry, error) {
	const op = "UpdateLeaveEntry"

	if newDate.IsZero() {
		return nil, apperr.New(apperr.ErrValidation, op, "date is required")
	}

	var entry *models.LeaveEntry
	err := s.store.Transaction(func(tx *repository.Store) error {
		var err error
		entry, err = tx.LeaveEntries.GetByID(id)
		if err != nil {
			return err
		}
		if entry.Date.Equal(newDate) {
			return nil
		}
		if !models.InAccountingYear(newDate, entry.Year) {
			return apperr.New(apperr.ErrValidation, op, "%s is outside accounting year %s", newDate.Display(), models.YearLabel(entry.Year))
		}

		taken, err := tx.LeaveEntries.ExistsOnDate(entry.EmployeeID, newDate, id)
		if err != nil {
			return err
		}
		if taken {
			return &apperr.DuplicateDateError{EmployeeID: entry.EmployeeID, Date: newDate.String()}
		}

		if err := tx.LeaveEntries.UpdateDate(id, newDate); err != nil {
			return err
		}
		entry.Date = newDate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// UpdateLeaveNote replaces the note of an entry; an empty note clears it.
func (s *AccountingService) UpdateLeaveNote(id uint, note string) error {
	return s.store.LeaveEntries.UpdateNote(id, optionalNote(note))
}

// DeleteLeaveEntry removes one leave entry.
func (s *AccountingService) DeleteLeaveEntry(id uint) error {
	if err := s.store.LeaveEntries.Delete(id); err != nil {
		return err
	}
	s.logger.WithField("id", id).Info("Leave entry deleted")
	return nil
}

// ListLeaveEntries returns the employee's entries booked against year, by date.
func (s *AccountingService) ListLeaveEntries(employeeID uint, year int) ([]models.LeaveEntry, error) {
	if _, err := s.store.Employees.GetByID(employeeID); err != nil {
		return nil, err
	}
	return s.store.LeaveEntries.GetByEmployeeAndYear(employeeID, year)
}

// LeavePeriodReport returns one LeaveDay per calendar day from start to end inclusive,
// in order, each naming the employees ("LastName FirstName") on leave that day. Days
// without anyone on leave carry an empty list.
func (s *AccountingService) LeavePeriodReport(start, end models.Date) ([]models.LeaveDay, error) {
	const op = "LeavePeriodReport"

	if start.IsZero() || end.IsZero() {
		return nil, apperr.New(apperr.ErrValidation, op, "start and end dates are required")
	}
	if end.Before(start) {
		return nil, apperr.New(apperr.ErrValidation, op, "end %s is before start %s", end.Display(), start.Display())
	}

	rows, err := s.store.LeaveEntries.ListInRange(start, end)
	if err != nil {
		return nil, err
	}

	days := make([]models.LeaveDay, 0, start.DaysUntil(end)+1)
	index := make(map[string]int)
	for d := start; !d.After(end); d = d.AddDays(1) {
		index[d.String()] = len(days)
		days = append(days, models.LeaveDay{Date: d, Names: []string{}})
	}

	for _, row := range rows {
		i, ok := index[row.Date.String()]
		if !ok {
			continue
		}
		days[i].Names = append(days[i].Names, row.LastName+" "+row.FirstName)
	}
	return days, nil
}

func optionalNote(note string) *string {
	if note == "" {
		return nil
	}
	return &note
}
