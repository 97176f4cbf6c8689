package repository

import (
	"time"

	"annual-leave/internal/apperr"
	"annual-leave/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LeaveOnDate is one row of the period report query.
type LeaveOnDate struct {
	EmployeeID uint
	Date       models.Date
	FirstName  string
	LastName   string
}

type LeaveEntryRepository interface {
	CreateWithinAllotment(entry *models.LeaveEntry) (bool, error)
	GetByID(id uint) (*models.LeaveEntry, error)
	GetByEmployeeAndYear(employeeID uint, year int) ([]models.LeaveEntry, error)
	GetByEmployeeID(employeeID uint) ([]models.LeaveEntry, error)
	CountByEmployeeAndYear(employeeID uint, year int) (int64, error)
	ExistsOnDate(employeeID uint, date models.Date, excludeID uint) (bool, error)
	UpdateDate(id uint, date models.Date) error
	UpdateNote(id uint, note *string) error
	Delete(id uint) error
	ListInRange(start, end models.Date) ([]LeaveOnDate, error)
}

type GormLeaveEntryRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormLeaveEntryRepository(db *gorm.DB, logger *logrus.Logger) *GormLeaveEntryRepository {
	return &GormLeaveEntryRepository{db: db, logger: logger}
}

// CreateWithinAllotment inserts the entry only while the employee has fewer entries
// in entry.Year than the allotment allows. The count and the insert are one
// statement, so concurrent callers cannot both take the last day. It returns false
// when nothing was inserted (no allotment, or the allotment is used up).
func (r *GormLeaveEntryRepository) CreateWithinAllotment(entry *models.LeaveEntry) (bool, error) {
	now := time.Now()
	result := r.db.Exec(`
		INSERT INTO leave_entries (employee_id, date, year, note, created_at, updated_at)
		SELECT ?, ?, ?, ?, ?, ?
		WHERE (SELECT COUNT(*) FROM leave_entries WHERE employee_id = ? AND year = ?)
			< (SELECT total_days FROM yearly_allotments WHERE employee_id = ? AND year = ?)`,
		entry.EmployeeID, entry.Date, entry.Year, entry.Note, now, now,
		entry.EmployeeID, entry.Year,
		entry.EmployeeID, entry.Year)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return false, &apperr.DuplicateDateError{EmployeeID: entry.EmployeeID, Date: entry.Date.String()}
		}
		r.logger.WithError(result.Error).Error("Failed to create leave entry")
		return false, translateError("create leave entry", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	var stored models.LeaveEntry
	err := r.db.Where("employee_id = ? AND date = ?", entry.EmployeeID, entry.Date).First(&stored).Error
	if err != nil {
		return false, translateError("create leave entry", err)
	}
	*entry = stored

	r.logger.WithFields(logrus.Fields{
		"id":          entry.ID,
		"employee_id": entry.EmployeeID,
		"date":        entry.Date.String(),
		"year":        entry.Year,
	}).Debug("Leave entry created")
	return true, nil
}

func (r *GormLeaveEntryRepository) GetByID(id uint) (*models.LeaveEntry, error) {
	var entry models.LeaveEntry
	if err := r.db.First(&entry, id).Error; err != nil {
		return nil, translateError("get leave entry", err)
	}
	return &entry, nil
}

func (r *GormLeaveEntryRepository) GetByEmployeeAndYear(employeeID uint, year int) ([]models.LeaveEntry, error) {
	var entries []models.LeaveEntry
	err := r.db.Where("employee_id = ? AND year = ?", employeeID, year).
		Order("date").
		Find(&entries).Error
	return entries, translateError("list leave entries", err)
}

func (r *GormLeaveEntryRepository) GetByEmployeeID(employeeID uint) ([]models.LeaveEntry, error) {
	var entries []models.LeaveEntry
	err := r.db.Where("employee_id = ?", employeeID).Order("date").Find(&entries).Error
	return entries, translateError("list leave entries", err)
}

func (r *GormLeaveEntryRepository) CountByEmployeeAndYear(employeeID uint, year int) (int64, error) {
	var count int64
	err := r.db.Model(&models.LeaveEntry{}).
		Where("employee_id = ? AND year = ?", employeeID, year).
		Count(&count).Error
	return count, translateError("count leave entries", err)
}

// ExistsOnDate reports whether the employee already has leave on date, ignoring the
// entry with id excludeID (pass 0 to check all entries).
func (r *GormLeaveEntryRepository) ExistsOnDate(employeeID uint, date models.Date, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.LeaveEntry{}).
		Where("employee_id = ? AND date = ? AND id <> ?", employeeID, date, excludeID).
		Count(&count).Error
	return count > 0, translateError("check leave date", err)
}

func (r *GormLeaveEntryRepository) UpdateDate(id uint, date models.Date) error {
	result := r.db.Model(&models.LeaveEntry{}).Where("id = ?", id).Update("date", date)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			entry, err := r.GetByID(id)
			if err != nil {
				return err
			}
			return &apperr.DuplicateDateError{EmployeeID: entry.EmployeeID, Date: date.String()}
		}
		return translateError("update leave entry", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.ErrNotFound, "update leave entry", "leave entry %d not found", id)
	}

	r.logger.WithFields(logrus.Fields{"id": id, "date": date.String()}).Debug("Leave entry moved")
	return nil
}

func (r *GormLeaveEntryRepository) UpdateNote(id uint, note *string) error {
	result := r.db.Model(&models.LeaveEntry{}).Where("id = ?", id).Update("note", note)
	if result.Error != nil {
		return translateError("update leave note", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.ErrNotFound, "update leave note", "leave entry %d not found", id)
	}
	return nil
}

func (r *GormLeaveEntryRepository) Delete(id uint) error {
	result := r.db.Delete(&models.LeaveEntry{}, id)
	if result.Error != nil {
		return translateError("delete leave entry", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.ErrNotFound, "delete leave entry", "leave entry %d not found", id)
	}

	r.logger.WithField("id", id).Debug("Leave entry deleted")
	return nil
}

// ListInRange returns every leave entry whose date lies in [start, end], joined with
// the employee names, ordered by date and then by name. Matching uses the stored date
// only, so a range may cross an accounting-year boundary.
func (r *GormLeaveEntryRepository) ListInRange(start, end models.Date) ([]LeaveOnDate, error) {
	var rows []LeaveOnDate
	err := r.db.Raw(`
		SELECT le.employee_id, le.date, e.first_name, e.last_name
		FROM leave_entries le
		JOIN employees e ON e.id = le.employee_id
		WHERE le.date BETWEEN ? AND ?
		ORDER BY le.date, e.last_name, e.first_name, e.id`, start, end).
		Scan(&rows).Error
	return rows, translateError("list leave in range", err)
}
