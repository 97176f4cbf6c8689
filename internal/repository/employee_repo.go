package repository

import (
	"annual-leave/internal/apperr"
	"annual-leave/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(employee *models.Employee) error
	GetByID(id uint) (*models.Employee, error)
	GetAll() ([]models.Employee, error)
	UpdateNames(id uint, firstName, lastName string) error
	Delete(id uint) error
	ListYearSummaries(year int) ([]models.EmployeeYearSummary, error)
}

type GormEmployeeRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormEmployeeRepository(db *gorm.DB, logger *logrus.Logger) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db, logger: logger}
}

func (r *GormEmployeeRepository) Create(employee *models.Employee) error {
	if err := r.db.Create(employee).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create employee")
		return translateError("create employee", err)
	}

	r.logger.WithFields(logrus.Fields{
		"id":         employee.ID,
		"first_name": employee.FirstName,
		"last_name":  employee.LastName,
	}).Debug("Employee created")
	return nil
}

func (r *GormEmployeeRepository) GetByID(id uint) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.First(&employee, id).Error; err != nil {
		return nil, translateError("get employee", err)
	}
	return &employee, nil
}

func (r *GormEmployeeRepository) GetAll() ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.Order("id").Find(&employees).Error
	return employees, translateError("list employees", err)
}

func (r *GormEmployeeRepository) UpdateNames(id uint, firstName, lastName string) error {
	result := r.db.Model(&models.Employee{}).
		Where("id = ?", id).
		Updates(map[string]any{"first_name": firstName, "last_name": lastName})
	if result.Error != nil {
		return translateError("update employee", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.ErrNotFound, "update employee", "employee %d not found", id)
	}

	r.logger.WithField("id", id).Debug("Employee renamed")
	return nil
}

// Delete removes the employee; allotments and leave entries follow through the
// cascading foreign keys.
func (r *GormEmployeeRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Employee{}, id)
	if result.Error != nil {
		return translateError("delete employee", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.ErrNotFound, "delete employee", "employee %d not found", id)
	}

	r.logger.WithField("id", id).Debug("Employee deleted")
	return nil
}

// ListYearSummaries returns every employee with the allotment and the number of
// leave entries booked against year. Employees without an allotment get a nil total.
func (r *GormEmployeeRepository) ListYearSummaries(year int) ([]models.EmployeeYearSummary, error) {
	var rows []models.EmployeeYearSummary
	err := r.db.Raw(`
		SELECT e.id, e.first_name, e.last_name, ya.total_days, COUNT(le.id) AS used
		FROM employees e
		LEFT JOIN yearly_allotments ya ON ya.employee_id = e.id AND ya.year = ?
		LEFT JOIN leave_entries le ON le.employee_id = e.id AND le.year = ?
		GROUP BY e.id, e.first_name, e.last_name, ya.total_days
		ORDER BY e.id`, year, year).
		Scan(&rows).Error
	return rows, translateError("list employees for year", err)
}
