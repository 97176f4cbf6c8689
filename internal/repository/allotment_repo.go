package repository

import (
	"time"

	"annual-leave/internal/apperr"
	"annual-leave/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AllotmentRepository interface {
	Create(allotment *models.YearlyAllotment) error
	BulkCreate(allotments []models.YearlyAllotment) error
	GetByEmployeeAndYear(employeeID uint, year int) (*models.YearlyAllotment, error)
	GetByEmployeeID(employeeID uint) ([]models.YearlyAllotment, error)
	UpdateTotalDays(employeeID uint, year, totalDays int) error
	CountByYear(year int) (int64, error)
	CountAll() (int64, error)
	OpenYearsFrom(year int) ([]int, error)
	CarryForward(fromYear, toYear int) (int64, error)
}

type GormAllotmentRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormAllotmentRepository(db *gorm.DB, logger *logrus.Logger) *GormAllotmentRepository {
	return &GormAllotmentRepository{db: db, logger: logger}
}

func (r *GormAllotmentRepository) Create(allotment *models.YearlyAllotment) error {
	if !allotment.IsValid() {
		return apperr.New(apperr.ErrValidation, "create allotment", "invalid allotment %+v", *allotment)
	}
	if err := r.db.Create(allotment).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create allotment")
		return translateError("create allotment", err)
	}

	r.logger.WithFields(logrus.Fields{
		"employee_id": allotment.EmployeeID,
		"year":        allotment.Year,
		"total_days":  allotment.TotalDays,
	}).Debug("Allotment created")
	return nil
}

// BulkCreate inserts all rows in one statement; either every row lands or none does.
func (r *GormAllotmentRepository) BulkCreate(allotments []models.YearlyAllotment) error {
	if len(allotments) == 0 {
		return nil
	}
	for i := range allotments {
		if !allotments[i].IsValid() {
			return apperr.New(apperr.ErrValidation, "create allotments", "invalid allotment %+v", allotments[i])
		}
	}
	if err := r.db.Create(&allotments).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create allotments")
		return translateError("create allotments", err)
	}
	return nil
}

func (r *GormAllotmentRepository) GetByEmployeeAndYear(employeeID uint, year int) (*models.YearlyAllotment, error) {
	var allotment models.YearlyAllotment
	err := r.db.Where("employee_id = ? AND year = ?", employeeID, year).First(&allotment).Error
	if err != nil {
		return nil, translateError("get allotment", err)
	}
	return &allotment, nil
}

func (r *GormAllotmentRepository) GetByEmployeeID(employeeID uint) ([]models.YearlyAllotment, error) {
	var allotments []models.YearlyAllotment
	err := r.db.Where("employee_id = ?", employeeID).Order("year").Find(&allotments).Error
	return allotments, translateError("list allotments", err)
}

func (r *GormAllotmentRepository) UpdateTotalDays(employeeID uint, year, totalDays int) error {
	result := r.db.Model(&models.YearlyAllotment{}).
		Where("employee_id = ? AND year = ?", employeeID, year).
		Update("total_days", totalDays)
	if result.Error != nil {
		return translateError("update allotment", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.ErrNotFound, "update allotment", "employee %d has no allotment for %d", employeeID, year)
	}

	r.logger.WithFields(logrus.Fields{
		"employee_id": employeeID,
		"year":        year,
		"total_days":  totalDays,
	}).Debug("Allotment updated")
	return nil
}

func (r *GormAllotmentRepository) CountByYear(year int) (int64, error) {
	var count int64
	err := r.db.Model(&models.YearlyAllotment{}).Where("year = ?", year).Count(&count).Error
	return count, translateError("count allotments", err)
}

// CountAll returns the number of allotments across all years.
func (r *GormAllotmentRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.YearlyAllotment{}).Count(&count).Error
	return count, translateError("count allotments", err)
}

// OpenYearsFrom returns, in ascending order, every year at or after year that has at
// least one allotment.
func (r *GormAllotmentRepository) OpenYearsFrom(year int) ([]int, error) {
	var years []int
	err := r.db.Model(&models.YearlyAllotment{}).
		Distinct().
		Where("year >= ?", year).
		Order("year").
		Pluck("year", &years).Error
	return years, translateError("list open years", err)
}

// CarryForward copies every allotment of fromYear into toYear with the same day count,
// in a single INSERT ... SELECT. It returns the number of rows created.
func (r *GormAllotmentRepository) CarryForward(fromYear, toYear int) (int64, error) {
	now := time.Now()
	result := r.db.Exec(`
		INSERT INTO yearly_allotments (employee_id, year, total_days, created_at, updated_at)
		SELECT employee_id, ?, total_days, ?, ?
		FROM yearly_allotments
		WHERE year = ?`, toYear, now, now, fromYear)
	if result.Error != nil {
		r.logger.WithError(result.Error).WithFields(logrus.Fields{
			"from_year": fromYear,
			"to_year":   toYear,
		}).Error("Failed to carry allotments forward")
		return 0, translateError("carry allotments forward", result.Error)
	}
	return result.RowsAffected, nil
}
