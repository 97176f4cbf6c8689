package repository

import (
	"strings"
	"time"

	"annual-leave/internal/apperr"
	"annual-leave/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Open connects to the SQLite database at path and enables foreign keys.
// SQLite allows a single writer, so the pool is limited to one connection; this also
// keeps an in-memory database alive for the lifetime of the handle.
func Open(path string, logger *logrus.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on&_busy_timeout=5000"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(logger, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorage, "open database", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorage, "open database", err)
	}
	sqlDB.SetMaxOpenConns(1)

	// Foreign keys are off by default in SQLite.
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		sqlDB.Close()
		return nil, apperr.Wrap(apperr.ErrStorage, "enable foreign keys", err)
	}

	return db, nil
}

// CreateSchema creates the employees, yearly_allotments and leave_entries tables with
// their cascading foreign keys and unique indexes. Safe to call on an existing database.
func CreateSchema(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Employee{},
		&models.YearlyAllotment{},
		&models.LeaveEntry{},
	)
	return apperr.Wrap(apperr.ErrStorage, "create schema", err)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
