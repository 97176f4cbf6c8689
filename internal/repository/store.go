package repository

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Store groups the repositories over one database handle. Inside Transaction the
// repositories share the transaction, so multi-row changes commit or roll back together.
type Store struct {
	db     *gorm.DB
	logger *logrus.Logger

	Employees    EmployeeRepository
	Allotments   AllotmentRepository
	LeaveEntries LeaveEntryRepository
}

// NewStore creates the schema if needed and returns the repositories.
func NewStore(db *gorm.DB, logger *logrus.Logger) (*Store, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if err := CreateSchema(db); err != nil {
		logger.WithError(err).Error("Failed to create schema")
		return nil, err
	}
	logger.Debug("Leave store initialized")
	return newStore(db, logger), nil
}

func newStore(db *gorm.DB, logger *logrus.Logger) *Store {
	return &Store{
		db:           db,
		logger:       logger,
		Employees:    NewGormEmployeeRepository(db, logger),
		Allotments:   NewGormAllotmentRepository(db, logger),
		LeaveEntries: NewGormLeaveEntryRepository(db, logger),
	}
}

// Transaction runs fn against repositories bound to a single database transaction.
// Any error returned by fn rolls the transaction back.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	var fnErr error
	err := s.db.Transaction(func(tx *gorm.DB) error {
		fnErr = fn(newStore(tx, s.logger))
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	return translateError("transaction", err)
}

// DB exposes the handle for callers that need to close it.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return Close(s.db)
}
