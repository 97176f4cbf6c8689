package repository

import (
	"errors"

	"annual-leave/internal/apperr"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// translateError maps gorm and SQLite failures onto the apperr kinds. Errors that
// already carry a kind pass through untouched.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if apperr.KindOf(err) != nil {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.Wrap(apperr.ErrNotFound, op, err)
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperr.Wrap(apperr.ErrConstraintViolation, op, err)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return apperr.Wrap(apperr.ErrConstraintViolation, op, err)
	}

	return apperr.Wrap(apperr.ErrStorage, op, err)
}

// isUniqueViolation reports whether err came from a unique index.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey)
}
