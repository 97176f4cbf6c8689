// Package apperr holds the error kinds shared by the store, the services and the CLI.
//
// Every error returned by a service operation wraps exactly one kind, so callers can
// branch with errors.Is(err, apperr.ErrCapacityExceeded) and friends. Structured errors
// carry extra context and unwrap to their kind.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is bad input: empty names, malformed dates, duplicate dates.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced employee, allotment or entry is absent.
	ErrNotFound = errors.New("not found")

	// ErrConstraintViolation is a uniqueness or foreign key failure raised by the store.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrCapacityExceeded is returned when an employee has used the whole allotment.
	ErrCapacityExceeded = errors.New("allotment exhausted")

	// ErrPrecedingYearNotOpen is returned by year rollover when year-1 has no allotments.
	ErrPrecedingYearNotOpen = errors.New("preceding year not open")

	// ErrAlreadyOpen is returned by year rollover when the year already has allotments.
	ErrAlreadyOpen = errors.New("year already open")

	// ErrStorage is an engine failure: the database cannot be opened or queried.
	ErrStorage = errors.New("storage error")
)

var kinds = []error{
	ErrValidation,
	ErrNotFound,
	ErrConstraintViolation,
	ErrCapacityExceeded,
	ErrPrecedingYearNotOpen,
	ErrAlreadyOpen,
	ErrStorage,
}

// Error ties a kind to the operation that produced it.
type Error struct {
	Kind error
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// New builds an error of the given kind.
func New(kind error, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying error. A nil err yields nil.
func Wrap(kind error, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// CapacityExceededError reports an exhausted allotment.
type CapacityExceededError struct {
	EmployeeID uint
	Year       int
	Allotted   int
	Used       int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("employee %d has used %d of %d days in %d", e.EmployeeID, e.Used, e.Allotted, e.Year)
}

func (e *CapacityExceededError) Unwrap() error {
	return ErrCapacityExceeded
}

// DuplicateDateError reports a second leave entry on the same day for one employee.
type DuplicateDateError struct {
	EmployeeID uint
	Date       string
}

func (e *DuplicateDateError) Error() string {
	return fmt.Sprintf("employee %d already has leave on %s", e.EmployeeID, e.Date)
}

func (e *DuplicateDateError) Unwrap() error {
	return ErrValidation
}

// KindOf returns the kind wrapped by err, or nil for unclassified errors.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// IsClientError reports whether err is caused by the request rather than the system.
func IsClientError(err error) bool {
	switch KindOf(err) {
	case ErrValidation, ErrNotFound, ErrCapacityExceeded, ErrPrecedingYearNotOpen, ErrAlreadyOpen, ErrConstraintViolation:
		return true
	}
	return false
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
