package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	err := New(ErrValidation, "AddEmployee", "first name is required")
	assert.Equal(t, "AddEmployee: first name is required", err.Error())

	wrapped := Wrap(ErrStorage, "OpenYear", errors.New("disk I/O error"))
	assert.Equal(t, "OpenYear: storage error: disk I/O error", wrapped.Error())
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(ErrStorage, "op", nil))
}

func TestKindOf(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"validation", New(ErrValidation, "op", "bad"), ErrValidation},
		{"wrapped twice", fmt.Errorf("outer: %w", Wrap(ErrNotFound, "op", cause)), ErrNotFound},
		{"capacity", &CapacityExceededError{EmployeeID: 1, Year: 2024, Allotted: 20, Used: 20}, ErrCapacityExceeded},
		{"duplicate", &DuplicateDateError{EmployeeID: 1, Date: "2024-07-01"}, ErrValidation},
		{"unclassified", cause, nil},
		{"nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestStructuredErrorsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("add leave: %w", &CapacityExceededError{EmployeeID: 7, Year: 2024, Allotted: 2, Used: 2})

	var capErr *CapacityExceededError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, uint(7), capErr.EmployeeID)
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
	assert.True(t, IsClientError(err))
}

func TestIsClientError(t *testing.T) {
	assert.False(t, IsClientError(Wrap(ErrStorage, "op", errors.New("locked"))))
	assert.False(t, IsClientError(errors.New("unknown")))
	assert.True(t, IsClientError(New(ErrAlreadyOpen, "OpenYear", "2025 is already open")))
	assert.True(t, IsNotFound(New(ErrNotFound, "GetEmployee", "employee 3")))
}
