package service

import (
	"errors"
	"fmt"
	"strings"

	"annual-leave/internal/apperr"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
)

// EmployeeInput is the user-editable part of an employee.
type EmployeeInput struct {
	FirstName string `validate:"required,max=100"`
	LastName  string `validate:"required,max=100"`
	TotalDays int    `validate:"gte=0,lte=365"`
}

// YearInput guards year arguments.
type YearInput struct {
	Year int `validate:"gte=1900,lte=9999"`
}

// normalizeName trims the name and puts it in NFC so that "ć" typed as one rune or as
// "c" plus a combining accent is stored the same way.
func normalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// validateStruct runs validator tags and turns failures into ErrValidation.
func validateStruct(v *validator.Validate, op string, input any) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Wrap(apperr.ErrValidation, op, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return apperr.New(apperr.ErrValidation, op, "%s", strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}
