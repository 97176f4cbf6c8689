package handler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"annual-leave/internal/apperr"
	"annual-leave/internal/logger"
	"annual-leave/internal/models"
	"annual-leave/internal/service"
	"annual-leave/pkg/holidays"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Handler runs user actions against the services and renders the results.
type Handler struct {
	accounting *service.AccountingService
	reports    *service.ReportService
	calendar   holidays.Calendar
	errLog     *logger.ErrorLog
	logger     *logrus.Logger
}

func NewHandler(
	accounting *service.AccountingService,
	reports *service.ReportService,
	calendar holidays.Calendar,
	errLog *logger.ErrorLog,
	log *logrus.Logger,
) *Handler {
	if errLog == nil {
		errLog = logger.Discard()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if calendar == nil {
		calendar = holidays.Calendar{}
	}
	return &Handler{
		accounting: accounting,
		reports:    reports,
		calendar:   calendar,
		errLog:     errLog,
		logger:     log,
	}
}

// UserError is what a failed command reports to the user. It wraps the original
// error so callers can still branch on its kind.
type UserError struct {
	Msg      string
	ActionID string
	Err      error
}

func (e *UserError) Error() string { return e.Msg }

func (e *UserError) Unwrap() error { return e.Err }

// run executes one user action. Unclassified failures are written to the error log
// under a fresh action id; the command fails but the process keeps its state.
func (h *Handler) run(cmd *cobra.Command, action func() error) error {
	actionID := uuid.NewString()
	entry := h.logger.WithFields(logrus.Fields{"action": actionID, "command": cmd.CommandPath()})
	entry.Debug("Action started")

	err := action()
	if err == nil {
		return nil
	}

	if !apperr.IsClientError(err) {
		h.errLog.Record(actionID, cmd.CommandPath(), err)
		entry.WithError(err).Error("Action failed")
	}
	return &UserError{Msg: userMessage(err, actionID), ActionID: actionID, Err: err}
}

func userMessage(err error, actionID string) string {
	var capErr *apperr.CapacityExceededError
	if errors.As(err, &capErr) {
		return fmt.Sprintf("employee %d has used all %d leave days for %s",
			capErr.EmployeeID, capErr.Allotted, models.YearLabel(capErr.Year))
	}

	var dupErr *apperr.DuplicateDateError
	if errors.As(err, &dupErr) {
		date := dupErr.Date
		if d, perr := models.ParseDate(date); perr == nil {
			date = d.Display()
		}
		return fmt.Sprintf("employee %d is already on leave on %s", dupErr.EmployeeID, date)
	}

	switch apperr.KindOf(err) {
	case apperr.ErrPrecedingYearNotOpen:
		return err.Error() + "; open the preceding year first"
	case apperr.ErrValidation, apperr.ErrNotFound, apperr.ErrAlreadyOpen, apperr.ErrConstraintViolation:
		return err.Error()
	default:
		return fmt.Sprintf("unexpected error (reference %s), details are in the error log", actionID)
	}
}

// confirm asks a yes/no question on the command's streams. Anything but y/yes declines.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func parseDateArg(op, s string) (models.Date, error) {
	d, err := models.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return models.Date{}, apperr.Wrap(apperr.ErrValidation, op, err)
	}
	return d, nil
}

func parseIDArg(op, s string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.New(apperr.ErrValidation, op, "invalid id %q", s)
	}
	return uint(id), nil
}
