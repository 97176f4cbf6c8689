package handler

import (
	"fmt"
	"io"
	"strconv"

	"annual-leave/internal/models"

	"github.com/spf13/cobra"
)

func (c *CLI) newLeaveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leave",
		Short: "Book, move and remove leave days",
	}

	cmd.AddCommand(c.newLeaveAddCommand())
	cmd.AddCommand(c.newLeaveEditCommand())
	cmd.AddCommand(c.newLeaveNoteCommand())
	cmd.AddCommand(c.newLeaveDeleteCommand())
	cmd.AddCommand(c.newLeaveListCommand())
	return cmd
}

func (c *CLI) newLeaveAddCommand() *cobra.Command {
	var (
		year int
		note string
	)

	cmd := &cobra.Command{
		Use:   "add <employee-id> <date>",
		Short: "Book one day of leave",
		Long: `Book one day of leave for an employee.

The date may be written as YYYY-MM-DD or DD.MM.YYYY. It is booked against the
accounting year containing it unless --year says otherwise.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, func(h *Handler) error {
				const op = "leave add"

				employeeID, err := parseIDArg(op, args[0])
				if err != nil {
					return err
				}
				date, err := parseDateArg(op, args[1])
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("year") {
					year = models.AccountingYearFor(date.Time)
				}

				entry, err := h.accounting.AddLeaveEntry(employeeID, date, year, note)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Booked leave %d: employee %d on %s (%s)\n",
					entry.ID, employeeID, entry.Date.Display(), models.YearLabel(entry.Year))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "accounting year to book against (default: the one containing the date)")
	cmd.Flags().StringVarP(&note, "note", "n", "", "optional note")
	return cmd
}

func (c *CLI) newLeaveEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <entry-id> <date>",
		Short: "Move a leave day to another date of the same year",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, func(h *Handler) error {
				const op = "leave edit"

				id, err := parseIDArg(op, args[0])
				if err != nil {
					return err
				}
				date, err := parseDateArg(op, args[1])
				if err != nil {
					return err
				}

				entry, err := h.accounting.UpdateLeaveEntry(id, date)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Leave %d is now on %s\n", entry.ID, entry.Date.Display())
				return nil
			})
		},
	}
}

func (c *CLI) newLeaveNoteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "note <entry-id> [note]",
		Short: "Set or clear the note of a leave day",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, func(h *Handler) error {
				id, err := parseIDArg("leave note", args[0])
				if err != nil {
					return err
				}
				var note string
				if len(args) == 2 {
					note = args[1]
				}

				if err := h.accounting.UpdateLeaveNote(id, note); err != nil {
					return err
				}
				if note == "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Cleared note of leave %d\n", id)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Updated note of leave %d\n", id)
				}
				return nil
			})
		},
	}
}

func (c *CLI) newLeaveDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entry-id>",
		Short: "Remove a leave day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, func(h *Handler) error {
				id, err := parseIDArg("leave delete", args[0])
				if err != nil {
					return err
				}
				if err := h.accounting.DeleteLeaveEntry(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted leave %d\n", id)
				return nil
			})
		},
	}
}

func (c *CLI) newLeaveListCommand() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "list <employee-id>",
		Short: "List an employee's leave days for a year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, func(h *Handler) error {
				id, err := parseIDArg("leave list", args[0])
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("year") {
					year = h.accounting.CurrentAccountingYear()
				}

				entries, err := h.accounting.ListLeaveEntries(id, year)
				if err != nil {
					return err
				}
				h.printLeaveEntries(cmd.OutOrStdout(), entries)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "accounting year (default current)")
	return cmd
}

func (h *Handler) printLeaveEntries(w io.Writer, entries []models.LeaveEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No leave booked.")
		return
	}

	rows := make([][]string, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		holiday, _ := h.calendar.Lookup(e.Date.Time)
		rows = append(rows, []string{strconv.FormatUint(uint64(e.ID), 10), e.Date.Display(), holiday, e.NoteText()})
	}
	printTable(w, []string{"ID", "Date", "Holiday", "Note"}, rows)
}
