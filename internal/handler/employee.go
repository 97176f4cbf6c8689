package handler

import (
	"fmt"
	"strconv"

	"annual-leave/internal/apperr"
	"annual-leave/internal/models"

	"github.com/spf13/cobra"
)

func (c *CLI) newEmployeeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Manage employees and their allotments",
	}

	cmd.AddCommand(c.newEmployeeAddCommand())
	cmd.AddCommand(c.newEmployeeEditCommand())
	cmd.AddCommand(c.newEmployeeDeleteCommand())
	cmd.AddCommand(c.newEmployeeListCommand())
	cmd.AddCommand(c.newEmployeeShowCommand())
	return cmd
}

func (c *CLI) newEmployeeAddCommand() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "add <first-name> <last-name>",
		Short: "Add an employee to every open year",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, func(h *Handler) error {
				emp, err := h.accounting.AddEmployee(args[0], args[1], days)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added employee %d: %s (%d days)\n", emp.ID, emp.FullName(), days)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 0, "leave days per year")
	cmd.MarkFlagRequired("days")
	return cmd
}

func (c *CLI) newEmployeeEditCommand() *cobra.Command {
	var (
		firstName string
		lastName  string
		days      int
		year      int
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an employee's names or allotment for a year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, func(h *Handler) error {
				const op = "employee edit"

				id, err := parseIDArg(op, args[0])
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("year") {
					year = h.accounting.CurrentAccountingYear()
				}

				current, err := h.employeeSummary(id, year)
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("first-name") {
					firstName = current.FirstName
				}
				if !cmd.Flags().Changed("last-name") {
					lastName = current.LastName
				}
				if !cmd.Flags().Changed("days") {
					if current.TotalDays == nil {
						return apperr.New(apperr.ErrNotFound, op, "employee %d has no allotment for %s", id, models.YearLabel(year))
					}
					days = *current.TotalDays
				}

				emp, err := h.accounting.UpdateEmployee(id, firstName, lastName, days, year)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated employee %d: %s (%d days in %s)\n",
					emp.ID, emp.FullName(), days, models.YearLabel(year))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&firstName, "first-name", "", "new first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "new last name")
	cmd.Flags().IntVarP(&days, "days", "d", 0, "new allotment")
	cmd.Flags().IntVar(&year, "year", 0, "accounting year (default current)")
	return cmd
}

func (c *CLI) newEmployeeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an employee with all allotments and leave",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, func(h *Handler) error {
				id, err := parseIDArg("employee delete", args[0])
				if err != nil {
					return err
				}
				emp, err := h.accounting.GetEmployee(id)
				if err != nil {
					return err
				}

				question := fmt.Sprintf("Delete %s together with all allotments and leave entries?", emp.FullName())
				if !c.opts.Yes && !confirm(cmd, question) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}

				if err := h.accounting.DeleteEmployee(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted employee %d: %s\n", id, emp.FullName())
				return nil
			})
		},
	}
}

func (c *CLI) newEmployeeListCommand() *cobra.Command {
	var (
		year   int
		search string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees with their allotment and usage for a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, func(h *Handler) error {
				if !cmd.Flags().Changed("year") {
					year = h.accounting.CurrentAccountingYear()
				}

				table, err := h.reports.EmployeeTable(year, search)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Accounting year %s\n", table.Label)
				if table.NeedsOpening() {
					fmt.Fprintf(out, "Year %s is not open. Run \"leave year open %d\" to carry allotments forward.\n", table.Label, year)
				}

				rows := make([][]string, 0, len(table.Rows))
				for _, r := range table.Rows {
					rows = append(rows, []string{strconv.FormatUint(uint64(r.ID), 10), r.LastName, r.FirstName, r.TotalDays, r.Used, r.Remaining})
				}
				printTable(out, []string{"ID", "Last name", "First name", "Days", "Used", "Left"}, rows)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "accounting year (default current)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "show only rows containing this text")
	return cmd
}

func (c *CLI) newEmployeeShowCommand() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an employee's allotment and leave for a year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, func(h *Handler) error {
				id, err := parseIDArg("employee show", args[0])
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("year") {
					year = h.accounting.CurrentAccountingYear()
				}

				summary, err := h.employeeSummary(id, year)
				if err != nil {
					return err
				}
				entries, err := h.accounting.ListLeaveEntries(id, year)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s %s (ID %d)\n", summary.LastName, summary.FirstName, summary.ID)
				if summary.TotalDays == nil {
					fmt.Fprintf(out, "No allotment for %s\n", models.YearLabel(year))
				} else {
					fmt.Fprintf(out, "%s: %d days, %d used, %d left\n",
						models.YearLabel(year), *summary.TotalDays, summary.Used, *summary.Remaining())
				}

				h.printLeaveEntries(out, entries)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "accounting year (default current)")
	return cmd
}

func (h *Handler) employeeSummary(id uint, year int) (*models.EmployeeYearSummary, error) {
	summaries, err := h.accounting.ListEmployeesForYear(year)
	if err != nil {
		return nil, err
	}
	for i := range summaries {
		if summaries[i].ID == id {
			return &summaries[i], nil
		}
	}
	return nil, apperr.New(apperr.ErrNotFound, "employee", "employee %d not found", id)
}
