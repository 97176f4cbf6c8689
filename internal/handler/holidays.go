package handler

import (
	"fmt"

	"annual-leave/internal/models"

	"github.com/spf13/cobra"
)

func (c *CLI) newHolidaysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Inspect the holiday calendar",
	}

	cmd.AddCommand(c.newHolidaysListCommand())
	return cmd
}

func (c *CLI) newHolidaysListCommand() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List holidays of an accounting year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, func(h *Handler) error {
				if !cmd.Flags().Changed("year") {
					year = h.accounting.CurrentAccountingYear()
				}
				start, end := models.AccountingYearRange(year)

				days := h.calendar.Between(start.Time, end.Time)
				if len(days) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No holidays in %s\n", models.YearLabel(year))
					return nil
				}

				rows := make([][]string, 0, len(days))
				for _, d := range days {
					rows = append(rows, []string{models.DateOf(d.Date).Display(), d.Name})
				}
				printTable(cmd.OutOrStdout(), []string{"Date", "Holiday"}, rows)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "accounting year (default current)")
	return cmd
}
