package handler

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"annual-leave/internal/service"

	"github.com/spf13/cobra"
)

func (c *CLI) newReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Leave reports",
	}

	cmd.AddCommand(c.newReportPeriodCommand())
	return cmd
}

func (c *CLI) newReportPeriodCommand() *cobra.Command {
	var (
		csvPath string
		columns bool
	)

	cmd := &cobra.Command{
		Use:   "period <start> <end>",
		Short: "Show who is on leave on each day of a period",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, func(h *Handler) error {
				const op = "report period"

				start, err := parseDateArg(op, args[0])
				if err != nil {
					return err
				}
				end, err := parseDateArg(op, args[1])
				if err != nil {
					return err
				}

				table, err := h.reports.PeriodTable(start, end)
				if err != nil {
					return err
				}

				if csvPath != "" {
					if err := writeCSVFile(csvPath, table); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d days to %s\n", len(table.Columns), csvPath)
					return nil
				}

				if columns {
					printPeriodColumns(cmd, table)
				} else {
					printPeriodTable(cmd, table)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "write the report to this CSV file instead of printing it")
	cmd.Flags().BoolVar(&columns, "columns", false, "print one column per day instead of one line per day")
	return cmd
}

func printPeriodTable(cmd *cobra.Command, table *service.PeriodTable) {
	out := cmd.OutOrStdout()

	rows := make([][]string, 0, len(table.Columns))
	for _, col := range table.Columns {
		rows = append(rows, []string{col.Header, col.Holiday, strconv.Itoa(len(col.Names)), strings.Join(col.Names, ", ")})
	}
	printTable(out, []string{"Date", "Holiday", "Count", "Employees"}, rows)
}

// printPeriodColumns prints the day-per-column grid, with a holiday line under the
// dates when any day in the period is a holiday.
func printPeriodColumns(cmd *cobra.Command, table *service.PeriodTable) {
	headers := make([]string, 0, len(table.Columns))
	holidayRow := make([]string, 0, len(table.Columns))
	anyHoliday := false
	for _, col := range table.Columns {
		headers = append(headers, col.Header)
		holidayRow = append(holidayRow, col.Holiday)
		anyHoliday = anyHoliday || col.Holiday != ""
	}

	rows := table.Rows
	if anyHoliday {
		rows = append([][]string{holidayRow}, rows...)
	}
	printTable(cmd.OutOrStdout(), headers, rows)
}

func writeCSVFile(path string, table *service.PeriodTable) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return table.WriteCSV(f)
}
