package handler

import (
	"fmt"
	"strconv"

	"annual-leave/internal/apperr"
	"annual-leave/internal/models"

	"github.com/spf13/cobra"
)

func (c *CLI) newYearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "year",
		Short: "Open and inspect accounting years",
	}

	cmd.AddCommand(c.newYearOpenCommand())
	cmd.AddCommand(c.newYearCurrentCommand())
	cmd.AddCommand(c.newYearStatusCommand())
	return cmd
}

func parseYearArg(op, s string) (int, error) {
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperr.New(apperr.ErrValidation, op, "invalid year %q", s)
	}
	return year, nil
}

func (c *CLI) newYearOpenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open <year>",
		Short: "Open a year, copying every allotment from the year before",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, func(h *Handler) error {
				year, err := parseYearArg("year open", args[0])
				if err != nil {
					return err
				}

				question := fmt.Sprintf("Open %s with the allotments of %s?", models.YearLabel(year), models.YearLabel(year-1))
				if !c.opts.Yes && !confirm(cmd, question) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}

				created, err := h.accounting.OpenYear(year)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Opened %s: %d allotments carried forward\n", models.YearLabel(year), created)
				return nil
			})
		},
	}
}

func (c *CLI) newYearCurrentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the current accounting year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, func(h *Handler) error {
				year := h.accounting.CurrentAccountingYear()
				start, end := models.AccountingYearRange(year)
				fmt.Fprintf(cmd.OutOrStdout(), "%d (%s, %s - %s)\n", year, models.YearLabel(year), start.Display(), end.Display())
				return nil
			})
		},
	}
}

func (c *CLI) newYearStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status [year]",
		Short: "Tell whether a year is open",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, func(h *Handler) error {
				year := h.accounting.CurrentAccountingYear()
				if len(args) == 1 {
					var err error
					if year, err = parseYearArg("year status", args[0]); err != nil {
						return err
					}
				}

				status, err := h.accounting.YearStatus(year)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", models.YearLabel(year), status)
				return nil
			})
		},
	}
}
