package handler

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DBPath       string
	HolidaysPath string
	Yes          bool
}

// Builder opens the store described by opts and returns a ready Handler together
// with a function releasing its resources.
type Builder func(opts *RootOptions) (*Handler, func() error, error)

// CLI carries the handler built for the current invocation.
type CLI struct {
	opts    *RootOptions
	build   Builder
	handler *Handler
	closer  func() error
}

// NewRootCommand creates the root command. defaults seed the global flags, usually
// from the configuration.
func NewRootCommand(defaults RootOptions, build Builder) *cobra.Command {
	opts := defaults
	c := &CLI{opts: &opts, build: build}

	cmd := &cobra.Command{
		Use:   "leave",
		Short: "Annual leave accounting",
		Long: `Track yearly leave allotments and the days employees take against them.

Accounting years run from July 1 to June 30 and are written as "2024/2025".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsStore(cmd) {
				return nil
			}
			h, closer, err := c.build(c.opts)
			if err != nil {
				return err
			}
			c.handler, c.closer = h, closer
			return nil
		},
	}

	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", defaults.DBPath, "path to the SQLite database")
	cmd.PersistentFlags().StringVar(&opts.HolidaysPath, "holidays", defaults.HolidaysPath, "path to the holiday calendar (JSON or YAML)")
	cmd.PersistentFlags().BoolVarP(&opts.Yes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(c.newEmployeeCommand())
	cmd.AddCommand(c.newYearCommand())
	cmd.AddCommand(c.newLeaveCommand())
	cmd.AddCommand(c.newReportCommand())
	cmd.AddCommand(c.newHolidaysCommand())

	return cmd
}

// needsStore is false for help and group commands that only print usage.
func needsStore(cmd *cobra.Command) bool {
	return cmd.Runnable() && cmd.Name() != "help"
}

// exec runs action with the handler and releases the store afterwards, whether or
// not the action failed.
func (c *CLI) exec(cmd *cobra.Command, action func(h *Handler) error) (err error) {
	defer func() {
		if cerr := c.close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return c.handler.run(cmd, func() error { return action(c.handler) })
}

func (c *CLI) close() error {
	if c.closer == nil {
		return nil
	}
	err := c.closer()
	c.closer = nil
	return err
}
