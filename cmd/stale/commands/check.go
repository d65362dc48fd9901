package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/stale/internal/app"
)

func (c *CLI) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [checks...]",
		Short: "Report whether targets must be rebuilt",
		Long: `Report whether targets must be rebuilt.

Without --target the checks are read from stale.yaml. The command exits with
status 1 when at least one target is stale and 2 on errors.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			failFast, _ := cmd.Flags().GetBool("fail-fast")
			trace, _ := cmd.Flags().GetBool("trace")

			return c.app.Check(cmd.Context(), app.CheckRequest{
				Selection: selectionFromFlags(cmd, args),
				FailFast:  failFast,
				Trace:     trace,
			})
		},
	}
	addSelectionFlags(cmd)
	cmd.Flags().Bool("fail-fast", false, "Stop at the first stale check")
	cmd.Flags().Bool("trace", false, "Log a line per evaluation span")
	return cmd
}
