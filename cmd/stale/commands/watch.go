package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/stale/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [checks...]",
		Short: "Re-evaluate checks whenever their files change",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			debounce, _ := cmd.Flags().GetDuration("debounce")
			trace, _ := cmd.Flags().GetBool("trace")

			return c.app.Watch(cmd.Context(), app.WatchRequest{
				Selection: selectionFromFlags(cmd, args),
				Debounce:  debounce,
				Trace:     trace,
			})
		},
	}
	addSelectionFlags(cmd)
	cmd.Flags().Duration("debounce", app.DefaultDebounce, "Quiet period after the last change before re-evaluating")
	cmd.Flags().Bool("trace", false, "Log a line per evaluation span")
	return cmd
}
