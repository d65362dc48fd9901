package commands

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

// errInvalidTime is returned when --time is not an RFC 3339 timestamp.
var errInvalidTime = zerr.New("invalid --time, expected RFC 3339")

func (c *CLI) newTouchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "touch <paths...>",
		Short: "Set the modification time of files, creating them if missing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at := time.Now()
			if value, _ := cmd.Flags().GetString("time"); value != "" {
				parsed, err := time.Parse(time.RFC3339, value)
				if err != nil {
					return errors.Join(errInvalidTime, zerr.With(zerr.Wrap(err, "parse"), "time", value))
				}
				at = parsed
			}
			return c.app.Touch(cmd.Context(), args, at)
		},
	}
	cmd.Flags().String("time", "", "Timestamp to set (RFC 3339), defaults to now")
	return cmd
}
