package cli

import (
	"fmt"

	"github.com/dmitrijs2005/trainpi/internal/timex"
	"github.com/spf13/cobra"
)

// newFormatDurationCmd renders a raw duration value the way the exception
// list does. Flag parsing is off so negative values reach the formatter.
func newFormatDurationCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "format-duration <value>",
		Short:              "Format a duration given in seconds",
		Args:               cobra.ExactArgs(1),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), timex.FormatSeconds(args[0]))
			return nil
		},
	}
}
