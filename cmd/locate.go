package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Show the device location the map is centred on",
	Args:  cobra.NoArgs,
	RunE:  runLocate,
}

func runLocate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	coords, err := app.Locate(cmd.Context())
	if err != nil {
		fmt.Fprintln(out, "Location unavailable; the map starts without a centre.")
		return err
	}
	fmt.Fprintf(out, "Map centred on %s.\n", coords)
	if pending, ok := app.PendingLocation(); ok {
		fmt.Fprintf(out, "Next workout will be logged at %s.\n", pending)
	}
	return nil
}
