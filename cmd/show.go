package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/mapty/internal/mapview"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Centre the map on a workout and show its details",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := app.Resolve(args[0])
	if err != nil {
		return err
	}
	w, err := app.Activate(cmd.Context(), id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, mapview.Popup(w))
	printWorkout(out, w)
	if centre, ok := app.Layer().View(); ok {
		fmt.Fprintf(out, "Map centred on %s (zoom %d).\n", centre, mapview.ZoomLevel)
	}
	return nil
}
