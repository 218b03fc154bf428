package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/mapty/internal/model"
)

var clickCmd = &cobra.Command{
	Use:   "click <lat> <lng>",
	Short: "Pick the map location for the next workout",
	Args:  cobra.ExactArgs(2),
	RunE:  runClick,
}

func runClick(cmd *cobra.Command, args []string) error {
	coords, err := parseLatLng(args[0], args[1])
	if err != nil {
		return err
	}
	if err := app.Click(cmd.Context(), coords); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Location set to %s. Log a workout with \"mapty add\".\n", coords)
	return nil
}

func parseLatLng(latStr, lngStr string) (model.Coords, error) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return model.Coords{}, usagef("invalid latitude %q", latStr)
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return model.Coords{}, usagef("invalid longitude %q", lngStr)
	}
	return model.Coords{Lat: lat, Lng: lng}, nil
}
