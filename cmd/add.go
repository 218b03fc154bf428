package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/mapty/internal/form"
	"github.com/Tiliavir/mapty/internal/model"
)

var (
	addLat string
	addLng string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a workout at the picked location",
	Long: `Log a run or ride. The workout is placed at the location picked with
"mapty click", or at --lat/--lng when both are given.`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addWorkoutFlags(addCmd)
	addCmd.Flags().StringVar(&addLat, "lat", "", "Latitude (overrides the clicked location)")
	addCmd.Flags().StringVar(&addLng, "lng", "", "Longitude (overrides the clicked location)")
	addCmd.MarkFlagsRequiredTogether("lat", "lng")
}

// addWorkoutFlags registers the workout form fields on cmd.
func addWorkoutFlags(cmd *cobra.Command) {
	cmd.Flags().String(form.FieldType, string(model.KindRunning), "Workout type: running or cycling")
	cmd.Flags().String(form.FieldDistance, "", "Distance in km")
	cmd.Flags().String(form.FieldDuration, "", "Duration in min")
	cmd.Flags().String(form.FieldCadence, "", "Cadence in steps/min (running)")
	cmd.Flags().String(form.FieldElevation, "", "Elevation gain in m (cycling)")
}

// formFields reads the workout form from cmd's flags. Only flags the user
// set override base.
func formFields(cmd *cobra.Command, base map[string]string) map[string]string {
	fields := map[string]string{}
	for k, v := range base {
		fields[k] = v
	}
	for _, name := range []string{form.FieldType, form.FieldDistance, form.FieldDuration, form.FieldCadence, form.FieldElevation} {
		f := cmd.Flags().Lookup(name)
		if f.Changed || base == nil {
			fields[name] = f.Value.String()
		}
	}
	return fields
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if cmd.Flags().Changed("lat") {
		coords, err := parseLatLng(addLat, addLng)
		if err != nil {
			return err
		}
		if err := app.Click(ctx, coords); err != nil {
			return err
		}
	}

	w, err := app.Create(ctx, formFields(cmd, nil))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged %s (%s).\n", w.Common().Description, shortID(w.Common().ID))
	printWorkout(cmd.OutOrStdout(), w)
	return nil
}
