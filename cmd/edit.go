package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/mapty/internal/form"
	"github.com/Tiliavir/mapty/internal/model"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a logged workout",
	Long: `Change a logged workout. Fields that are not given keep their current
value. Changing --type turns a run into a ride or vice versa; the workout
keeps its id, date and location.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	addWorkoutFlags(editCmd)
}

// currentFields returns the form as it would be prefilled for w.
func currentFields(w model.Workout) map[string]string {
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	b := w.Common()
	fields := map[string]string{
		form.FieldType:     string(w.Kind()),
		form.FieldDistance: num(b.Distance),
		form.FieldDuration: num(b.Duration),
	}
	switch w := w.(type) {
	case *model.Running:
		fields[form.FieldCadence] = num(w.Cadence)
	case *model.Cycling:
		fields[form.FieldElevation] = num(w.ElevationGain)
	}
	return fields
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := app.Resolve(args[0])
	if err != nil {
		return err
	}
	current, err := app.Store().FindByID(id)
	if err != nil {
		return err
	}

	updated, err := app.Edit(cmd.Context(), id, formFields(cmd, currentFields(current)))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s).\n", updated.Common().Description, shortID(id))
	printWorkout(cmd.OutOrStdout(), updated)
	return nil
}
