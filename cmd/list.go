package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/mapty/internal/geo"
	"github.com/Tiliavir/mapty/internal/model"
	"github.com/Tiliavir/mapty/internal/timecalc"
)

var (
	listSort bool
	listNear string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged workouts",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listSort, "sort", false, "Sort by ascending distance")
	listCmd.Flags().StringVar(&listNear, "near", "", "Sort by proximity to \"lat,lng\"")
	listCmd.MarkFlagsMutuallyExclusive("sort", "near")
}

func runList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if listNear != "" {
		c, err := geo.ParseCoords(listNear)
		if err != nil {
			return usagef("--near: %v", err)
		}
		printList(out, app.Nearest(c), func(w model.Workout) string {
			return fmt.Sprintf("  %.1f km away", w.Common().Coords.DistanceTo(c))
		})
		return nil
	}
	printList(out, app.Workouts(listSort), nil)
	return nil
}

// shortID abbreviates a workout id for display; Resolve accepts it back.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// printList prints one line per workout. suffix, if set, is appended to
// each line.
func printList(out io.Writer, workouts []model.Workout, suffix func(model.Workout) string) {
	if len(workouts) == 0 {
		fmt.Fprintln(out, "No workouts logged yet. Pick a location with \"mapty click\".")
		return
	}
	for _, w := range workouts {
		line := fmt.Sprintf("%s  %-24s%s", shortID(w.Common().ID), w.Common().Description, summary(w))
		if suffix != nil {
			line += suffix(w)
		}
		fmt.Fprintln(out, line)
	}
}

// summary renders the distance, duration and kind-specific figures of w.
func summary(w model.Workout) string {
	b := w.Common()
	s := fmt.Sprintf("%6.1f km  %8s", b.Distance, timecalc.FormatMinutes(b.Duration))
	switch w := w.(type) {
	case *model.Running:
		s += fmt.Sprintf("  %s min/km  %.0f spm", timecalc.FormatPace(w.Pace), w.Cadence)
	case *model.Cycling:
		s += fmt.Sprintf("  %.1f km/h  %.0f m", w.Speed, w.ElevationGain)
	}
	return s
}

// printWorkout prints every field of w.
func printWorkout(out io.Writer, w model.Workout) {
	b := w.Common()
	fmt.Fprintf(out, "  ID:        %s\n", b.ID)
	fmt.Fprintf(out, "  Type:      %s\n", w.Kind().Title())
	fmt.Fprintf(out, "  Logged:    %s\n", b.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(out, "  Location:  %s\n", b.Coords)
	fmt.Fprintf(out, "  Distance:  %.2f km\n", b.Distance)
	fmt.Fprintf(out, "  Duration:  %s\n", timecalc.FormatMinutesHHMMSS(b.Duration))
	switch w := w.(type) {
	case *model.Running:
		fmt.Fprintf(out, "  Pace:      %s min/km\n", timecalc.FormatPace(w.Pace))
		fmt.Fprintf(out, "  Cadence:   %.0f spm\n", w.Cadence)
	case *model.Cycling:
		fmt.Fprintf(out, "  Speed:     %.1f km/h\n", w.Speed)
		fmt.Fprintf(out, "  Elevation: %.0f m\n", w.ElevationGain)
	}
	if b.MarkerRef != "" {
		fmt.Fprintf(out, "  Marker:    %s\n", b.MarkerRef)
	}
}
