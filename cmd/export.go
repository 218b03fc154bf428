package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/mapty/internal/codec"
	"github.com/Tiliavir/mapty/internal/mapview"
	"github.com/Tiliavir/mapty/internal/model"
	"github.com/Tiliavir/mapty/internal/timecalc"
)

var (
	exportFormat string
	exportWeek   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export workouts to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md, geojson")
	exportCmd.Flags().BoolVar(&exportWeek, "week", false, "Only export this week's workouts")
}

func runExport(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	workouts := app.Workouts(false)
	if exportWeek {
		from, to := timecalc.WeekRange(time.Now())
		var inWeek []model.Workout
		for _, w := range workouts {
			if timecalc.InRange(w.Common().CreatedAt, from, to) {
				inWeek = append(inWeek, w)
			}
		}
		workouts = inWeek
	}

	switch exportFormat {
	case "json":
		data, err := codec.Serialize(workouts)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	case "md":
		printList(out, workouts, nil)
	case "geojson":
		layer := mapview.NewLayer()
		extra := map[string]map[string]any{}
		for _, w := range workouts {
			layer.Place(w)
			extra[w.Common().ID] = geoProperties(w)
		}
		data, err := layer.GeoJSON(extra)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	case "csv":
		printCSV(out, workouts)
	default:
		return usagef("unknown export format %q (want csv, json, md or geojson)", exportFormat)
	}
	return nil
}

// geoProperties are the workout figures attached to its GeoJSON feature.
func geoProperties(w model.Workout) map[string]any {
	b := w.Common()
	props := map[string]any{
		"description": b.Description,
		"distance":    b.Distance,
		"duration":    b.Duration,
		"createdAt":   b.CreatedAt.Format(time.RFC3339),
	}
	switch w := w.(type) {
	case *model.Running:
		props["cadence"] = w.Cadence
		props["pace"] = w.Pace
	case *model.Cycling:
		props["elevationGain"] = w.ElevationGain
		props["speed"] = w.Speed
	}
	return props
}

func printCSV(out io.Writer, workouts []model.Workout) {
	fmt.Fprintln(out, "id,type,date,lat,lng,distance_km,duration_minutes,cadence,elevation_gain,pace,speed,description")
	for _, w := range workouts {
		b := w.Common()
		var cadence, elevation, pace, speed string
		switch w := w.(type) {
		case *model.Running:
			cadence = fmt.Sprintf("%g", w.Cadence)
			pace = fmt.Sprintf("%.2f", w.Pace)
		case *model.Cycling:
			elevation = fmt.Sprintf("%g", w.ElevationGain)
			speed = fmt.Sprintf("%.2f", w.Speed)
		}
		fmt.Fprintf(out, "%s,%s,%s,%g,%g,%g,%g,%s,%s,%s,%s,%s\n",
			csvEscape(b.ID),
			w.Kind(),
			b.CreatedAt.Format("2006-01-02"),
			b.Coords.Lat,
			b.Coords.Lng,
			b.Distance,
			b.Duration,
			cadence,
			elevation,
			pace,
			speed,
			csvEscape(b.Description),
		)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	needsQuote := false
	for _, c := range s {
		if c == ',' || c == '"' || c == '\n' || c == '\r' {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return s
	}
	// Escape internal double quotes by doubling them.
	escaped := ""
	for _, c := range s {
		if c == '"' {
			escaped += "\""
		}
		escaped += string(c)
	}
	return `"` + escaped + `"`
}
