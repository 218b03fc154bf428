package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/mapty/internal/model"
	"github.com/Tiliavir/mapty/internal/timecalc"
	"github.com/Tiliavir/mapty/internal/tracker"
)

var (
	reportWeek   bool
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show totals per workout type",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportWeek, "week", true, "Report for this week; --week=false covers every workout")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

func runReport(cmd *cobra.Command, args []string) error {
	var r tracker.Report
	if reportWeek {
		r = app.WeekReport(time.Now())
	} else {
		r = app.AllTimeReport()
	}
	out := cmd.OutOrStdout()

	switch reportFormat {
	case "csv":
		printReportCSV(out, r)
	case "json":
		return printReportJSON(out, r)
	case "md":
		printReport(out, r)
	default:
		return usagef("unknown report format %q (want md, csv or json)", reportFormat)
	}
	return nil
}

func printReport(out io.Writer, r tracker.Report) {
	if r.From.IsZero() {
		fmt.Fprintln(out, "All workouts")
	} else {
		fmt.Fprintf(out, "Week %s\n", r.Label)
	}
	fmt.Fprintln(out, "------------------------------------------------")
	for _, k := range r.Totals {
		fmt.Fprintf(out, "%-10s%3d  %7.1f km  %8s  %s\n", k.Kind.Title(), k.Count, k.Distance,
			timecalc.FormatMinutes(k.Duration), average(k))
	}
	total := r.Total()
	fmt.Fprintln(out, "------------------------------------------------")
	fmt.Fprintf(out, "%-10s%3d  %7.1f km  %8s\n", "Total", total.Count, total.Distance, timecalc.FormatMinutes(total.Duration))
}

// average renders the kind's headline figure: pace for runs, speed for rides.
func average(k tracker.KindTotals) string {
	if k.Kind == model.KindRunning {
		return timecalc.FormatPace(k.AveragePace()) + " min/km"
	}
	return fmt.Sprintf("%.1f km/h", k.AverageSpeed())
}

func printReportCSV(out io.Writer, r tracker.Report) {
	fmt.Fprintln(out, "type,count,distance_km,duration_minutes")
	for _, k := range r.Totals {
		fmt.Fprintf(out, "%s,%d,%.2f,%.0f\n", k.Kind, k.Count, k.Distance, k.Duration)
	}
}

type reportJSON struct {
	Period        string      `json:"period"`
	Types         []totalJSON `json:"types"`
	TotalDistance float64     `json:"total_distance_km"`
	TotalMinutes  float64     `json:"total_minutes"`
}

type totalJSON struct {
	Type     string  `json:"type"`
	Count    int     `json:"count"`
	Distance float64 `json:"distance_km"`
	Minutes  float64 `json:"duration_minutes"`
}

func printReportJSON(out io.Writer, r tracker.Report) error {
	doc := reportJSON{Period: r.Label, Types: []totalJSON{}}
	for _, k := range r.Totals {
		doc.Types = append(doc.Types, totalJSON{Type: string(k.Kind), Count: k.Count, Distance: k.Distance, Minutes: k.Duration})
	}
	total := r.Total()
	doc.TotalDistance = total.Distance
	doc.TotalMinutes = total.Duration

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding JSON: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}
