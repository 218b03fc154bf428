package timecalc

import (
	"fmt"
	"math"
	"time"
)

// toSeconds rounds a duration in minutes to whole seconds.
func toSeconds(minutes float64) int64 {
	return int64(math.Round(minutes * 60))
}

// FormatMinutes formats a duration in minutes as "1h 40m", "45m" or "30s".
func FormatMinutes(minutes float64) string {
	seconds := toSeconds(minutes)
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// FormatMinutesHHMMSS formats a duration in minutes as HH:MM:SS.
func FormatMinutesHHMMSS(minutes float64) string {
	seconds := toSeconds(minutes)
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatPace formats a pace in min/km as "M:SS".
func FormatPace(pace float64) string {
	seconds := toSeconds(pace)
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	monday := t.AddDate(0, 0, -(wd - 1))
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
	sunday := monday.AddDate(0, 0, 6)
	sunday = time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 23, 59, 59, 0, t.Location())
	return monday, sunday
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// InRange reports whether t lies in [from, to].
func InRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
