package tracker

import (
	"sort"
	"time"

	"github.com/Tiliavir/mapty/internal/model"
	"github.com/Tiliavir/mapty/internal/timecalc"
)

// KindTotals aggregates the workouts of one kind.
type KindTotals struct {
	Kind     model.Kind
	Count    int
	Distance float64 // km
	Duration float64 // min
}

// AveragePace returns min/km over all workouts of the kind.
func (k KindTotals) AveragePace() float64 {
	if k.Distance == 0 {
		return 0
	}
	return k.Duration / k.Distance
}

// AverageSpeed returns km/h over all workouts of the kind.
func (k KindTotals) AverageSpeed() float64 {
	if k.Duration == 0 {
		return 0
	}
	return k.Distance / (k.Duration / 60)
}

// Report summarises the workouts created in [From, To].
type Report struct {
	Label  string
	From   time.Time
	To     time.Time
	Totals []KindTotals
}

// Total sums every kind.
func (r Report) Total() KindTotals {
	var t KindTotals
	for _, k := range r.Totals {
		t.Count += k.Count
		t.Distance += k.Distance
		t.Duration += k.Duration
	}
	return t
}

// WeekReport summarises the ISO week containing now.
func (t *Tracker) WeekReport(now time.Time) Report {
	from, to := timecalc.WeekRange(now)
	r := Summarise(t.store.All(), from, to)
	r.Label = timecalc.ISOWeekLabel(now)
	return r
}

// AllTimeReport summarises every workout.
func (t *Tracker) AllTimeReport() Report {
	r := Summarise(t.store.All(), time.Time{}, time.Time{})
	r.Label = "all time"
	return r
}

// Summarise aggregates workouts created in [from, to] by kind, sorted by kind.
// A zero from or to leaves that end of the range open.
func Summarise(workouts []model.Workout, from, to time.Time) Report {
	byKind := map[model.Kind]*KindTotals{}
	for _, w := range workouts {
		b := w.Common()
		if (!from.IsZero() && b.CreatedAt.Before(from)) || (!to.IsZero() && b.CreatedAt.After(to)) {
			continue
		}
		k, ok := byKind[w.Kind()]
		if !ok {
			k = &KindTotals{Kind: w.Kind()}
			byKind[w.Kind()] = k
		}
		k.Count++
		k.Distance += b.Distance
		k.Duration += b.Duration
	}

	r := Report{From: from, To: to}
	for _, k := range byKind {
		r.Totals = append(r.Totals, *k)
	}
	sort.Slice(r.Totals, func(i, j int) bool { return r.Totals[i].Kind < r.Totals[j].Kind })
	return r
}

// Nearest returns the workouts ordered by great-circle distance from c.
func (t *Tracker) Nearest(c model.Coords) []model.Workout {
	out := t.store.All()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Common().Coords.DistanceTo(c) < out[j].Common().Coords.DistanceTo(c)
	})
	return out
}
