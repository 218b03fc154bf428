package model

import "fmt"

// Build creates a new workout of in.Kind at coords.
func Build(in Input, coords Coords) (Workout, error) {
	switch in.Kind {
	case KindRunning:
		return NewRunning(coords, in.Distance, in.Duration, in.Cadence)
	case KindCycling:
		return NewCycling(coords, in.Distance, in.Duration, in.ElevationGain)
	default:
		return nil, &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown workout type %q", in.Kind)}
	}
}

// Edit applies in to w. When the kind is unchanged w is updated in place and
// returned. When the kind changes a new variant is built at w's coords and
// w's ID, CreatedAt, MarkerRef and Clicks are carried over. If in is invalid,
// w is returned untouched together with the error.
func Edit(w Workout, in Input) (Workout, error) {
	if err := ValidateInput(in); err != nil {
		return w, err
	}

	if w.Kind() == in.Kind {
		switch v := w.(type) {
		case *Running:
			v.Distance, v.Duration, v.Cadence = in.Distance, in.Duration, in.Cadence
		case *Cycling:
			v.Distance, v.Duration, v.ElevationGain = in.Distance, in.Duration, in.ElevationGain
		}
		w.RecomputeDerived()
		return w, nil
	}

	old := w.Common()
	next, err := Build(in, old.Coords)
	if err != nil {
		return w, err
	}
	nb := next.Common()
	nb.ID = old.ID
	nb.CreatedAt = old.CreatedAt
	nb.MarkerRef = old.MarkerRef
	nb.Clicks = old.Clicks
	next.RecomputeDerived()
	return next, nil
}
