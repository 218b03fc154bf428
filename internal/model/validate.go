package model

import "math"

// Input is the numeric form of a submitted workout form.
// Only the field matching Kind among Cadence and ElevationGain is read.
type Input struct {
	Kind          Kind
	Distance      float64
	Duration      float64
	Cadence       float64
	ElevationGain float64
}

// ValidateInput checks in and returns a *ValidationError for the first bad field.
// Create and edit both go through it.
func ValidateInput(in Input) error {
	if err := positive("distance", in.Distance); err != nil {
		return err
	}
	if err := positive("duration", in.Duration); err != nil {
		return err
	}
	switch in.Kind {
	case KindRunning:
		return positive("cadence", in.Cadence)
	case KindCycling:
		// Elevation gain may be zero or negative (descent-only rides).
		if !finite(in.ElevationGain) {
			return &ValidationError{Field: "elevation", Reason: "must be a number"}
		}
		return nil
	default:
		return &ValidationError{Field: "type", Reason: "must be running or cycling"}
	}
}

func positive(field string, v float64) error {
	if !finite(v) {
		return &ValidationError{Field: field, Reason: "must be a number"}
	}
	if v <= 0 {
		return &ValidationError{Field: field, Reason: "must be positive"}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
