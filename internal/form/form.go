// Package form coerces submitted workout form fields into model.Input.
package form

import (
	"math"
	"strconv"
	"strings"

	"github.com/Tiliavir/mapty/internal/model"
)

// Field names emitted by the workout form.
const (
	FieldType      = "type"
	FieldDistance  = "distance"
	FieldDuration  = "duration"
	FieldCadence   = "cadence"
	FieldElevation = "elevation"
)

// Parse converts a flat field map into an Input. Numeric fields that are
// empty or unparsable become NaN so ValidateInput rejects them.
func Parse(fields map[string]string) (model.Input, error) {
	kind, err := model.ParseKind(fields[FieldType])
	if err != nil {
		return model.Input{}, err
	}
	in := model.Input{
		Kind:     kind,
		Distance: number(fields[FieldDistance]),
		Duration: number(fields[FieldDuration]),
	}
	switch kind {
	case model.KindRunning:
		in.Cadence = number(fields[FieldCadence])
	case model.KindCycling:
		in.ElevationGain = number(fields[FieldElevation])
	}
	return in, nil
}

// ParseAndValidate is Parse followed by model.ValidateInput.
func ParseAndValidate(fields map[string]string) (model.Input, error) {
	in, err := Parse(fields)
	if err != nil {
		return in, err
	}
	return in, model.ValidateInput(in)
}

func number(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
