package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the workout variants.
type Kind string

const (
	KindRunning Kind = "running"
	KindCycling Kind = "cycling"
)

// ParseKind maps a raw form value onto a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindRunning, KindCycling:
		return k, nil
	default:
		return "", &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown workout type %q", s)}
	}
}

// Title returns the capitalized kind, e.g. "Running".
func (k Kind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// Workout is implemented by *Running and *Cycling only.
type Workout interface {
	Kind() Kind
	// Common exposes the fields shared by every variant.
	Common() *Base
	// RecomputeDerived refreshes pace or speed and the description.
	RecomputeDerived()
	// Activate records one interaction with the workout.
	Activate()

	sealed()
}

// Base holds the fields shared by every workout variant.
type Base struct {
	ID          string
	CreatedAt   time.Time
	Coords      Coords
	Distance    float64 // km
	Duration    float64 // min
	Description string
	MarkerRef   string
	Clicks      int
}

// Now is the clock used to stamp new workouts.
var Now = time.Now

func newBase(coords Coords, distance, duration float64) Base {
	return Base{
		ID:        uuid.NewString(),
		CreatedAt: Now(),
		Coords:    coords,
		Distance:  distance,
		Duration:  duration,
	}
}

// Common returns the shared fields.
func (b *Base) Common() *Base { return b }

// Activate counts one user interaction.
func (b *Base) Activate() { b.Clicks++ }

// describe uses the creation date, never the edit date.
func (b *Base) describe(k Kind) {
	b.Description = fmt.Sprintf("%s on %s %d", k.Title(), b.CreatedAt.Month(), b.CreatedAt.Day())
}

// Running is a run with cadence in steps/min and pace in min/km.
type Running struct {
	Base
	Cadence float64
	Pace    float64
}

// NewRunning validates its inputs and returns a Running with derived fields set.
func NewRunning(coords Coords, distance, duration, cadence float64) (*Running, error) {
	if err := validateCoords(coords); err != nil {
		return nil, err
	}
	in := Input{Kind: KindRunning, Distance: distance, Duration: duration, Cadence: cadence}
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	r := &Running{Base: newBase(coords, distance, duration), Cadence: cadence}
	r.RecomputeDerived()
	return r, nil
}

func (*Running) Kind() Kind { return KindRunning }

// RecomputeDerived sets Pace in min/km and the description.
func (r *Running) RecomputeDerived() {
	r.Pace = r.Duration / r.Distance
	r.describe(KindRunning)
}

func (*Running) sealed() {}

// Cycling is a ride with elevation gain in meters and speed in km/h.
type Cycling struct {
	Base
	ElevationGain float64
	Speed         float64
}

// NewCycling validates its inputs and returns a Cycling with derived fields set.
func NewCycling(coords Coords, distance, duration, elevationGain float64) (*Cycling, error) {
	if err := validateCoords(coords); err != nil {
		return nil, err
	}
	in := Input{Kind: KindCycling, Distance: distance, Duration: duration, ElevationGain: elevationGain}
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	c := &Cycling{Base: newBase(coords, distance, duration), ElevationGain: elevationGain}
	c.RecomputeDerived()
	return c, nil
}

func (*Cycling) Kind() Kind { return KindCycling }

// RecomputeDerived sets Speed in km/h and the description.
func (c *Cycling) RecomputeDerived() {
	c.Speed = c.Distance / (c.Duration / 60)
	c.describe(KindCycling)
}

func (*Cycling) sealed() {}
