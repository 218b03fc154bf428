// Package codec converts workouts to and from the JSON blob kept in storage.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Tiliavir/mapty/internal/model"
)

// record is the stored shape of one workout. Pointers distinguish missing
// fields from zero values.
type record struct {
	Kind          model.Kind `json:"kind"`
	ID            string     `json:"id"`
	CreatedAt     *time.Time `json:"createdAt"`
	Coords        []float64  `json:"coords"`
	Distance      *float64   `json:"distance"`
	Duration      *float64   `json:"duration"`
	Cadence       *float64   `json:"cadence,omitempty"`
	ElevationGain *float64   `json:"elevationGain,omitempty"`
	MarkerRef     string     `json:"markerRef,omitempty"`
	Clicks        int        `json:"clicks"`
}

// CorruptDataError reports a stored blob that cannot be turned back into
// workouts. It matches model.ErrCorruptData.
type CorruptDataError struct {
	Index  int // record index, -1 when the blob itself is unreadable
	Reason string
	Err    error
}

func (e *CorruptDataError) Error() string {
	msg := "corrupt workout data"
	if e.Index >= 0 {
		msg = fmt.Sprintf("%s at record %d", msg, e.Index)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap matches both model.ErrCorruptData and the underlying cause.
func (e *CorruptDataError) Unwrap() []error {
	if e.Err == nil {
		return []error{model.ErrCorruptData}
	}
	return []error{model.ErrCorruptData, e.Err}
}

// Serialize encodes every workout field, derived fields excluded.
func Serialize(workouts []model.Workout) ([]byte, error) {
	records := make([]record, 0, len(workouts))
	for _, w := range workouts {
		b := w.Common()
		created := b.CreatedAt
		distance, duration := b.Distance, b.Duration
		r := record{
			Kind:      w.Kind(),
			ID:        b.ID,
			CreatedAt: &created,
			Coords:    []float64{b.Coords.Lat, b.Coords.Lng},
			Distance:  &distance,
			Duration:  &duration,
			MarkerRef: b.MarkerRef,
			Clicks:    b.Clicks,
		}
		switch v := w.(type) {
		case *model.Running:
			cadence := v.Cadence
			r.Cadence = &cadence
		case *model.Cycling:
			gain := v.ElevationGain
			r.ElevationGain = &gain
		}
		records = append(records, r)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding workouts: %w", err)
	}
	return data, nil
}

// Deserialize rebuilds workouts from data, dispatching on each record's kind.
// Identity fields are restored from storage; pace, speed and description are
// recomputed. Empty data yields an empty collection.
func Deserialize(data []byte) ([]model.Workout, error) {
	workouts := []model.Workout{}
	if len(bytes.TrimSpace(data)) == 0 {
		return workouts, nil
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &CorruptDataError{Index: -1, Reason: "invalid JSON", Err: err}
	}

	seen := make(map[string]bool, len(records))
	for i, r := range records {
		w, err := rebuild(r)
		if err != nil {
			return nil, &CorruptDataError{Index: i, Reason: err.Error()}
		}
		if seen[r.ID] {
			return nil, &CorruptDataError{Index: i, Reason: fmt.Sprintf("duplicate id %q", r.ID)}
		}
		seen[r.ID] = true
		workouts = append(workouts, w)
	}
	return workouts, nil
}

func rebuild(r record) (model.Workout, error) {
	switch {
	case r.ID == "":
		return nil, errors.New("missing id")
	case r.CreatedAt == nil:
		return nil, errors.New("missing createdAt")
	case len(r.Coords) != 2:
		return nil, fmt.Errorf("coords must hold 2 numbers, got %d", len(r.Coords))
	case r.Distance == nil:
		return nil, errors.New("missing distance")
	case r.Duration == nil:
		return nil, errors.New("missing duration")
	}
	coords := model.Coords{Lat: r.Coords[0], Lng: r.Coords[1]}

	var (
		w   model.Workout
		err error
	)
	switch r.Kind {
	case model.KindRunning:
		if r.Cadence == nil {
			return nil, errors.New("missing cadence")
		}
		w, err = model.NewRunning(coords, *r.Distance, *r.Duration, *r.Cadence)
	case model.KindCycling:
		if r.ElevationGain == nil {
			return nil, errors.New("missing elevationGain")
		}
		w, err = model.NewCycling(coords, *r.Distance, *r.Duration, *r.ElevationGain)
	case "":
		return nil, errors.New("missing kind")
	default:
		return nil, fmt.Errorf("unknown kind %q", r.Kind)
	}
	if err != nil {
		return nil, err
	}

	b := w.Common()
	b.ID = r.ID
	b.CreatedAt = *r.CreatedAt
	b.MarkerRef = r.MarkerRef
	b.Clicks = r.Clicks
	w.RecomputeDerived()
	return w, nil
}

// LoadOrEmpty decodes data and treats corrupt data as no prior data. ok is
// false when data was corrupt.
func LoadOrEmpty(data []byte, logger *slog.Logger) (workouts []model.Workout, ok bool) {
	workouts, err := Deserialize(data)
	if err != nil {
		logger.Warn("ignoring stored workouts", "error", err)
		return []model.Workout{}, false
	}
	return workouts, true
}

// EncodeCoords stores a single location as a [lat, lng] pair.
func EncodeCoords(c model.Coords) ([]byte, error) {
	return json.Marshal([2]float64{c.Lat, c.Lng})
}

// DecodeCoords reads a location written by EncodeCoords.
func DecodeCoords(data []byte) (model.Coords, error) {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return model.Coords{}, &CorruptDataError{Index: -1, Reason: "invalid location", Err: err}
	}
	if len(pair) != 2 {
		return model.Coords{}, &CorruptDataError{Index: -1, Reason: "location must hold 2 numbers"}
	}
	c := model.Coords{Lat: pair[0], Lng: pair[1]}
	if !c.Valid() {
		return model.Coords{}, &CorruptDataError{Index: -1, Reason: fmt.Sprintf("location %v out of range", c)}
	}
	return c, nil
}
