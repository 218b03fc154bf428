// Package mapview is the marker layer workouts are rendered onto. It hands
// out opaque marker references and can export its markers as GeoJSON.
package mapview

import (
	"encoding/json"
	"fmt"

	"github.com/Tiliavir/mapty/internal/model"
	"github.com/Tiliavir/mapty/internal/state"
)

// ZoomLevel is the zoom used when centring on a workout.
const ZoomLevel = 13

// Marker is one rendered workout.
type Marker struct {
	Ref       string
	WorkoutID string
	Kind      model.Kind
	Coords    model.Coords
	Popup     string
}

// Layer holds the markers currently on the map.
type Layer struct {
	markers map[string]Marker
	order   []string
	next    int
	center  *model.Coords
}

// NewLayer returns an empty layer with no centre.
func NewLayer() *Layer {
	return &Layer{markers: map[string]Marker{}}
}

// Popup returns the marker popup text for w.
func Popup(w model.Workout) string {
	icon := "🚴‍♀️"
	if w.Kind() == model.KindRunning {
		icon = "🏃‍♂️"
	}
	return icon + " " + w.Common().Description
}

// Place adds a marker for w and returns its reference. w's existing
// MarkerRef is reused when it is not already on the layer.
func (l *Layer) Place(w model.Workout) string {
	b := w.Common()
	ref := b.MarkerRef
	if _, taken := l.markers[ref]; ref == "" || taken {
		ref = l.newRef()
	}
	l.markers[ref] = Marker{
		Ref:       ref,
		WorkoutID: b.ID,
		Kind:      w.Kind(),
		Coords:    b.Coords,
		Popup:     Popup(w),
	}
	l.order = append(l.order, ref)
	return ref
}

func (l *Layer) newRef() string {
	for {
		l.next++
		ref := fmt.Sprintf("m%d", l.next)
		if _, taken := l.markers[ref]; !taken {
			return ref
		}
	}
}

// Remove drops the marker with ref; unknown refs are ignored.
func (l *Layer) Remove(ref string) {
	if _, ok := l.markers[ref]; !ok {
		return
	}
	delete(l.markers, ref)
	for i, r := range l.order {
		if r == ref {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// Clear removes every marker.
func (l *Layer) Clear() {
	l.markers = map[string]Marker{}
	l.order = nil
}

// Center pans the view to c.
func (l *Layer) Center(c model.Coords) {
	l.center = &c
}

// View returns the current view centre, if one was set.
func (l *Layer) View() (model.Coords, bool) {
	if l.center == nil {
		return model.Coords{}, false
	}
	return *l.center, true
}

// Markers returns the markers in placement order.
func (l *Layer) Markers() []Marker {
	out := make([]Marker, 0, len(l.order))
	for _, ref := range l.order {
		out = append(out, l.markers[ref])
	}
	return out
}

// Lookup returns the marker with ref.
func (l *Layer) Lookup(ref string) (Marker, bool) {
	m, ok := l.markers[ref]
	return m, ok
}

// Apply keeps the layer in step with a state.Store change. Newly placed
// markers write their reference back onto the workout.
func (l *Layer) Apply(c state.Change) {
	switch c.Kind {
	case state.ChangeAdded:
		c.Workout.Common().MarkerRef = l.Place(c.Workout)
	case state.ChangeRemoved:
		l.Remove(c.Previous.Common().MarkerRef)
	case state.ChangeReplaced:
		l.Remove(c.Previous.Common().MarkerRef)
		c.Workout.Common().MarkerRef = l.Place(c.Workout)
	case state.ChangeCleared:
		l.Clear()
	case state.ChangeLoaded:
		l.Clear()
		for _, w := range c.Loaded {
			w.Common().MarkerRef = l.Place(w)
		}
	case state.ChangeActivated:
		l.Center(c.Workout.Common().Coords)
	}
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string         `json:"type"`
	Geometry   geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// GeoJSON renders the markers as a FeatureCollection of points. Extra
// properties per workout id are merged into each feature.
func (l *Layer) GeoJSON(extra map[string]map[string]any) ([]byte, error) {
	fc := featureCollection{Type: "FeatureCollection", Features: []feature{}}
	for _, m := range l.Markers() {
		props := map[string]any{
			"marker":     m.Ref,
			"id":         m.WorkoutID,
			"kind":       m.Kind,
			"popup":      m.Popup,
			"popupClass": string(m.Kind) + "-popup",
		}
		for k, v := range extra[m.WorkoutID] {
			props[k] = v
		}
		fc.Features = append(fc.Features, feature{
			Type: "Feature",
			// GeoJSON positions are [lng, lat].
			Geometry:   geometry{Type: "Point", Coordinates: [2]float64{m.Coords.Lng, m.Coords.Lat}},
			Properties: props,
		})
	}
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding GeoJSON: %w", err)
	}
	return data, nil
}
