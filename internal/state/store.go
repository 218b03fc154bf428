// Package state holds the in-memory workout collection and the last
// clicked map location. It never renders or persists; callers subscribe to
// change notifications and save after each mutation.
package state

import (
	"fmt"
	"slices"

	"github.com/Tiliavir/mapty/internal/model"
)

// ChangeKind names the mutation that produced a Change.
type ChangeKind string

const (
	ChangeAdded     ChangeKind = "added"
	ChangeRemoved   ChangeKind = "removed"
	ChangeReplaced  ChangeKind = "replaced"
	ChangeCleared   ChangeKind = "cleared"
	ChangeLoaded    ChangeKind = "loaded"
	ChangeActivated ChangeKind = "activated"
)

// Change is emitted after every mutation. Workout is the affected entry and
// Previous the entry it displaced (ChangeReplaced, ChangeRemoved). Loaded
// holds the new collection for ChangeLoaded.
type Change struct {
	Kind     ChangeKind
	Workout  model.Workout
	Previous model.Workout
	Loaded   []model.Workout
}

// Store is the workout collection in insertion order.
type Store struct {
	workouts   []model.Workout
	pending    model.Coords
	hasPending bool
	listeners  []func(Change)
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Subscribe registers fn to receive every subsequent Change.
func (s *Store) Subscribe(fn func(Change)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Store) emit(c Change) {
	for _, fn := range s.listeners {
		fn(c)
	}
}

// Load replaces the whole collection.
func (s *Store) Load(workouts []model.Workout) {
	s.workouts = slices.Clone(workouts)
	s.emit(Change{Kind: ChangeLoaded, Loaded: s.All()})
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []model.Workout {
	return slices.Clone(s.workouts)
}

// Len returns the number of workouts.
func (s *Store) Len() int { return len(s.workouts) }

// Add appends w.
func (s *Store) Add(w model.Workout) {
	s.workouts = append(s.workouts, w)
	s.emit(Change{Kind: ChangeAdded, Workout: w})
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.workouts, func(w model.Workout) bool {
		return w.Common().ID == id
	})
}

// FindByID returns the workout with the given id or model.ErrNotFound.
func (s *Store) FindByID(id string) (model.Workout, error) {
	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	return s.workouts[i], nil
}

// Remove deletes the workout with the given id.
func (s *Store) Remove(id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	removed := s.workouts[i]
	s.workouts = slices.Delete(s.workouts, i, i+1)
	s.emit(Change{Kind: ChangeRemoved, Previous: removed})
	return nil
}

// Replace substitutes the workout sharing w's id, keeping its position.
func (s *Store) Replace(w model.Workout) error {
	i := s.indexOf(w.Common().ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", model.ErrNotFound, w.Common().ID)
	}
	prev := s.workouts[i]
	s.workouts[i] = w
	s.emit(Change{Kind: ChangeReplaced, Workout: w, Previous: prev})
	return nil
}

// Activate increments the interaction counter of the workout with the given id.
func (s *Store) Activate(id string) (model.Workout, error) {
	w, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	w.Activate()
	s.emit(Change{Kind: ChangeActivated, Workout: w})
	return w, nil
}

// Clear empties the collection.
func (s *Store) Clear() {
	s.workouts = nil
	s.emit(Change{Kind: ChangeCleared})
}

// SortByDistance returns a new slice ordered by ascending distance when
// ascending is true, or in insertion order otherwise. Stored order is never
// changed and ties keep insertion order.
func (s *Store) SortByDistance(ascending bool) []model.Workout {
	out := slices.Clone(s.workouts)
	if !ascending {
		return out
	}
	slices.SortStableFunc(out, func(a, b model.Workout) int {
		da, db := a.Common().Distance, b.Common().Distance
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		default:
			return 0
		}
	})
	return out
}

// SetPendingLocation records the last clicked map location.
func (s *Store) SetPendingLocation(c model.Coords) {
	s.pending = c
	s.hasPending = true
}

// PendingLocation returns the last clicked location, if any.
func (s *Store) PendingLocation() (model.Coords, bool) {
	return s.pending, s.hasPending
}

// ClearPendingLocation forgets the clicked location.
func (s *Store) ClearPendingLocation() {
	s.pending = model.Coords{}
	s.hasPending = false
}
