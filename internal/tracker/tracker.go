// Package tracker wires the workout core to its collaborators: it loads the
// stored collection at startup, applies user actions to the state store and
// saves after every mutation.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Tiliavir/mapty/internal/codec"
	"github.com/Tiliavir/mapty/internal/form"
	"github.com/Tiliavir/mapty/internal/geo"
	"github.com/Tiliavir/mapty/internal/mapview"
	"github.com/Tiliavir/mapty/internal/model"
	"github.com/Tiliavir/mapty/internal/state"
	"github.com/Tiliavir/mapty/internal/storage"
)

// ErrAmbiguousID is returned by Resolve when a prefix matches several workouts.
var ErrAmbiguousID = errors.New("ambiguous workout id")

// LocationKey is the storage key of the last clicked map location.
const LocationKey = "map_location"

// Options configures a Tracker. Layer, Locator and Logger are optional.
type Options struct {
	Blobs   storage.BlobStore
	Key     string
	Layer   *mapview.Layer
	Locator geo.Locator
	Logger  *slog.Logger
}

// Tracker is the application controller.
type Tracker struct {
	store   *state.Store
	blobs   storage.BlobStore
	key     string
	layer   *mapview.Layer
	locator geo.Locator
	logger  *slog.Logger
}

// New returns a Tracker with an empty collection. Call Load to read the
// stored workouts.
func New(opts Options) *Tracker {
	t := &Tracker{
		store:   state.New(),
		blobs:   opts.Blobs,
		key:     opts.Key,
		layer:   opts.Layer,
		locator: opts.Locator,
		logger:  opts.Logger,
	}
	if t.key == "" {
		t.key = "workouts"
	}
	if t.layer == nil {
		t.layer = mapview.NewLayer()
	}
	if t.locator == nil {
		t.locator = geo.Chain{}
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	t.store.Subscribe(t.layer.Apply)
	t.store.Subscribe(func(c state.Change) {
		attrs := []any{"change", c.Kind}
		if c.Workout != nil {
			attrs = append(attrs, "id", c.Workout.Common().ID, "kind", c.Workout.Kind())
		}
		t.logger.Debug("workouts changed", attrs...)
	})
	return t
}

// Store exposes the underlying state store for read access.
func (t *Tracker) Store() *state.Store { return t.store }

// Layer returns the marker layer.
func (t *Tracker) Layer() *mapview.Layer { return t.layer }

// Load centres the map on the device location, if one is available, and
// replaces the collection with the stored workouts. Corrupt stored data is
// moved aside and treated as an empty collection; Load fails if it cannot
// be moved.
func (t *Tracker) Load(ctx context.Context) error {
	if _, err := t.Locate(ctx); err != nil {
		t.logger.Info("starting without map centre", "error", err)
	}

	data, err := t.blobs.Get(ctx, t.key)
	if err != nil {
		return err
	}
	workouts, ok := codec.LoadOrEmpty(data, t.logger.With("key", t.key))
	if !ok {
		if err := t.blobs.Quarantine(ctx, t.key); err != nil {
			return fmt.Errorf("backing up unreadable workouts: %w", err)
		}
	}
	t.store.Load(workouts)

	if err := t.loadPendingLocation(ctx); err != nil {
		return err
	}
	t.logger.Debug("workouts loaded", "count", t.store.Len())
	return nil
}

// Locate looks up the device location and centres the map on it.
func (t *Tracker) Locate(ctx context.Context) (model.Coords, error) {
	coords, err := t.locator.Locate(ctx)
	if err != nil {
		return model.Coords{}, err
	}
	t.layer.Center(coords)
	return coords, nil
}

func (t *Tracker) loadPendingLocation(ctx context.Context) error {
	data, err := t.blobs.Get(ctx, LocationKey)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}
	coords, err := codec.DecodeCoords(data)
	if err != nil {
		t.logger.Warn("ignoring stored map location", "error", err)
		return nil
	}
	t.store.SetPendingLocation(coords)
	return nil
}

// Click records the map location the next workout will be logged at.
func (t *Tracker) Click(ctx context.Context, coords model.Coords) error {
	if !coords.Valid() {
		return &model.ValidationError{Field: "coords", Reason: fmt.Sprintf("%v is not a valid location", coords)}
	}
	t.store.SetPendingLocation(coords)
	data, err := codec.EncodeCoords(coords)
	if err != nil {
		return err
	}
	return t.blobs.Set(ctx, LocationKey, data)
}

// PendingLocation returns the last clicked location, if any.
func (t *Tracker) PendingLocation() (model.Coords, bool) {
	return t.store.PendingLocation()
}

// Create validates the submitted form fields and logs a new workout at the
// pending location. Invalid input leaves the collection untouched.
func (t *Tracker) Create(ctx context.Context, fields map[string]string) (model.Workout, error) {
	in, err := form.ParseAndValidate(fields)
	if err != nil {
		return nil, err
	}
	coords, ok := t.store.PendingLocation()
	if !ok {
		return nil, &model.ValidationError{Field: "coords", Reason: "no map location selected"}
	}
	w, err := model.Build(in, coords)
	if err != nil {
		return nil, err
	}

	t.store.Add(w)
	if err := t.save(ctx); err != nil {
		return w, err
	}
	t.store.ClearPendingLocation()
	return w, t.blobs.Delete(ctx, LocationKey)
}

// Edit applies the submitted form fields to the workout with id. A change of
// type replaces the workout with the other variant, keeping its identity.
func (t *Tracker) Edit(ctx context.Context, id string, fields map[string]string) (model.Workout, error) {
	current, err := t.store.FindByID(id)
	if err != nil {
		return nil, err
	}
	in, err := form.ParseAndValidate(fields)
	if err != nil {
		return nil, err
	}
	updated, err := model.Edit(current, in)
	if err != nil {
		return nil, err
	}
	if err := t.store.Replace(updated); err != nil {
		return nil, err
	}
	return updated, t.save(ctx)
}

// Activate centres the map on the workout with id and counts the interaction.
func (t *Tracker) Activate(ctx context.Context, id string) (model.Workout, error) {
	w, err := t.store.Activate(id)
	if err != nil {
		return nil, err
	}
	return w, t.save(ctx)
}

// Delete removes the workout with id and its marker.
func (t *Tracker) Delete(ctx context.Context, id string) error {
	if err := t.store.Remove(id); err != nil {
		return err
	}
	return t.save(ctx)
}

// ClearAll removes every workout and marker and deletes the stored blob.
func (t *Tracker) ClearAll(ctx context.Context) error {
	t.store.Clear()
	return t.blobs.Delete(ctx, t.key)
}

// Workouts returns the workouts sorted by ascending distance or in
// insertion order.
func (t *Tracker) Workouts(sorted bool) []model.Workout {
	return t.store.SortByDistance(sorted)
}

// Resolve finds the single workout whose id starts with prefix.
func (t *Tracker) Resolve(prefix string) (string, error) {
	if w, err := t.store.FindByID(prefix); err == nil {
		return w.Common().ID, nil
	}
	var match string
	for _, w := range t.store.All() {
		id := w.Common().ID
		if prefix != "" && strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", fmt.Errorf("%w: %q", ErrAmbiguousID, prefix)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", model.ErrNotFound, prefix)
	}
	return match, nil
}

func (t *Tracker) save(ctx context.Context) error {
	data, err := codec.Serialize(t.store.All())
	if err != nil {
		return err
	}
	return t.blobs.Set(ctx, t.key, data)
}

// IsUserError reports whether err was caused by bad input rather than by
// storage or the environment.
func IsUserError(err error) bool {
	return errors.Is(err, model.ErrInvalidInput) ||
		errors.Is(err, model.ErrNotFound) ||
		errors.Is(err, ErrAmbiguousID)
}
