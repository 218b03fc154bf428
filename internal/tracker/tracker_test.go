package tracker_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/mapty/internal/geo"
	"github.com/Tiliavir/mapty/internal/model"
	"github.com/Tiliavir/mapty/internal/storage"
	"github.com/Tiliavir/mapty/internal/tracker"
)

var home = model.Coords{Lat: 23, Lng: 125}

func runForm(distance, duration, cadence string) map[string]string {
	return map[string]string{"type": "running", "distance": distance, "duration": duration, "cadence": cadence}
}

func rideForm(distance, duration, elevation string) map[string]string {
	return map[string]string{"type": "cycling", "distance": distance, "duration": duration, "elevation": elevation}
}

func newTracker(t *testing.T, blobs storage.BlobStore) *tracker.Tracker {
	t.Helper()
	tr := tracker.New(tracker.Options{
		Blobs:   blobs,
		Locator: geo.Static{Coords: home, Known: true},
		Logger:  slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	})
	require.NoError(t, tr.Load(context.Background()))
	return tr
}

func create(t *testing.T, tr *tracker.Tracker, coords model.Coords, fields map[string]string) model.Workout {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, tr.Click(ctx, coords))
	w, err := tr.Create(ctx, fields)
	require.NoError(t, err)
	return w
}

func TestCreateEndToEnd(t *testing.T) {
	blobs := storage.NewFileStore(t.TempDir())
	tr := newTracker(t, blobs)

	w := create(t, tr, home, runForm("10", "50", "170"))

	r, ok := w.(*model.Running)
	require.True(t, ok)
	assert.Equal(t, 5.0, r.Pace)
	assert.Equal(t, home, r.Coords)
	assert.Equal(t, "Running on "+r.CreatedAt.Format("January 2"), r.Description)
	assert.NotEmpty(t, r.MarkerRef)

	_, pending := tr.PendingLocation()
	assert.False(t, pending, "pending location is consumed by Create")

	// A second process sees the same workout, marker included.
	again := newTracker(t, blobs)
	all := again.Workouts(false)
	require.Len(t, all, 1)
	assert.Equal(t, r.ID, all[0].Common().ID)
	assert.Equal(t, r.MarkerRef, all[0].Common().MarkerRef)
	assert.Len(t, again.Layer().Markers(), 1)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	blobs := storage.NewFileStore(t.TempDir())
	tr := newTracker(t, blobs)
	ctx := context.Background()
	require.NoError(t, tr.Click(ctx, home))

	_, err := tr.Create(ctx, runForm("-1", "30", "5"))
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.True(t, tracker.IsUserError(err))

	_, err = tr.Create(ctx, rideForm("10", "0", "5"))
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	assert.Zero(t, tr.Store().Len())
	_, pending := tr.PendingLocation()
	assert.True(t, pending, "failed create keeps the clicked location")

	data, err := blobs.Get(ctx, "workouts")
	require.NoError(t, err)
	assert.Nil(t, data, "nothing persisted")
}

func TestCreateWithoutLocation(t *testing.T) {
	tr := newTracker(t, storage.NewFileStore(t.TempDir()))
	_, err := tr.Create(context.Background(), runForm("10", "50", "170"))
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "coords", verr.Field)
}

func TestClickPersistsAcrossLoads(t *testing.T) {
	blobs := storage.NewFileStore(t.TempDir())
	tr := newTracker(t, blobs)
	require.NoError(t, tr.Click(context.Background(), model.Coords{Lat: 1, Lng: 2}))

	again := newTracker(t, blobs)
	c, ok := again.PendingLocation()
	require.True(t, ok)
	assert.Equal(t, model.Coords{Lat: 1, Lng: 2}, c)

	assert.ErrorIs(t, tr.Click(context.Background(), model.Coords{Lat: 100}), model.ErrInvalidInput)
}

func TestEditChangesKind(t *testing.T) {
	blobs := storage.NewFileStore(t.TempDir())
	tr := newTracker(t, blobs)
	ctx := context.Background()
	first := create(t, tr, home, runForm("10", "50", "170"))
	second := create(t, tr, home, runForm("3", "20", "160"))

	edited, err := tr.Edit(ctx, first.Common().ID, rideForm("30", "90", "250"))
	require.NoError(t, err)

	c, ok := edited.(*model.Cycling)
	require.True(t, ok)
	assert.Equal(t, first.Common().ID, c.ID)
	assert.True(t, first.Common().CreatedAt.Equal(c.CreatedAt))
	assert.Equal(t, first.Common().MarkerRef, c.MarkerRef)
	assert.Equal(t, 20.0, c.Speed)

	// Position in the collection is kept.
	all := tr.Workouts(false)
	require.Len(t, all, 2)
	assert.Equal(t, c.ID, all[0].Common().ID)
	assert.Equal(t, second.Common().ID, all[1].Common().ID)

	// And the marker now shows the new kind.
	m, ok := tr.Layer().Lookup(c.MarkerRef)
	require.True(t, ok)
	assert.Equal(t, model.KindCycling, m.Kind)
	assert.Len(t, tr.Layer().Markers(), 2)

	reloaded := newTracker(t, blobs)
	got, err := reloaded.Store().FindByID(c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.KindCycling, got.Kind())
}

func TestEditInvalidLeavesWorkout(t *testing.T) {
	tr := newTracker(t, storage.NewFileStore(t.TempDir()))
	w := create(t, tr, home, runForm("10", "50", "170"))

	_, err := tr.Edit(context.Background(), w.Common().ID, runForm("10", "", "170"))
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Equal(t, 50.0, w.Common().Duration)

	_, err = tr.Edit(context.Background(), "missing", runForm("10", "50", "170"))
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestActivate(t *testing.T) {
	blobs := storage.NewFileStore(t.TempDir())
	tr := newTracker(t, blobs)
	w := create(t, tr, model.Coords{Lat: 10, Lng: 20}, runForm("10", "50", "170"))

	_, err := tr.Activate(context.Background(), w.Common().ID)
	require.NoError(t, err)
	assert.Equal(t, 1, w.Common().Clicks)

	centre, ok := tr.Layer().View()
	require.True(t, ok)
	assert.Equal(t, model.Coords{Lat: 10, Lng: 20}, centre)

	reloaded := newTracker(t, blobs)
	got, err := reloaded.Store().FindByID(w.Common().ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Common().Clicks)
}

func TestDeleteAndClear(t *testing.T) {
	blobs := storage.NewFileStore(t.TempDir())
	tr := newTracker(t, blobs)
	ctx := context.Background()
	a := create(t, tr, home, runForm("10", "50", "170"))
	create(t, tr, home, rideForm("20", "60", "100"))

	require.NoError(t, tr.Delete(ctx, a.Common().ID))
	assert.Equal(t, 1, tr.Store().Len())
	assert.Len(t, tr.Layer().Markers(), 1)
	assert.ErrorIs(t, tr.Delete(ctx, a.Common().ID), model.ErrNotFound)

	require.NoError(t, tr.ClearAll(ctx))
	assert.Zero(t, tr.Store().Len())
	assert.Empty(t, tr.Layer().Markers())

	data, err := blobs.Get(ctx, "workouts")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestWorkoutsSorted(t *testing.T) {
	tr := newTracker(t, storage.NewFileStore(t.TempDir()))
	for _, d := range []string{"10", "3", "7"} {
		create(t, tr, home, runForm(d, "50", "170"))
	}

	distances := func(ws []model.Workout) []float64 {
		var out []float64
		for _, w := range ws {
			out = append(out, w.Common().Distance)
		}
		return out
	}
	assert.Equal(t, []float64{3, 7, 10}, distances(tr.Workouts(true)))
	assert.Equal(t, []float64{10, 3, 7}, distances(tr.Workouts(false)))
}

// flakyBlobs fails Delete of one key, and every Quarantine when asked to.
type flakyBlobs struct {
	storage.BlobStore
	failDelete     string
	failQuarantine bool
}

var errDiskFull = errors.New("disk full")

func (f flakyBlobs) Delete(ctx context.Context, key string) error {
	if key == f.failDelete {
		return errDiskFull
	}
	return f.BlobStore.Delete(ctx, key)
}

func (f flakyBlobs) Quarantine(ctx context.Context, key string) error {
	if f.failQuarantine {
		return errDiskFull
	}
	return f.BlobStore.Quarantine(ctx, key)
}

func TestCreateSavesBeforeClearingLocation(t *testing.T) {
	files := storage.NewFileStore(t.TempDir())
	tr := newTracker(t, flakyBlobs{BlobStore: files, failDelete: tracker.LocationKey})
	ctx := context.Background()
	require.NoError(t, tr.Click(ctx, home))

	_, err := tr.Create(ctx, runForm("10", "50", "170"))
	assert.ErrorIs(t, err, errDiskFull)

	assert.Equal(t, 1, newTracker(t, files).Store().Len(), "workout is persisted")
}

func TestLoadFailsWhenBackupFails(t *testing.T) {
	files := storage.NewFileStore(t.TempDir())
	ctx := context.Background()
	corrupt := []byte(`[{"id":"no-kind"}]`)
	require.NoError(t, files.Set(ctx, "workouts", corrupt))

	tr := tracker.New(tracker.Options{
		Blobs:   flakyBlobs{BlobStore: files, failQuarantine: true},
		Locator: geo.Static{Coords: home, Known: true},
		Logger:  slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	})
	assert.ErrorIs(t, tr.Load(ctx), errDiskFull)

	data, err := files.Get(ctx, "workouts")
	require.NoError(t, err)
	assert.Equal(t, corrupt, data, "corrupt blob is left in place")
}

func TestLoadCorruptStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	blobs := storage.NewFileStore(dir)
	ctx := context.Background()
	require.NoError(t, blobs.Set(ctx, "workouts", []byte(`[{"id":"no-kind"}]`)))

	tr := newTracker(t, blobs)
	assert.Zero(t, tr.Store().Len())

	_, err := os.Stat(filepath.Join(dir, "workouts.json.corrupt"))
	assert.NoError(t, err, "corrupt blob is kept as a backup")

	// New workouts can be stored again.
	create(t, tr, home, runForm("5", "25", "170"))
	assert.Equal(t, 1, newTracker(t, blobs).Store().Len())
}

func TestLoadWithoutLocation(t *testing.T) {
	var logs bytes.Buffer
	tr := tracker.New(tracker.Options{
		Blobs:   storage.NewFileStore(t.TempDir()),
		Locator: geo.Static{},
		Logger:  slog.New(slog.NewTextHandler(&logs, nil)),
	})
	require.NoError(t, tr.Load(context.Background()))

	_, ok := tr.Layer().View()
	assert.False(t, ok)
	assert.Contains(t, logs.String(), "starting without map centre")
}

func TestLoadCentresOnLocation(t *testing.T) {
	tr := newTracker(t, storage.NewFileStore(t.TempDir()))
	centre, ok := tr.Layer().View()
	require.True(t, ok)
	assert.Equal(t, home, centre)
}

func TestSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	db, err := storage.OpenSQLite(ctx, filepath.Join(t.TempDir(), "mapty.db"))
	require.NoError(t, err)
	defer db.Close()

	tr := newTracker(t, db)
	w := create(t, tr, home, rideForm("27", "95", "523"))

	again := newTracker(t, db)
	got, err := again.Store().FindByID(w.Common().ID)
	require.NoError(t, err)
	assert.Equal(t, 523.0, got.(*model.Cycling).ElevationGain)
}

func TestResolve(t *testing.T) {
	tr := newTracker(t, storage.NewFileStore(t.TempDir()))
	w := create(t, tr, home, runForm("10", "50", "170"))
	id := w.Common().ID

	got, err := tr.Resolve(id[:8])
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = tr.Resolve("zzzz")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestWeekReport(t *testing.T) {
	tr := newTracker(t, storage.NewFileStore(t.TempDir()))
	run := create(t, tr, home, runForm("10", "50", "170"))
	create(t, tr, home, rideForm("30", "60", "100"))
	old := create(t, tr, home, runForm("5", "30", "170"))
	old.Common().CreatedAt = run.Common().CreatedAt.AddDate(0, 0, -30)

	r := tr.WeekReport(time.Now())
	require.Len(t, r.Totals, 2)
	assert.Equal(t, model.KindCycling, r.Totals[0].Kind)
	assert.Equal(t, 30.0, r.Totals[0].AverageSpeed())
	assert.Equal(t, model.KindRunning, r.Totals[1].Kind)
	assert.Equal(t, 1, r.Totals[1].Count)
	assert.Equal(t, 5.0, r.Totals[1].AveragePace())
	assert.Equal(t, 2, r.Total().Count)
	assert.Equal(t, 40.0, r.Total().Distance)
}

func TestAllTimeReport(t *testing.T) {
	tr := newTracker(t, storage.NewFileStore(t.TempDir()))
	run := create(t, tr, home, runForm("10", "50", "170"))
	old := create(t, tr, home, runForm("5", "30", "170"))
	old.Common().CreatedAt = run.Common().CreatedAt.AddDate(-1, 0, 0)

	r := tr.AllTimeReport()
	assert.Equal(t, "all time", r.Label)
	require.Len(t, r.Totals, 1)
	assert.Equal(t, 2, r.Totals[0].Count)
	assert.Equal(t, 15.0, r.Totals[0].Distance)
}

func TestNearest(t *testing.T) {
	tr := newTracker(t, storage.NewFileStore(t.TempDir()))
	far := create(t, tr, model.Coords{Lat: 50, Lng: 10}, runForm("10", "50", "170"))
	near := create(t, tr, model.Coords{Lat: 23.1, Lng: 125.1}, runForm("10", "50", "170"))

	got := tr.Nearest(home)
	require.Len(t, got, 2)
	assert.Equal(t, near.Common().ID, got[0].Common().ID)
	assert.Equal(t, far.Common().ID, got[1].Common().ID)
}
