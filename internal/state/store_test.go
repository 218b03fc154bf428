package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/mapty/internal/model"
	"github.com/Tiliavir/mapty/internal/state"
)

var home = model.Coords{Lat: 23, Lng: 125}

func running(t *testing.T, distance float64) *model.Running {
	t.Helper()
	r, err := model.NewRunning(home, distance, 50, 170)
	require.NoError(t, err)
	return r
}

func distances(ws []model.Workout) []float64 {
	out := make([]float64, len(ws))
	for i, w := range ws {
		out[i] = w.Common().Distance
	}
	return out
}

func TestAddKeepsInsertionOrder(t *testing.T) {
	s := state.New()
	s.Add(running(t, 10))
	s.Add(running(t, 3))
	s.Add(running(t, 7))

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []float64{10, 3, 7}, distances(s.All()))
}

func TestSortByDistance(t *testing.T) {
	s := state.New()
	s.Add(running(t, 10))
	s.Add(running(t, 3))
	s.Add(running(t, 7))

	assert.Equal(t, []float64{3, 7, 10}, distances(s.SortByDistance(true)))
	assert.Equal(t, []float64{10, 3, 7}, distances(s.SortByDistance(false)))
	// Stored order is untouched.
	assert.Equal(t, []float64{10, 3, 7}, distances(s.All()))
}

func TestSortByDistanceIsStable(t *testing.T) {
	s := state.New()
	a, b, c := running(t, 5), running(t, 2), running(t, 5)
	s.Add(a)
	s.Add(b)
	s.Add(c)

	sorted := s.SortByDistance(true)
	require.Len(t, sorted, 3)
	assert.Same(t, b, sorted[0])
	assert.Same(t, a, sorted[1])
	assert.Same(t, c, sorted[2])
}

func TestFindByID(t *testing.T) {
	s := state.New()
	r := running(t, 10)
	s.Add(r)

	got, err := s.FindByID(r.ID)
	require.NoError(t, err)
	assert.Same(t, r, got)

	_, err = s.FindByID("missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRemove(t *testing.T) {
	s := state.New()
	a, b := running(t, 1), running(t, 2)
	s.Add(a)
	s.Add(b)

	require.NoError(t, s.Remove(a.ID))
	assert.Equal(t, []float64{2}, distances(s.All()))

	assert.ErrorIs(t, s.Remove(a.ID), model.ErrNotFound)
	assert.Equal(t, 1, s.Len())
}

func TestReplacePreservesPosition(t *testing.T) {
	s := state.New()
	a, b, c := running(t, 1), running(t, 2), running(t, 3)
	s.Add(a)
	s.Add(b)
	s.Add(c)

	edited, err := model.Edit(b, model.Input{Kind: model.KindCycling, Distance: 20, Duration: 60, ElevationGain: 10})
	require.NoError(t, err)
	require.NoError(t, s.Replace(edited))

	all := s.All()
	assert.Equal(t, []float64{1, 20, 3}, distances(all))
	assert.Equal(t, model.KindCycling, all[1].Kind())
	assert.Equal(t, b.ID, all[1].Common().ID)
}

func TestReplaceUnknown(t *testing.T) {
	s := state.New()
	assert.ErrorIs(t, s.Replace(running(t, 1)), model.ErrNotFound)
}

func TestClearAndLoad(t *testing.T) {
	s := state.New()
	s.Add(running(t, 1))
	s.Clear()
	assert.Zero(t, s.Len())

	s.Load([]model.Workout{running(t, 4), running(t, 5)})
	assert.Equal(t, []float64{4, 5}, distances(s.All()))
}

func TestActivate(t *testing.T) {
	s := state.New()
	r := running(t, 1)
	s.Add(r)

	_, err := s.Activate(r.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Clicks)

	_, err = s.Activate("nope")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSubscribeReceivesChanges(t *testing.T) {
	s := state.New()
	var got []state.ChangeKind
	s.Subscribe(func(c state.Change) { got = append(got, c.Kind) })

	r := running(t, 1)
	s.Add(r)
	_, _ = s.Activate(r.ID)
	require.NoError(t, s.Replace(r))
	require.NoError(t, s.Remove(r.ID))
	s.Load(nil)
	s.Clear()
	_ = s.Remove("missing")

	assert.Equal(t, []state.ChangeKind{
		state.ChangeAdded,
		state.ChangeActivated,
		state.ChangeReplaced,
		state.ChangeRemoved,
		state.ChangeLoaded,
		state.ChangeCleared,
	}, got)
}

func TestPendingLocation(t *testing.T) {
	s := state.New()
	_, ok := s.PendingLocation()
	assert.False(t, ok)

	s.SetPendingLocation(home)
	c, ok := s.PendingLocation()
	assert.True(t, ok)
	assert.Equal(t, home, c)

	s.ClearPendingLocation()
	_, ok = s.PendingLocation()
	assert.False(t, ok)
}
