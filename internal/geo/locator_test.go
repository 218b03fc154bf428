package geo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/mapty/internal/geo"
	"github.com/Tiliavir/mapty/internal/model"
)

func env(vals map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vals[k]
		return v, ok
	}
}

func TestStatic(t *testing.T) {
	ctx := context.Background()
	c, err := geo.Static{Coords: model.Coords{Lat: 23, Lng: 125}, Known: true}.Locate(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Coords{Lat: 23, Lng: 125}, c)

	_, err = geo.Static{}.Locate(ctx)
	assert.ErrorIs(t, err, model.ErrLocationUnavailable)

	_, err = geo.Static{Coords: model.Coords{Lat: 95}, Known: true}.Locate(ctx)
	assert.ErrorIs(t, err, model.ErrLocationUnavailable)
}

func TestEnv(t *testing.T) {
	ctx := context.Background()
	l := geo.Env{Var: "MAPTY_LOCATION", Lookup: env(map[string]string{"MAPTY_LOCATION": " 48.1, 11.5 "})}
	c, err := l.Locate(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Coords{Lat: 48.1, Lng: 11.5}, c)

	_, err = geo.Env{Var: "MAPTY_LOCATION", Lookup: env(nil)}.Locate(ctx)
	assert.ErrorIs(t, err, model.ErrLocationUnavailable)

	_, err = geo.Env{Var: "X", Lookup: env(map[string]string{"X": "north"})}.Locate(ctx)
	assert.ErrorIs(t, err, model.ErrLocationUnavailable)
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	want := model.Coords{Lat: 1, Lng: 2}
	c, err := geo.Chain{geo.Static{}, geo.Static{Coords: want, Known: true}}.Locate(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, c)

	_, err = geo.Chain{geo.Static{}, geo.Static{}}.Locate(ctx)
	assert.ErrorIs(t, err, model.ErrLocationUnavailable)

	_, err = geo.Chain{}.Locate(ctx)
	assert.ErrorIs(t, err, model.ErrLocationUnavailable)
}

type blocking struct{}

func (blocking) Locate(ctx context.Context) (model.Coords, error) {
	<-ctx.Done()
	return model.Coords{}, ctx.Err()
}

func TestWithTimeout(t *testing.T) {
	_, err := geo.WithTimeout(blocking{}, 10*time.Millisecond).Locate(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestParseCoords(t *testing.T) {
	c, err := geo.ParseCoords("23,125")
	require.NoError(t, err)
	assert.Equal(t, model.Coords{Lat: 23, Lng: 125}, c)

	for _, bad := range []string{"", "1", "1,2,3", "a,2", "1,b", "91,0", "0,181"} {
		_, err := geo.ParseCoords(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
