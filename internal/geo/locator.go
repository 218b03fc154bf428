// Package geo resolves the device location used to centre the map.
package geo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/mapty/internal/model"
)

// Locator performs a one-shot location lookup. Failures match
// model.ErrLocationUnavailable.
type Locator interface {
	Locate(ctx context.Context) (model.Coords, error)
}

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrLocationUnavailable, fmt.Sprintf(format, args...))
}

// Static always answers with a configured location.
type Static struct {
	Coords model.Coords
	// Known is false when no location was configured.
	Known bool
}

// Locate returns the configured location.
func (s Static) Locate(ctx context.Context) (model.Coords, error) {
	if err := ctx.Err(); err != nil {
		return model.Coords{}, unavailable("%v", err)
	}
	if !s.Known {
		return model.Coords{}, unavailable("no home location configured")
	}
	if !s.Coords.Valid() {
		return model.Coords{}, unavailable("configured location %v is out of range", s.Coords)
	}
	return s.Coords, nil
}

// Env reads "lat,lng" from an environment variable.
type Env struct {
	Var    string
	Lookup func(string) (string, bool)
}

// NewEnv returns an Env reading variable name from the process environment.
func NewEnv(name string) Env {
	return Env{Var: name, Lookup: os.LookupEnv}
}

// Locate parses the variable as "lat,lng".
func (e Env) Locate(ctx context.Context) (model.Coords, error) {
	if err := ctx.Err(); err != nil {
		return model.Coords{}, unavailable("%v", err)
	}
	raw, ok := e.Lookup(e.Var)
	if !ok || strings.TrimSpace(raw) == "" {
		return model.Coords{}, unavailable("%s is not set", e.Var)
	}
	c, err := ParseCoords(raw)
	if err != nil {
		return model.Coords{}, unavailable("%s: %v", e.Var, err)
	}
	return c, nil
}

// Chain tries each locator in turn and returns the first success.
type Chain []Locator

// Locate returns the first location found, or all failures joined.
func (c Chain) Locate(ctx context.Context) (model.Coords, error) {
	var errs []error
	for _, l := range c {
		coords, err := l.Locate(ctx)
		if err == nil {
			return coords, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return model.Coords{}, unavailable("no locators configured")
	}
	return model.Coords{}, errors.Join(errs...)
}

// WithTimeout bounds every lookup of l by d.
func WithTimeout(l Locator, d time.Duration) Locator {
	return timeoutLocator{l: l, d: d}
}

type timeoutLocator struct {
	l Locator
	d time.Duration
}

func (t timeoutLocator) Locate(ctx context.Context) (model.Coords, error) {
	if t.d <= 0 {
		return t.l.Locate(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.l.Locate(ctx)
}

// ParseCoords parses "lat,lng" in degrees.
func ParseCoords(s string) (model.Coords, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return model.Coords{}, fmt.Errorf("want \"lat,lng\", got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return model.Coords{}, fmt.Errorf("invalid latitude %q", parts[0])
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return model.Coords{}, fmt.Errorf("invalid longitude %q", parts[1])
	}
	c := model.Coords{Lat: lat, Lng: lng}
	if !c.Valid() {
		return model.Coords{}, fmt.Errorf("%v is not a valid location", c)
	}
	return c, nil
}
