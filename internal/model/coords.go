package model

import (
	"fmt"

	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// Coords is a latitude/longitude pair in degrees.
type Coords struct {
	Lat float64
	Lng float64
}

// LatLng converts c into an s2.LatLng.
func (c Coords) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(c.Lat, c.Lng)
}

// Valid reports whether c is a finite point within the normal lat/lng range.
func (c Coords) Valid() bool {
	return c.LatLng().IsValid()
}

// DistanceTo returns the great-circle distance to other in kilometers.
func (c Coords) DistanceTo(other Coords) float64 {
	return c.LatLng().Distance(other.LatLng()).Radians() * EarthRadiusKm
}

// String formats c as "lat,lng" with five decimals.
func (c Coords) String() string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lng)
}

func validateCoords(c Coords) error {
	if !c.Valid() {
		return &ValidationError{Field: "coords", Reason: fmt.Sprintf("%v is not a valid location", c)}
	}
	return nil
}
