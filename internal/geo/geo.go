package geo

import (
	"math"

	"studyspots/internal/apperr"
)

// EarthRadiusMeters is the mean radius used for spherical distances. PostGIS
// uses the same value when ST_DWithin is called with use_spheroid = false.
const EarthRadiusMeters = 6371008.8

// Point is a longitude/latitude pair in degrees.
type Point struct {
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
}

// Validate checks the coordinate ranges.
func (p Point) Validate() error {
	if math.IsNaN(p.Longitude) || p.Longitude < -180 || p.Longitude > 180 {
		return apperr.Invalid("longitude", "must be between -180 and 180")
	}
	if math.IsNaN(p.Latitude) || p.Latitude < -90 || p.Latitude > 90 {
		return apperr.Invalid("latitude", "must be between -90 and 90")
	}
	return nil
}

// Distance returns the great-circle distance between a and b in meters,
// using the Haversine formula.
func Distance(a, b Point) float64 {
	lat1 := a.Latitude * math.Pi / 180.0
	lat2 := b.Latitude * math.Pi / 180.0
	dLat := lat2 - lat1
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180.0

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}
