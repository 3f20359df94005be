package geo

import (
	"errors"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000

var ErrInvalidCoordinate = errors.New("invalid coordinate")

type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Validate rejects NaN, infinite and out-of-range values.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return ErrInvalidCoordinate
	}
	if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b Coordinate) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	lat1Rad := toRadians(a.Latitude)
	lat2Rad := toRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// Geofence is a circular area around Center.
type Geofence struct {
	Center       Coordinate
	RadiusMeters float64
}

func NewGeofence(lat, lon, radiusMeters float64) Geofence {
	return Geofence{
		Center:       Coordinate{Latitude: lat, Longitude: lon},
		RadiusMeters: radiusMeters,
	}
}

// Contains reports whether p lies within the radius. The boundary is inclusive.
func (g Geofence) Contains(p Coordinate) bool {
	return Distance(g.Center, p) <= g.RadiusMeters
}
