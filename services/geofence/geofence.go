// Package geofence decides whether a clock event happened on site.
package geofence

import (
	"fmt"
	"math"

	"attendance/errors"
)

// EarthRadiusMeters is the mean earth radius used by the haversine formula
const EarthRadiusMeters = 6371000.0

// Point is a WGS84 coordinate in degrees
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewPoint builds a point from optional coordinates; both must be set or both nil.
func NewPoint(lat, lon *float64) (*Point, error) {
	if lat == nil && lon == nil {
		return nil, nil
	}
	if lat == nil || lon == nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidCoordinate, "latitude and longitude must be given together", nil)
	}
	p := Point{Latitude: *lat, Longitude: *lon}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate rejects coordinates outside [-90,90] x [-180,180]
func (p Point) Validate() error {
	if math.IsNaN(p.Latitude) || p.Latitude < -90 || p.Latitude > 90 {
		return errors.NewAppError(errors.ErrCodeInvalidCoordinate, fmt.Sprintf("latitude %v out of range", p.Latitude), nil)
	}
	if math.IsNaN(p.Longitude) || p.Longitude < -180 || p.Longitude > 180 {
		return errors.NewAppError(errors.ErrCodeInvalidCoordinate, fmt.Sprintf("longitude %v out of range", p.Longitude), nil)
	}
	return nil
}

// Distance returns the great-circle distance between a and b in meters
func Distance(a, b Point) float64 {
	lat1, lon1 := a.Latitude*(math.Pi/180), a.Longitude*(math.Pi/180)
	lat2, lon2 := b.Latitude*(math.Pi/180), b.Longitude*(math.Pi/180)
	dLat, dLon := lat2-lat1, lon2-lon1

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// IsWithinRadius reports whether point lies within radiusMeters of office.
// A nil office means no location is configured and every point is accepted.
func IsWithinRadius(office *Point, point Point, radiusMeters float64) (bool, error) {
	if err := point.Validate(); err != nil {
		return false, err
	}
	if office == nil {
		return true, nil
	}
	if err := office.Validate(); err != nil {
		return false, err
	}
	if radiusMeters <= 0 || math.IsNaN(radiusMeters) {
		return false, errors.Validation("radius must be positive, got %v", radiusMeters)
	}
	return Distance(*office, point) <= radiusMeters, nil
}
