package geofence

import (
	"math"
	"testing"

	"attendance/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lagosOffice = Point{Latitude: 6.5244, Longitude: 3.3792}

// offsetNorth moves p by meters along its meridian.
func offsetNorth(p Point, meters float64) Point {
	return Point{Latitude: p.Latitude + meters/EarthRadiusMeters*180/math.Pi, Longitude: p.Longitude}
}

func TestDistance(t *testing.T) {
	assert.InDelta(t, 0, Distance(lagosOffice, lagosOffice), 1e-9)

	p := offsetNorth(lagosOffice, 500)
	assert.InDelta(t, 500, Distance(lagosOffice, p), 0.01)
	assert.InDelta(t, Distance(lagosOffice, p), Distance(p, lagosOffice), 1e-9)

	// one degree of longitude on the equator
	assert.InDelta(t, 111195, Distance(Point{0, 0}, Point{0, 1}), 1)
}

func TestIsWithinRadius(t *testing.T) {
	tests := []struct {
		name   string
		point  Point
		radius float64
		want   bool
	}{
		{"same point", lagosOffice, 100, true},
		{"50m away", offsetNorth(lagosOffice, 50), 100, true},
		{"just inside", offsetNorth(lagosOffice, 99.9), 100, true},
		{"just outside", offsetNorth(lagosOffice, 100.5), 100, false},
		{"500m away", offsetNorth(lagosOffice, 500), 100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := IsWithinRadius(&lagosOffice, tt.point, tt.radius)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestIsWithinRadiusWithoutOffice(t *testing.T) {
	ok, err := IsWithinRadius(nil, Point{Latitude: -33.9, Longitude: 151.2}, 100)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsWithinRadiusRejectsBadInput(t *testing.T) {
	_, err := IsWithinRadius(&lagosOffice, Point{Latitude: 91, Longitude: 0}, 100)
	assert.True(t, errors.Is(err, errors.ErrInvalidCoordinate))

	_, err = IsWithinRadius(&lagosOffice, Point{Latitude: 0, Longitude: -180.5}, 100)
	assert.True(t, errors.Is(err, errors.ErrInvalidCoordinate))

	_, err = IsWithinRadius(&Point{Latitude: math.NaN()}, lagosOffice, 100)
	assert.True(t, errors.Is(err, errors.ErrInvalidCoordinate))

	_, err = IsWithinRadius(&lagosOffice, lagosOffice, 0)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestNewPoint(t *testing.T) {
	p, err := NewPoint(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, p)

	lat := 6.5
	_, err = NewPoint(&lat, nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidCoordinate))

	lon := 3.3
	p, err = NewPoint(&lat, &lon)
	require.NoError(t, err)
	assert.Equal(t, Point{Latitude: 6.5, Longitude: 3.3}, *p)
}
