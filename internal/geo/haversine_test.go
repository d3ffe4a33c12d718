package geo_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fitmatch/engine/internal/geo"
)

func TestDistanceKm_SamePointIsZero(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{52.3676, 4.9041},
		{-33.8688, 151.2093},
		{89.9, -179.9},
	}
	for _, p := range points {
		assert.InDelta(t, 0, geo.DistanceKm(p[0], p[1], p[0], p[1]), 1e-9)
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		lat1 := r.Float64()*180 - 90
		lng1 := r.Float64()*360 - 180
		lat2 := r.Float64()*180 - 90
		lng2 := r.Float64()*360 - 180

		d1 := geo.DistanceKm(lat1, lng1, lat2, lng2)
		d2 := geo.DistanceKm(lat2, lng2, lat1, lng1)

		assert.InDelta(t, d1, d2, 1e-9)
		assert.GreaterOrEqual(t, d1, 0.0)
	}
}

func TestDistanceKm_AmsterdamRotterdam(t *testing.T) {
	// Amsterdam -> Rotterdam is roughly 57 km as the crow flies.
	d := geo.DistanceKm(52.3676, 4.9041, 51.9244, 4.4777)
	assert.Greater(t, d, 50.0)
	assert.Less(t, d, 65.0)
}

func TestRoundKm(t *testing.T) {
	assert.Equal(t, 1.0, geo.RoundKm(1.04))
	assert.Equal(t, 1.1, geo.RoundKm(1.05))
	assert.Equal(t, 57.2, geo.RoundKm(57.151))
}
