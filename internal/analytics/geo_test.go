package analytics

import (
	"math"
	"testing"
)

func TestDistanceKm_Identity(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{19.1183, 72.8355},
		{-33.8688, 151.2093},
		{89.9, -179.9},
	}
	for _, p := range points {
		if d := DistanceKm(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("DistanceKm(p, p) = %v for %v, want 0", d, p)
		}
	}
}

func TestDistanceKm_Symmetry(t *testing.T) {
	a := [2]float64{19.1183, 72.8355}  // Andheri
	b := [2]float64{19.0612, 72.8392}  // Bandra
	c := [2]float64{-33.8688, 151.2093}

	pairs := [][2][2]float64{{a, b}, {a, c}, {b, c}}
	for _, pair := range pairs {
		d1 := DistanceKm(pair[0][0], pair[0][1], pair[1][0], pair[1][1])
		d2 := DistanceKm(pair[1][0], pair[1][1], pair[0][0], pair[0][1])
		if math.Abs(d1-d2) > 1e-9 {
			t.Errorf("asymmetric distance: %v vs %v for %v", d1, d2, pair)
		}
	}
}

func TestDistanceKm_KnownDistance(t *testing.T) {
	// Andheri to Bandra police stations, roughly 6.4 km apart.
	d := DistanceKm(19.1183, 72.8355, 19.0612, 72.8392)
	if d < 6.2 || d > 6.6 {
		t.Errorf("Andheri-Bandra distance = %v km, want ~6.4", d)
	}

	// One degree of latitude at the equator is ~111.2 km.
	d = DistanceKm(0, 0, 1, 0)
	if math.Abs(d-111.19) > 0.1 {
		t.Errorf("one degree latitude = %v km, want ~111.19", d)
	}
}

func TestDistanceKm_NonNegative(t *testing.T) {
	d := DistanceKm(19.5, 73.5, 19.1, 72.8)
	if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		t.Errorf("distance must be non-negative and finite, got %v", d)
	}
}
