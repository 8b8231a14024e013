package geo

import (
	"fmt"
	"math"
	"testing"
)

func ExampleHaversineKm() {
	// Port Tudy to Pen Men, across the island.
	fmt.Printf("%.2f km\n", HaversineKm(47.6446, -3.4468, 47.6497, -3.5105))
	// Output:
	// 4.81 km
}

func TestHaversineSamePoint(t *testing.T) {
	if d := HaversineKm(47.6389, -3.4523, 47.6389, -3.4523); d != 0 {
		t.Errorf("distance to self = %v, want exactly 0", d)
	}
}

func TestHaversineSymmetric(t *testing.T) {
	points := []Point{
		{47.6389, -3.4523},
		{47.6424, -3.4302},
		{47.6492, -3.4789},
		{-33.8688, 151.2093},
		{51.5074, -0.1278},
	}
	for _, a := range points {
		for _, b := range points {
			ab, ba := DistanceKm(a, b), DistanceKm(b, a)
			if ab != ba {
				t.Errorf("d(%s, %s) = %v but d(%s, %s) = %v", a, b, ab, b, a, ba)
			}
		}
	}
}

func TestHaversineKnown(t *testing.T) {
	// London to Paris is about 343.5 km on a 6371 km sphere.
	d := HaversineKm(51.5074, -0.1278, 48.8566, 2.3522)
	if math.Abs(d-343.5) > 1 {
		t.Errorf("London-Paris = %.1f km, want ~343.5", d)
	}
}

func TestPointValid(t *testing.T) {
	table := []struct {
		p    Point
		want bool
	}{
		{Point{47.6, -3.4}, true},
		{Point{0, -3.4}, false},
		{Point{47.6, 0}, false},
		{Point{math.NaN(), -3.4}, false},
		{Point{47.6, math.Inf(1)}, false},
		{Point{97.6, -3.4}, false},
	}
	for _, tc := range table {
		if got := tc.p.Valid(); got != tc.want {
			t.Errorf("%s.Valid() = %v, want %v", tc.p, got, tc.want)
		}
	}
}
