package domain

import (
	"math"
	"testing"
)

func TestDistanceMiles(t *testing.T) {
	cases := []struct {
		name string
		a, b Coordinates
		want float64
	}{
		{name: "same point", a: Coordinates{Lat: 33.45, Lon: -112.07}, b: Coordinates{Lat: 33.45, Lon: -112.07}, want: 0},
		{name: "one degree of latitude", a: Coordinates{Lat: 0, Lon: 0}, b: Coordinates{Lat: 1, Lon: 0}, want: 69.0941},
		{name: "one degree of longitude at equator", a: Coordinates{Lat: 0, Lon: 0}, b: Coordinates{Lat: 0, Lon: 1}, want: 69.0941},
		{name: "phoenix to tucson", a: Coordinates{Lat: 33.4484, Lon: -112.0740}, b: Coordinates{Lat: 32.2226, Lon: -110.9747}, want: 106.05},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DistanceMiles(tc.a, tc.b)
			if math.Abs(got-tc.want) > 0.5 {
				t.Fatalf("distance = %.4f, want ~%.4f", got, tc.want)
			}
		})
	}
}

func TestDistanceMilesSymmetric(t *testing.T) {
	a := Coordinates{Lat: 40.7128, Lon: -74.0060}
	b := Coordinates{Lat: 34.0522, Lon: -118.2437}

	if d1, d2 := DistanceMiles(a, b), DistanceMiles(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Fatalf("distance not symmetric: %f vs %f", d1, d2)
	}
}

func TestDistanceMilesNaNPropagates(t *testing.T) {
	got := DistanceMiles(Coordinates{Lat: math.NaN(), Lon: 0}, Coordinates{})
	if !math.IsNaN(got) {
		t.Fatalf("distance = %f, want NaN", got)
	}
}

func TestCoordinatesValid(t *testing.T) {
	cases := []struct {
		c    Coordinates
		want bool
	}{
		{Coordinates{Lat: 0, Lon: 0}, true},
		{Coordinates{Lat: 90, Lon: 180}, true},
		{Coordinates{Lat: -90.1, Lon: 0}, false},
		{Coordinates{Lat: 0, Lon: 181}, false},
		{Coordinates{Lat: math.NaN(), Lon: 0}, false},
		{Coordinates{Lat: 0, Lon: math.Inf(1)}, false},
	}

	for _, tc := range cases {
		if got := tc.c.Valid(); got != tc.want {
			t.Errorf("Valid(%+v) = %v, want %v", tc.c, got, tc.want)
		}
	}
}

func TestEstimateRouteMinutes(t *testing.T) {
	if got := EstimateRouteMinutes(15, 2); got != 60 {
		t.Fatalf("estimate = %v, want 60", got)
	}
	if got := EstimateRouteMinutes(0, 0); got != 0 {
		t.Fatalf("estimate = %v, want 0", got)
	}
}
