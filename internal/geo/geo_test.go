package geo

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{180, 180},
		{-180, 180},
		{190, -170},
		{-190, 170},
		{540, 180},
		{725, 5},
	}
	for _, tt := range tests {
		if got := NormalizeAngle(tt.in); !near(got, tt.want, eps) {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPositionAdd(t *testing.T) {
	p := Position{Lat: 89, Lon: 179, Elev: 10}
	got := p.Add(5, 2)
	if got.Lat != 90 {
		t.Errorf("Lat = %v, want 90", got.Lat)
	}
	if !near(got.Lon, -179, eps) {
		t.Errorf("Lon = %v, want -179", got.Lon)
	}
	if got.Elev != 10 {
		t.Errorf("Elev = %v, want 10", got.Elev)
	}
}

func TestGreatCircleDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Position
		want float64
	}{
		{"same", Position{10, 20, 0}, Position{10, 20, 0}, 0},
		{"quarter meridian", Position{0, 0, 0}, Position{90, 0, 0}, math.Pi / 2},
		{"equator half", Position{0, 0, 0}, Position{0, 180, 0}, math.Pi},
		{"one degree", Position{0, 0, 0}, Position{0, 1, 0}, math.Pi / 180},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GreatCircleDistance(tt.a, tt.b); !near(got, tt.want, 1e-9) {
				t.Errorf("GreatCircleDistance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGreatCircleAzimuth(t *testing.T) {
	tests := []struct {
		name string
		a, b Position
		want float64
	}{
		{"north", Position{0, 0, 0}, Position{10, 0, 0}, 0},
		{"south", Position{10, 0, 0}, Position{0, 0, 0}, math.Pi},
		{"east", Position{0, 0, 0}, Position{0, 10, 0}, math.Pi / 2},
		{"west", Position{0, 0, 0}, Position{0, -10, 0}, -math.Pi / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GreatCircleAzimuth(tt.a, tt.b); !near(got, tt.want, 1e-9) {
				t.Errorf("GreatCircleAzimuth = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInterpolateGreatCircle(t *testing.T) {
	a := Position{Lat: 0, Lon: 0}
	b := Position{Lat: 0, Lon: 10}

	tests := []struct {
		t       float64
		wantLon float64
	}{
		{0, 0},
		{0.5, 5},
		{1, 10},
		{-1, 0},
		{2, 10},
	}
	for _, tt := range tests {
		got := InterpolateGreatCircle(tt.t, a, b)
		if !near(got.Lat, 0, 1e-9) || !near(got.Lon, tt.wantLon, 1e-9) {
			t.Errorf("InterpolateGreatCircle(%v) = %v, want 0,%v", tt.t, got, tt.wantLon)
		}
	}

	if got := InterpolateGreatCircle(0.3, a, a); got != a {
		t.Errorf("InterpolateGreatCircle(same) = %v, want %v", got, a)
	}
}

func TestGreatCircleEndPosition(t *testing.T) {
	p := Position{Lat: 0, Lon: 0, Elev: 5}
	got := GreatCircleEndPosition(p, 0, math.Pi/4)
	if !near(got.Lat, 45, 1e-9) || !near(got.Lon, 0, 1e-9) || got.Elev != 5 {
		t.Errorf("GreatCircleEndPosition north = %v, want 45,0@5", got)
	}
	if got := GreatCircleEndPosition(p, 1, 0); got != p {
		t.Errorf("zero distance = %v, want %v", got, p)
	}
}
