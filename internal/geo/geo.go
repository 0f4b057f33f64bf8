// Package geo provides geographic positions and great-circle math on a
// sphere. Angles are in degrees at the API boundary; elevations are in
// meters above the sphere surface.
package geo

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Position is a geographic location.
type Position struct {
	Lat  float64
	Lon  float64
	Elev float64
}

// String returns "lat,lon@elev".
func (p Position) String() string {
	return fmt.Sprintf("%.6f,%.6f@%.1f", p.Lat, p.Lon, p.Elev)
}

// Add returns p offset by the given latitude and longitude deltas, with the
// latitude clamped to [-90, 90] and the longitude normalized to (-180, 180].
func (p Position) Add(dLat, dLon float64) Position {
	return Position{
		Lat:  ClampLat(p.Lat + dLat),
		Lon:  NormalizeLon(p.Lon + dLon),
		Elev: p.Elev,
	}
}

// ClampLat clamps a latitude to [-90, 90].
func ClampLat(lat float64) float64 {
	return mgl64.Clamp(lat, -90, 90)
}

// NormalizeLon wraps a longitude into (-180, 180].
func NormalizeLon(lon float64) float64 {
	return NormalizeAngle(lon)
}

// NormalizeAngle wraps an angle in degrees into (-180, 180].
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a <= -180 {
		a += 360
	} else if a > 180 {
		a -= 360
	}
	return a
}

// Ray is a half-line in model coordinates.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}
