package view

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/dshills/globenav/internal/geo"
)

// EarthRadius is the mean earth radius in meters.
const EarthRadius = 6371000.0

// Sphere is a spherical Globe. Model coordinates put +Y through the north
// pole and +Z through latitude 0, longitude 0.
type Sphere struct {
	radius  float64
	terrain func(lat, lon float64) float64
}

// SphereOption configures a Sphere.
type SphereOption func(*Sphere)

// WithTerrain sets a terrain elevation function.
func WithTerrain(fn func(lat, lon float64) float64) SphereOption {
	return func(s *Sphere) {
		s.terrain = fn
	}
}

// NewSphere creates a sphere of the given radius.
func NewSphere(radius float64, opts ...SphereOption) *Sphere {
	s := &Sphere{radius: radius}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Radius implements Globe.
func (s *Sphere) Radius() float64 {
	return s.radius
}

// Elevation implements Globe.
func (s *Sphere) Elevation(lat, lon float64) float64 {
	if s.terrain == nil {
		return 0
	}
	return s.terrain(lat, lon)
}

// PointFromPosition implements Globe.
func (s *Sphere) PointFromPosition(p geo.Position) mgl64.Vec3 {
	lat := mgl64.DegToRad(p.Lat)
	lon := mgl64.DegToRad(p.Lon)
	r := s.radius + p.Elev
	cosLat := math.Cos(lat)
	return mgl64.Vec3{
		r * cosLat * math.Sin(lon),
		r * math.Sin(lat),
		r * cosLat * math.Cos(lon),
	}
}

// PositionFromPoint implements Globe.
func (s *Sphere) PositionFromPoint(v mgl64.Vec3) geo.Position {
	r := v.Len()
	if r == 0 {
		return geo.Position{Elev: -s.radius}
	}
	lat := math.Asin(mgl64.Clamp(v.Y()/r, -1, 1))
	lon := math.Atan2(v.X(), v.Z())
	return geo.Position{
		Lat:  mgl64.RadToDeg(lat),
		Lon:  geo.NormalizeLon(mgl64.RadToDeg(lon)),
		Elev: r - s.radius,
	}
}

// Intersect implements Globe.
func (s *Sphere) Intersect(ray geo.Ray, elevation float64) (mgl64.Vec3, bool) {
	r := s.radius + elevation
	dir := ray.Direction
	if dir.Len() == 0 {
		return mgl64.Vec3{}, false
	}
	dir = dir.Normalize()

	// |o + t*d|^2 = r^2 with |d| = 1
	b := 2 * ray.Origin.Dot(dir)
	c := ray.Origin.Dot(ray.Origin) - r*r
	disc := b*b - 4*c
	if disc < 0 {
		return mgl64.Vec3{}, false
	}
	sq := math.Sqrt(disc)
	t := (-b - sq) / 2
	if t < 0 {
		t = (-b + sq) / 2
	}
	if t < 0 {
		return mgl64.Vec3{}, false
	}
	return ray.Origin.Add(dir.Mul(t)), true
}

// LocalFrame returns the east, north and up unit vectors at p.
func LocalFrame(p geo.Position) (east, north, up mgl64.Vec3) {
	lat := mgl64.DegToRad(p.Lat)
	lon := mgl64.DegToRad(p.Lon)
	up = mgl64.Vec3{math.Cos(lat) * math.Sin(lon), math.Sin(lat), math.Cos(lat) * math.Cos(lon)}
	east = mgl64.Vec3{math.Cos(lon), 0, -math.Sin(lon)}
	north = up.Cross(east)
	return east, north, up
}
