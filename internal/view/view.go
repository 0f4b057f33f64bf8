// Package view defines the camera, globe and picking collaborators driven by
// the navigation engine, together with small reference implementations: a
// spherical globe, an orbit camera and a ray picker.
//
// The engine only depends on the interfaces. Rendering, ellipsoidal geodesy
// and terrain belong to the host application.
package view

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/dshills/globenav/internal/geo"
	"github.com/dshills/globenav/internal/input/mouse"
)

// Target is the camera the engine moves. Angles are in degrees.
type Target interface {
	// EyePosition returns the geographic position of the eye.
	EyePosition() geo.Position
	// EyePoint returns the eye in model coordinates.
	EyePoint() mgl64.Vec3
	// CenterPosition returns the position the camera looks at.
	CenterPosition() geo.Position

	Heading() float64
	Pitch() float64
	Roll() float64

	// Zoom returns the eye-to-center distance of an orbit camera.
	// ok is false for cameras without a zoom concept.
	Zoom() (zoom float64, ok bool)

	Viewport() mouse.Rect
	Modelview() mgl64.Mat4
	Projection() mgl64.Mat4

	// RayFromScreenPoint returns the ray through a screen point.
	RayFromScreenPoint(p mouse.Point) geo.Ray
	// PixelSizeAtDistance returns the model-space size of one pixel at
	// distance d from the eye.
	PixelSizeAtDistance(d float64) float64

	SetCenterPosition(p geo.Position)
	SetHeading(deg float64)
	SetPitch(deg float64)
	SetRoll(deg float64)
	SetZoom(zoom float64)
	// SetEyeAltitude moves the eye vertically. Used when Zoom is unavailable.
	SetEyeAltitude(alt float64)

	// MoveTo animates the center to p. smoothing in [0, 1) is the fraction
	// of remaining distance kept per animation step; 0 jumps immediately.
	MoveTo(p geo.Position, smoothing float64)
	ResetHeading()
	ResetHeadingPitchRoll()
	ResetRoll()

	// StopMovement cancels every in-flight animation.
	StopMovement()

	// OnChange registers fn to be called whenever the camera mutates.
	OnChange(fn func())
}

// Animator is implemented by targets that animate between frames.
type Animator interface {
	// Step advances every running animation by one frame and reports
	// whether anything moved.
	Step() bool
	// Animating reports whether any animation is running.
	Animating() bool
}

// Globe provides the sphere geometry.
type Globe interface {
	Radius() float64
	// Elevation returns the terrain elevation at lat, lon.
	Elevation(lat, lon float64) float64
	PointFromPosition(p geo.Position) mgl64.Vec3
	PositionFromPoint(v mgl64.Vec3) geo.Position
	// Intersect returns the nearest intersection of r with the surface
	// raised by elevation.
	Intersect(r geo.Ray, elevation float64) (mgl64.Vec3, bool)
}

// Picker finds what lies under the pointer.
type Picker interface {
	PickGround(p mouse.Point) (geo.Position, bool)
}
