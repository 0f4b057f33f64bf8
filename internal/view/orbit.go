package view

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/dshills/globenav/internal/geo"
	"github.com/dshills/globenav/internal/input/mouse"
)

const (
	defaultFieldOfView = 45.0
	minZoom            = 1.0
	resetSmoothing     = 0.7
	angleEpsilon       = 0.01
	moveEpsilon        = 1e-9
)

// OrbitState is a plain copy of the orbit camera parameters.
type OrbitState struct {
	Center  geo.Position
	Heading float64
	Pitch   float64
	Roll    float64
	Zoom    float64
}

// Orbit is a camera orbiting a center position on a Globe. It implements
// Target and Animator. Orbit is not safe for concurrent use.
type Orbit struct {
	globe    Globe
	state    OrbitState
	viewport mouse.Rect
	fov      float64
	maxZoom  float64

	moveTarget    geo.Position
	moveSmoothing float64
	moving        bool

	resetHeading bool
	resetPitch   bool
	resetRoll    bool

	listeners []func()
}

// OrbitOption configures an Orbit.
type OrbitOption func(*Orbit)

// WithFieldOfView sets the vertical field of view in degrees.
func WithFieldOfView(deg float64) OrbitOption {
	return func(o *Orbit) {
		if deg > 0 && deg < 180 {
			o.fov = deg
		}
	}
}

// WithViewport sets the initial viewport.
func WithViewport(r mouse.Rect) OrbitOption {
	return func(o *Orbit) {
		o.viewport = r
	}
}

// NewOrbit creates an orbit camera on globe with the given initial state.
func NewOrbit(globe Globe, initial OrbitState, opts ...OrbitOption) *Orbit {
	o := &Orbit{
		globe:    globe,
		fov:      defaultFieldOfView,
		maxZoom:  10 * globe.Radius(),
		viewport: mouse.Rect{Width: 800, Height: 600},
	}
	for _, opt := range opts {
		opt(o)
	}
	o.state = initial
	o.state.Center = initial.Center.Add(0, 0)
	o.state.Heading = geo.NormalizeAngle(initial.Heading)
	o.state.Pitch = mgl64.Clamp(initial.Pitch, 0, 90)
	o.state.Roll = geo.NormalizeAngle(initial.Roll)
	o.state.Zoom = mgl64.Clamp(initial.Zoom, minZoom, o.maxZoom)
	return o
}

// State returns a copy of the camera parameters.
func (o *Orbit) State() OrbitState {
	return o.state
}

// SetViewport updates the viewport, e.g. after a resize.
func (o *Orbit) SetViewport(r mouse.Rect) {
	o.viewport = r
	o.changed()
}

// OnChange implements Target.
func (o *Orbit) OnChange(fn func()) {
	o.listeners = append(o.listeners, fn)
}

func (o *Orbit) changed() {
	for _, fn := range o.listeners {
		fn()
	}
}

// CenterPosition implements Target.
func (o *Orbit) CenterPosition() geo.Position { return o.state.Center }

// Heading implements Target.
func (o *Orbit) Heading() float64 { return o.state.Heading }

// Pitch implements Target.
func (o *Orbit) Pitch() float64 { return o.state.Pitch }

// Roll implements Target.
func (o *Orbit) Roll() float64 { return o.state.Roll }

// Zoom implements Target.
func (o *Orbit) Zoom() (float64, bool) { return o.state.Zoom, true }

// Viewport implements Target.
func (o *Orbit) Viewport() mouse.Rect { return o.viewport }

// frame returns the eye point and the camera up vector.
func (o *Orbit) frame() (eye, center, up mgl64.Vec3) {
	center = o.globe.PointFromPosition(o.state.Center)
	east, north, normal := LocalFrame(o.state.Center)

	h := mgl64.DegToRad(o.state.Heading)
	p := mgl64.DegToRad(o.state.Pitch)
	forward := north.Mul(math.Cos(h)).Add(east.Mul(math.Sin(h)))

	back := normal.Mul(math.Cos(p)).Sub(forward.Mul(math.Sin(p)))
	eye = center.Add(back.Mul(o.state.Zoom))
	up = forward.Mul(math.Cos(p)).Add(normal.Mul(math.Sin(p)))

	if o.state.Roll != 0 {
		q := mgl64.QuatRotate(mgl64.DegToRad(o.state.Roll), back.Mul(-1))
		up = q.Rotate(up)
	}
	return eye, center, up
}

// EyePoint implements Target.
func (o *Orbit) EyePoint() mgl64.Vec3 {
	eye, _, _ := o.frame()
	return eye
}

// EyePosition implements Target.
func (o *Orbit) EyePosition() geo.Position {
	return o.globe.PositionFromPoint(o.EyePoint())
}

// Modelview implements Target.
func (o *Orbit) Modelview() mgl64.Mat4 {
	eye, center, up := o.frame()
	return mgl64.LookAtV(eye, center, up)
}

// Projection implements Target.
func (o *Orbit) Projection() mgl64.Mat4 {
	near := math.Max(minZoom/2, o.state.Zoom*0.01)
	far := o.state.Zoom + 2*o.globe.Radius()
	aspect := 1.0
	if o.viewport.Height > 0 {
		aspect = float64(o.viewport.Width) / float64(o.viewport.Height)
	}
	return mgl64.Perspective(mgl64.DegToRad(o.fov), aspect, near, far)
}

// RayFromScreenPoint implements Target. Screen y grows downward.
func (o *Orbit) RayFromScreenPoint(p mouse.Point) geo.Ray {
	mv, proj := o.Modelview(), o.Projection()
	vp := o.viewport
	winX := float64(p.X)
	winY := float64(vp.Y + vp.Height - 1 - (p.Y - vp.Y))

	near, errNear := mgl64.UnProject(mgl64.Vec3{winX, winY, 0}, mv, proj, vp.X, vp.Y, vp.Width, vp.Height)
	far, errFar := mgl64.UnProject(mgl64.Vec3{winX, winY, 1}, mv, proj, vp.X, vp.Y, vp.Width, vp.Height)
	eye := o.EyePoint()
	if errNear != nil || errFar != nil {
		_, center, _ := o.frame()
		return geo.Ray{Origin: eye, Direction: center.Sub(eye).Normalize()}
	}
	return geo.Ray{Origin: eye, Direction: far.Sub(near).Normalize()}
}

// PixelSizeAtDistance implements Target.
func (o *Orbit) PixelSizeAtDistance(d float64) float64 {
	if o.viewport.Height <= 0 {
		return 0
	}
	return 2 * d * math.Tan(mgl64.DegToRad(o.fov)/2) / float64(o.viewport.Height)
}

// SetCenterPosition implements Target.
func (o *Orbit) SetCenterPosition(p geo.Position) {
	o.state.Center = geo.Position{Lat: geo.ClampLat(p.Lat), Lon: geo.NormalizeLon(p.Lon), Elev: p.Elev}
	o.changed()
}

// SetHeading implements Target.
func (o *Orbit) SetHeading(deg float64) {
	o.state.Heading = geo.NormalizeAngle(deg)
	o.changed()
}

// SetPitch implements Target. Pitch is clamped to [0, 90].
func (o *Orbit) SetPitch(deg float64) {
	o.state.Pitch = mgl64.Clamp(deg, 0, 90)
	o.changed()
}

// SetRoll implements Target.
func (o *Orbit) SetRoll(deg float64) {
	o.state.Roll = geo.NormalizeAngle(deg)
	o.changed()
}

// SetZoom implements Target.
func (o *Orbit) SetZoom(zoom float64) {
	o.state.Zoom = mgl64.Clamp(zoom, minZoom, o.maxZoom)
	o.changed()
}

// SetEyeAltitude implements Target by adjusting zoom so the eye reaches alt.
func (o *Orbit) SetEyeAltitude(alt float64) {
	cur := o.EyePosition().Elev
	o.SetZoom(o.state.Zoom + (alt - cur))
}

// MoveTo implements Target.
func (o *Orbit) MoveTo(p geo.Position, smoothing float64) {
	o.moveTarget = geo.Position{Lat: geo.ClampLat(p.Lat), Lon: geo.NormalizeLon(p.Lon), Elev: p.Elev}
	o.moveSmoothing = mgl64.Clamp(smoothing, 0, 0.999)
	o.moving = true
}

// ResetHeading implements Target.
func (o *Orbit) ResetHeading() {
	o.resetHeading = true
}

// ResetHeadingPitchRoll implements Target.
func (o *Orbit) ResetHeadingPitchRoll() {
	o.resetHeading = true
	o.resetPitch = true
	o.resetRoll = true
}

// ResetRoll implements Target.
func (o *Orbit) ResetRoll() {
	o.resetRoll = true
}

// StopMovement implements Target.
func (o *Orbit) StopMovement() {
	o.moving = false
	o.resetHeading = false
	o.resetPitch = false
	o.resetRoll = false
}

// Animating implements Animator.
func (o *Orbit) Animating() bool {
	return o.moving || o.resetHeading || o.resetPitch || o.resetRoll
}

// Step implements Animator.
func (o *Orbit) Step() bool {
	if !o.Animating() {
		return false
	}

	if o.moving {
		next := geo.InterpolateGreatCircle(1-o.moveSmoothing, o.state.Center, o.moveTarget)
		if geo.GreatCircleDistance(next, o.moveTarget) < moveEpsilon {
			next = o.moveTarget
			o.moving = false
		}
		o.state.Center = next
	}
	if o.resetHeading {
		o.state.Heading, o.resetHeading = decay(o.state.Heading)
	}
	if o.resetPitch {
		o.state.Pitch, o.resetPitch = decay(o.state.Pitch)
	}
	if o.resetRoll {
		o.state.Roll, o.resetRoll = decay(o.state.Roll)
	}

	o.changed()
	return true
}

// decay moves an angle toward zero and reports whether it is still moving.
func decay(deg float64) (float64, bool) {
	next := geo.NormalizeAngle(deg) * resetSmoothing
	if math.Abs(next) < angleEpsilon {
		return 0, false
	}
	return next, true
}
