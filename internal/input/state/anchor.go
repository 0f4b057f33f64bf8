package state

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/dshills/globenav/internal/geo"
	"github.com/dshills/globenav/internal/input/mouse"
)

// Snapshot is the camera state captured when a pointer gesture begins.
type Snapshot struct {
	Modelview  mgl64.Mat4
	Projection mgl64.Mat4
	Viewport   mouse.Rect
}

// Anchor is the reference frame of a pointer gesture. It is created on
// press and cleared on release or focus loss.
type Anchor struct {
	active    bool
	dragged   bool
	down      mouse.Point
	previous  mouse.Point
	current   mouse.Point
	ground    geo.Position
	hasGround bool
	snapshot  Snapshot
}

// Begin starts a gesture at p. ground is the position under the pointer,
// or nil when the pointer is off the globe.
func (a *Anchor) Begin(p mouse.Point, ground *geo.Position, snap Snapshot) {
	a.active = true
	a.dragged = false
	a.down = p
	a.previous = p
	a.current = p
	a.snapshot = snap
	a.hasGround = ground != nil
	if ground != nil {
		a.ground = *ground
	} else {
		a.ground = geo.Position{}
	}
}

// Move shifts the current point to previous and records p as current.
// Move tracks motion even when no gesture is active, so that hover
// position stays available.
func (a *Anchor) Move(p mouse.Point) {
	a.previous = a.current
	a.current = p
	if a.active && p != a.down {
		a.dragged = true
	}
}

// Clear ends the gesture and forgets the cached ground and camera state.
// The current point is kept so hover position survives a release.
func (a *Anchor) Clear() {
	cur := a.current
	*a = Anchor{}
	a.previous = cur
	a.current = cur
}

// Reset forgets everything, including the current point.
func (a *Anchor) Reset() {
	*a = Anchor{}
}

// Active reports whether a gesture is in progress.
func (a *Anchor) Active() bool { return a.active }

// Dragged reports whether the pointer left the press point during the
// gesture.
func (a *Anchor) Dragged() bool { return a.dragged }

// Down returns the point where the gesture began.
func (a *Anchor) Down() mouse.Point { return a.down }

// Previous returns the point before the latest move.
func (a *Anchor) Previous() mouse.Point { return a.previous }

// Current returns the latest pointer point.
func (a *Anchor) Current() mouse.Point { return a.current }

// Movement returns current - previous.
func (a *Anchor) Movement() mouse.Point { return a.current.Sub(a.previous) }

// Ground returns the position under the pointer at press time.
func (a *Anchor) Ground() (geo.Position, bool) { return a.ground, a.hasGround }

// Snapshot returns the camera state captured at press time.
func (a *Anchor) Snapshot() Snapshot { return a.snapshot }
