package handler

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/dshills/globenav/internal/geo"
	"github.com/dshills/globenav/internal/input"
	"github.com/dshills/globenav/internal/input/action"
	"github.com/dshills/globenav/internal/transform"
)

// HorizontalTranslate pans the view tangent to the globe surface.
//
// Keys contribute X as sideways and Y as forward motion. A pointer drag
// keeps the grabbed ground point under the cursor when both drag rays hit
// the globe, and falls back to normalized screen motion otherwise.
type HorizontalTranslate struct{}

// Compute implements action.Handler. The magnitude is X sideways and Y
// forward.
func (HorizontalTranslate) Compute(ctx *action.Context, spec *action.Spec) (action.Magnitude, bool) {
	if ctx.Target == nil {
		return action.Magnitude{}, false
	}
	switch ctx.Device {
	case input.DeviceKeyboard:
		m := ctx.KeyInput(spec)
		if m.X == 0 && m.Y == 0 {
			return action.Magnitude{}, false
		}
		return action.Magnitude{X: m.X, Y: m.Y}, true
	case input.DevicePointer:
		dx, dy, ok := pointerMotion(ctx, spec)
		if !ok {
			return action.Magnitude{}, false
		}
		return action.Magnitude{X: -dx, Y: dy}, true
	}
	return action.Magnitude{}, false
}

// Apply implements action.Handler.
func (HorizontalTranslate) Apply(ctx *action.Context, spec *action.Spec, m action.Magnitude) {
	interrupt(ctx)
	if ctx.Device == input.DevicePointer {
		if dLat, dLon, ok := groundDelta(ctx); ok {
			translateBy(ctx, spec, dLat, dLon)
			return
		}
		// Off-globe drag: direction only.
		if l := math.Hypot(m.X, m.Y); l > 0 {
			m.X /= l
			m.Y /= l
		}
	}
	scaled := ctx.Scaled(spec)
	fwd, side := m.Y*scaled, m.X*scaled
	h := mgl64.DegToRad(ctx.Target.Heading())
	sin, cos := math.Sincos(h)
	dLat := cos*fwd - sin*side
	dLon := sin*fwd + cos*side
	translateBy(ctx, spec, dLat, dLon)
}

// groundDelta intersects the previous and current drag rays with the
// globe at the grabbed ground elevation and returns the damped center
// change that keeps the ground point under the cursor.
func groundDelta(ctx *action.Context) (dLat, dLon float64, ok bool) {
	if ctx.Anchor == nil || ctx.Globe == nil {
		return 0, 0, false
	}
	ground, ok := ctx.Anchor.Ground()
	if !ok {
		return 0, 0, false
	}
	eye := ctx.Target.EyePosition()
	if eye.Elev <= ground.Elev {
		return 0, 0, false
	}

	prev, cur := ctx.Anchor.Previous(), ctx.Anchor.Current()
	p1, hit1 := ctx.Globe.Intersect(ctx.Target.RayFromScreenPoint(prev), ground.Elev)
	p2, hit2 := ctx.Globe.Intersect(ctx.Target.RayFromScreenPoint(cur), ground.Elev)
	if !hit1 || !hit2 {
		return 0, 0, false
	}

	pixelDist := prev.Distance(cur)
	worldDist := p1.Sub(p2).Len()
	pixelSize := ctx.Target.PixelSizeAtDistance(ctx.Target.EyePoint().Sub(p1).Len())
	slope := transform.DragSlope(pixelDist, worldDist, pixelSize)
	damp := transform.Damping(slope, ctx.Settings.DragSlopeFactor)

	pos1 := ctx.Globe.PositionFromPoint(p1)
	pos2 := ctx.Globe.PositionFromPoint(p2)
	adjusted := geo.InterpolateGreatCircle(damp, pos1, pos2)

	dLat = pos1.Lat - adjusted.Lat
	dLon = geo.NormalizeLon(pos1.Lon - adjusted.Lon)
	return dLat, dLon, true
}

// translateBy smooths a center change and moves the target, turning the
// heading with the course change when heading lock is off.
func translateBy(ctx *action.Context, spec *action.Spec, dLat, dLon float64) {
	dLat = ctx.Smooth(spec, "lat", dLat)
	dLon = ctx.Smooth(spec, "lon", dLon)
	if dLat == 0 && dLon == 0 {
		return
	}

	old := ctx.Target.CenterPosition()
	next := old.Add(dLat, dLon)
	ctx.Target.SetCenterPosition(next)

	if !ctx.Settings.LockHeading {
		back := mgl64.RadToDeg(geo.GreatCircleAzimuth(next, old)) + 180
		fwd := mgl64.RadToDeg(geo.GreatCircleAzimuth(old, next))
		ctx.Target.SetHeading(geo.NormalizeAngle(ctx.Target.Heading() + back - fwd))
	}
	ctx.Log().Debug("horizontal translate", "action", spec.Name, "dlat", dLat, "dlon", dLon)
}

// VerticalTranslate changes zoom on a logarithmic scale, or the eye
// altitude for targets without zoom.
type VerticalTranslate struct{}

// Compute implements action.Handler. The magnitude is Z.
func (VerticalTranslate) Compute(ctx *action.Context, spec *action.Spec) (action.Magnitude, bool) {
	if ctx.Target == nil {
		return action.Magnitude{}, false
	}
	var z float64
	switch ctx.Device {
	case input.DeviceKeyboard:
		z = ctx.KeyInput(spec).Z
	case input.DevicePointer:
		_, dy, ok := pointerMotion(ctx, spec)
		if !ok {
			return action.Magnitude{}, false
		}
		z = dy
	case input.DeviceWheel:
		if we, ok := ctx.Event.(input.WheelEvent); ok {
			z = we.Amount
		}
	}
	if z == 0 {
		return action.Magnitude{}, false
	}
	return action.Magnitude{Z: z}, true
}

// Apply implements action.Handler.
func (VerticalTranslate) Apply(ctx *action.Context, spec *action.Spec, m action.Magnitude) {
	interrupt(ctx)
	change := ctx.Smooth(spec, "zoom", ctx.Change(spec, m.Z))
	if change == 0 {
		return
	}
	if zoom, ok := ctx.Target.Zoom(); ok {
		ctx.Target.SetZoom(logStep(zoom, change))
		ctx.Log().Debug("vertical translate", "action", spec.Name, "zoom", zoom, "change", change)
		return
	}
	alt := ctx.Target.EyePosition().Elev
	ctx.Target.SetEyeAltitude(logStep(alt, change))
	ctx.Log().Debug("vertical translate", "action", spec.Name, "altitude", alt, "change", change)
}

// logStep returns exp(log(v) + change), treating log(0) as 0.
func logStep(v, change float64) float64 {
	var l float64
	if v > 0 {
		l = math.Log(v)
	}
	return math.Exp(l + change)
}
