package handler

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/dshills/globenav/internal/geo"
	"github.com/dshills/globenav/internal/input"
	"github.com/dshills/globenav/internal/input/action"
)

// Rotate changes heading (X) and pitch (Y).
type Rotate struct{}

// Compute implements action.Handler.
func (Rotate) Compute(ctx *action.Context, spec *action.Spec) (action.Magnitude, bool) {
	if ctx.Target == nil {
		return action.Magnitude{}, false
	}
	switch ctx.Device {
	case input.DeviceKeyboard:
		m := ctx.KeyInput(spec)
		l := math.Hypot(m.X, m.Y)
		if l == 0 {
			return action.Magnitude{}, false
		}
		return action.Magnitude{X: m.X / l, Y: m.Y / l}, true
	case input.DevicePointer:
		dx, dy, ok := pointerMotion(ctx, spec)
		if !ok {
			return action.Magnitude{}, false
		}
		// Dragging across the top half turns the globe the other way.
		vp := ctx.Target.Viewport()
		if ctx.Anchor.Current().Y < vp.Center().Y {
			dx = -dx
		}
		return action.Magnitude{X: dx, Y: dy}, true
	}
	return action.Magnitude{}, false
}

// Apply implements action.Handler.
func (Rotate) Apply(ctx *action.Context, spec *action.Spec, m action.Magnitude) {
	interrupt(ctx)
	scaled := ctx.Scaled(spec)
	dh := ctx.Smooth(spec, "heading", m.X*scaled)
	dp := ctx.Smooth(spec, "pitch", m.Y*scaled)
	if dh != 0 {
		ctx.Target.SetHeading(geo.NormalizeAngle(ctx.Target.Heading() + dh))
	}
	if dp != 0 {
		ctx.Target.SetPitch(mgl64.Clamp(ctx.Target.Pitch()+dp, 0, 90))
	}
	ctx.Log().Debug("rotate", "action", spec.Name, "heading", dh, "pitch", dp)
}

// Roll changes roll from the keyboard Y axis.
type Roll struct{}

// Compute implements action.Handler.
func (Roll) Compute(ctx *action.Context, spec *action.Spec) (action.Magnitude, bool) {
	if ctx.Target == nil || ctx.Device != input.DeviceKeyboard {
		return action.Magnitude{}, false
	}
	m := ctx.KeyInput(spec)
	if m.Y == 0 {
		return action.Magnitude{}, false
	}
	return action.Magnitude{Y: m.Y}, true
}

// Apply implements action.Handler.
func (Roll) Apply(ctx *action.Context, spec *action.Spec, m action.Magnitude) {
	interrupt(ctx)
	dr := ctx.Smooth(spec, "roll", ctx.Change(spec, m.Y))
	if dr == 0 {
		return
	}
	ctx.Target.SetRoll(geo.NormalizeAngle(ctx.Target.Roll() + dr))
	ctx.Log().Debug("roll", "action", spec.Name, "roll", dr)
}
