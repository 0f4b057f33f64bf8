package handler

import (
	"github.com/dshills/globenav/internal/geo"
	"github.com/dshills/globenav/internal/input/action"
	"github.com/dshills/globenav/internal/transform"
)

// MoveTo animates the center to the ground position picked at press.
type MoveTo struct{}

// Compute implements action.Handler. It needs a press, or for click specs
// a click, of a bound button and a ground position recorded by the anchor.
func (MoveTo) Compute(ctx *action.Context, spec *action.Spec) (action.Magnitude, bool) {
	if ctx.Target == nil || ctx.Anchor == nil || !pressed(ctx, spec) {
		return action.Magnitude{}, false
	}
	if _, ok := ctx.Anchor.Ground(); !ok {
		return action.Magnitude{}, false
	}
	return action.Magnitude{Z: 1}, true
}

// Apply implements action.Handler.
func (MoveTo) Apply(ctx *action.Context, spec *action.Spec, _ action.Magnitude) {
	ground, _ := ctx.Anchor.Ground()
	var smoothing float64
	if ctx.SmoothingEnabled(spec) {
		smoothing = transform.Scaled(spec.Calibration.Min, spec.Calibration.Max, transform.ScaleZoom, ctx.Camera())
	}
	target := geo.Position{Lat: ground.Lat, Lon: ground.Lon, Elev: ctx.Target.CenterPosition().Elev}
	ctx.Target.MoveTo(target, smoothing)
	ctx.Log().Debug("move to", "action", spec.Name, "position", target.String(), "smoothing", smoothing)
}

// resetVerb gates a target reset on a press of a bound key or button.
type resetVerb struct {
	name  string
	reset func(ctx *action.Context)
	skip  func(ctx *action.Context) bool
}

func (r resetVerb) Compute(ctx *action.Context, spec *action.Spec) (action.Magnitude, bool) {
	if ctx.Target == nil || !pressed(ctx, spec) {
		return action.Magnitude{}, false
	}
	if r.skip != nil && r.skip(ctx) {
		return action.Magnitude{}, false
	}
	return action.Magnitude{Z: 1}, true
}

func (r resetVerb) Apply(ctx *action.Context, spec *action.Spec, _ action.Magnitude) {
	r.reset(ctx)
	ctx.Log().Debug(r.name, "action", spec.Name)
}

// ResetHeading animates the heading back to north.
type ResetHeading struct{}

func (ResetHeading) verb() resetVerb {
	return resetVerb{name: "reset heading", reset: func(ctx *action.Context) { ctx.Target.ResetHeading() }}
}

// Compute implements action.Handler.
func (v ResetHeading) Compute(ctx *action.Context, spec *action.Spec) (action.Magnitude, bool) {
	return v.verb().Compute(ctx, spec)
}

// Apply implements action.Handler.
func (v ResetHeading) Apply(ctx *action.Context, spec *action.Spec, m action.Magnitude) {
	v.verb().Apply(ctx, spec, m)
}

// ResetHeadingPitchRoll animates heading, pitch and roll back to zero.
type ResetHeadingPitchRoll struct{}

func (ResetHeadingPitchRoll) verb() resetVerb {
	return resetVerb{name: "reset heading pitch roll", reset: func(ctx *action.Context) { ctx.Target.ResetHeadingPitchRoll() }}
}

// Compute implements action.Handler.
func (v ResetHeadingPitchRoll) Compute(ctx *action.Context, spec *action.Spec) (action.Magnitude, bool) {
	return v.verb().Compute(ctx, spec)
}

// Apply implements action.Handler.
func (v ResetHeadingPitchRoll) Apply(ctx *action.Context, spec *action.Spec, m action.Magnitude) {
	v.verb().Apply(ctx, spec, m)
}

// ResetRoll animates the roll back to zero. It does nothing when the roll
// is already zero, so the press falls through to lower priority actions.
type ResetRoll struct{}

func (ResetRoll) verb() resetVerb {
	return resetVerb{
		name:  "reset roll",
		reset: func(ctx *action.Context) { ctx.Target.ResetRoll() },
		skip:  func(ctx *action.Context) bool { return ctx.Target.Roll() == 0 },
	}
}

// Compute implements action.Handler.
func (v ResetRoll) Compute(ctx *action.Context, spec *action.Spec) (action.Magnitude, bool) {
	return v.verb().Compute(ctx, spec)
}

// Apply implements action.Handler.
func (v ResetRoll) Apply(ctx *action.Context, spec *action.Spec, m action.Magnitude) {
	v.verb().Apply(ctx, spec, m)
}

// StopView performs a hard stop of the view.
type StopView struct{}

// Compute implements action.Handler.
func (StopView) Compute(ctx *action.Context, spec *action.Spec) (action.Magnitude, bool) {
	if ctx.Target == nil || !pressed(ctx, spec) {
		return action.Magnitude{}, false
	}
	return action.Magnitude{Z: 1}, true
}

// Apply implements action.Handler.
func (StopView) Apply(ctx *action.Context, spec *action.Spec, _ action.Magnitude) {
	if ctx.Stop != nil {
		ctx.Stop()
	} else {
		ctx.Target.StopMovement()
	}
	ctx.Log().Debug("stop view", "action", spec.Name)
}
