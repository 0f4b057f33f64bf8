package action

import (
	"log/slog"

	"github.com/dshills/globenav/internal/input"
	"github.com/dshills/globenav/internal/input/mouse"
	"github.com/dshills/globenav/internal/input/state"
	"github.com/dshills/globenav/internal/transform"
	"github.com/dshills/globenav/internal/view"
)

// Handler is the strategy behind one control verb.
//
// Compute reads the context and returns the raw magnitude the action would
// apply, with ok false when it would do nothing. Compute must not mutate the
// context, the target or any state reachable from it: it is called in query
// mode, possibly many times per frame.
//
// Apply runs only in generate mode, after a successful Compute, and pushes
// the magnitude through the value transform into the target.
type Handler interface {
	Compute(ctx *Context, spec *Spec) (m Magnitude, ok bool)
	Apply(ctx *Context, spec *Spec, m Magnitude)
}

// Funcs adapts a pair of functions to the Handler interface. A nil
// ApplyFunc makes Apply a no-op.
type Funcs struct {
	ComputeFunc func(ctx *Context, spec *Spec) (Magnitude, bool)
	ApplyFunc   func(ctx *Context, spec *Spec, m Magnitude)
}

// Compute implements Handler.
func (f Funcs) Compute(ctx *Context, spec *Spec) (Magnitude, bool) {
	if f.ComputeFunc == nil {
		return Magnitude{}, false
	}
	return f.ComputeFunc(ctx, spec)
}

// Apply implements Handler.
func (f Funcs) Apply(ctx *Context, spec *Spec, m Magnitude) {
	if f.ApplyFunc != nil {
		f.ApplyFunc(ctx, spec, m)
	}
}

// Evaluate runs h for spec in the given mode. It returns Handled when the
// action would act (query) or acted (generate), Unhandled otherwise. A
// detached target always yields Unhandled. ctx.Mode is set to mode.
func Evaluate(h Handler, ctx *Context, spec *Spec, mode input.Mode) input.Outcome {
	if h == nil || ctx == nil || ctx.Target == nil {
		return input.Unhandled
	}
	ctx.Mode = mode
	m, ok := h.Compute(ctx, spec)
	if !ok {
		return input.Unhandled
	}
	if mode == input.ModeGenerate {
		h.Apply(ctx, spec, m)
	}
	return input.Handled
}

// Settings are the engine-wide toggles handlers consult.
type Settings struct {
	// Smoothing enables per-spec smoothing globally.
	Smoothing bool
	// LockHeading keeps the heading fixed during horizontal translation.
	LockHeading bool
	// DragSlopeFactor is the damping coefficient k.
	DragSlopeFactor float64
}

// DefaultSettings returns smoothing on, heading locked and the default
// drag slope factor.
func DefaultSettings() Settings {
	return Settings{
		Smoothing:       true,
		LockHeading:     true,
		DragSlopeFactor: transform.DefaultDragSlopeFactor,
	}
}

// Context is everything a handler may read while evaluating one spec.
type Context struct {
	// Event is the triggering event, nil during frame ticks.
	Event  input.Event
	Device input.Device
	Mode   input.Mode

	State  *state.Tracker
	Anchor *state.Anchor

	Target view.Target
	Globe  view.Globe
	Picker view.Picker

	Sensitivity float64
	Settings    Settings
	Smoother    *transform.Smoother

	// Stop performs a hard stop of the view, cancelling animation and
	// smoothing state.
	Stop func()

	Logger *slog.Logger
}

// KeyInput sums the signs of the spec's bound keys that are held.
func (c *Context) KeyInput(spec *Spec) Magnitude {
	var m Magnitude
	if c.State == nil {
		return m
	}
	for _, kb := range spec.Keys {
		if c.State.IsKeyDown(kb.Code) {
			m.add(kb.Axis, float64(kb.Sign))
		}
	}
	return m
}

// ButtonHeld reports whether any of the spec's bound buttons is held.
func (c *Context) ButtonHeld(spec *Spec) bool {
	if c.State == nil {
		return false
	}
	for _, b := range spec.Buttons {
		if c.State.IsButtonDown(b) {
			return true
		}
	}
	return false
}

// PressedButton returns the button of a pointer press or release event.
func (c *Context) PressedButton() (mouse.Button, bool) {
	if pe, ok := c.Event.(input.PointerEvent); ok {
		return pe.Button, pe.Action == input.PointerPress || pe.Action == input.PointerRelease
	}
	return mouse.ButtonNone, false
}

// Binds reports whether the spec binds button b.
func (s *Spec) Binds(b mouse.Button) bool {
	for _, sb := range s.Buttons {
		if sb == b {
			return true
		}
	}
	return false
}

// Camera returns the camera state used by scale functions.
func (c *Context) Camera() transform.Camera {
	var cam transform.Camera
	if c.Target == nil {
		return cam
	}
	eye := c.Target.EyePosition()
	cam.EyeAltitude = eye.Elev
	cam.Zoom, cam.HasZoom = c.Target.Zoom()
	if c.Globe != nil {
		cam.Radius = c.Globe.Radius()
		cam.SurfaceElevation = c.Globe.Elevation(eye.Lat, eye.Lon)
	}
	return cam
}

// Scaled returns the spec's calibration interpolated at the current camera
// state, times the device sensitivity.
func (c *Context) Scaled(spec *Spec) float64 {
	return transform.RawToChange(1, spec.Calibration.Min, spec.Calibration.Max, c.Sensitivity, spec.Scale, c.Camera())
}

// Change converts raw input into a change for spec.
func (c *Context) Change(spec *Spec, raw float64) float64 {
	return raw * c.Scaled(spec)
}

// SmoothingEnabled reports whether spec's smoothing applies.
func (c *Context) SmoothingEnabled(spec *Spec) bool {
	return c.Settings.Smoothing && spec.Smoothing.Enabled
}

// Smooth passes v through the smoother on channel "<spec name>.<channel>"
// when smoothing is enabled for spec, and returns v unchanged otherwise.
// In query mode the smoother is read but not advanced.
func (c *Context) Smooth(spec *Spec, channel string, v float64) float64 {
	if c.Mode == input.ModeQuery {
		return c.PeekSmooth(spec, channel, v)
	}
	if !c.SmoothingEnabled(spec) || c.Smoother == nil {
		return v
	}
	return c.Smoother.Next(spec.Name+"."+channel, spec.Smoothing.Coefficient, v)
}

// PeekSmooth returns what Smooth would return in generate mode without
// recording it.
func (c *Context) PeekSmooth(spec *Spec, channel string, v float64) float64 {
	if !c.SmoothingEnabled(spec) || c.Smoother == nil {
		return v
	}
	return c.Smoother.Peek(spec.Name+"."+channel, spec.Smoothing.Coefficient, v)
}

// Log returns the context logger, or a discarding one.
func (c *Context) Log() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
