package lua

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/globenav/internal/geo"
	"github.com/dshills/globenav/internal/input"
	"github.com/dshills/globenav/internal/input/action"
	"github.com/dshills/globenav/internal/logging"
)

// Strategy is an action.Handler backed by a Lua script.
type Strategy struct {
	name     string
	state    *State
	fallback action.Handler
	logger   *slog.Logger
	hasApply bool

	// Set for the duration of a call; read by the view table functions.
	ctx      *action.Context
	spec     *action.Spec
	applying bool
}

// StrategyOption configures a Strategy.
type StrategyOption func(*Strategy)

// WithFallback sets the strategy that applies magnitudes when the script
// has no apply function.
func WithFallback(h action.Handler) StrategyOption {
	return func(s *Strategy) { s.fallback = h }
}

// WithLogger sets the logger for script errors.
func WithLogger(l *slog.Logger) StrategyOption {
	return func(s *Strategy) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStateOptions passes options to the underlying State.
func WithStateOptions(opts ...StateOption) StrategyOption {
	return func(s *Strategy) {
		s.state = NewState(opts...)
	}
}

// LoadStrategy loads a strategy script from path.
func LoadStrategy(path string, opts ...StrategyOption) (*Strategy, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return newStrategy(name, func(st *State) error { return st.DoFile(path) }, opts...)
}

// NewStrategy compiles a strategy from source. name labels log entries.
func NewStrategy(name, source string, opts ...StrategyOption) (*Strategy, error) {
	return newStrategy(name, func(st *State) error { return st.DoString(source) }, opts...)
}

func newStrategy(name string, load func(*State) error, opts ...StrategyOption) (*Strategy, error) {
	s := &Strategy{name: name, logger: logging.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	if s.state == nil {
		s.state = NewState()
	}

	s.installAPI()
	if err := load(s.state); err != nil {
		s.state.Close()
		return nil, fmt.Errorf("loading strategy %s: %w", name, err)
	}
	if !s.state.HasFunction("compute") {
		s.state.Close()
		return nil, fmt.Errorf("%w: %s", ErrMissingCompute, name)
	}
	s.hasApply = s.state.HasFunction("apply")
	return s, nil
}

// Name returns the strategy name.
func (s *Strategy) Name() string { return s.name }

// Close releases the Lua state.
func (s *Strategy) Close() error { return s.state.Close() }

// Compute implements action.Handler. The script's compute(ctx) returns
// up to three numbers, or nil when the action is idle.
func (s *Strategy) Compute(ctx *action.Context, spec *action.Spec) (action.Magnitude, bool) {
	s.begin(ctx, spec, false)
	defer s.end()

	ret, err := s.state.Call("compute", s.contextTable(ctx, spec))
	if err != nil {
		s.logger.Warn("lua compute failed", "script", s.name, "action", spec.Name, "error", err)
		return action.Magnitude{}, false
	}
	if len(ret) == 0 || ret[0] == lua.LNil || ret[0] == lua.LFalse {
		return action.Magnitude{}, false
	}

	var m action.Magnitude
	for i, dst := range []*float64{&m.X, &m.Y, &m.Z} {
		if i < len(ret) {
			if n, ok := ret[i].(lua.LNumber); ok {
				*dst = float64(n)
			}
		}
	}
	return m, true
}

// Apply implements action.Handler. It calls the script's apply(ctx, x, y,
// z) with the view table unlocked, or the fallback strategy.
func (s *Strategy) Apply(ctx *action.Context, spec *action.Spec, m action.Magnitude) {
	if !s.hasApply {
		if s.fallback != nil {
			s.fallback.Apply(ctx, spec, m)
		}
		return
	}

	s.begin(ctx, spec, true)
	defer s.end()

	_, err := s.state.Call("apply", s.contextTable(ctx, spec),
		lua.LNumber(m.X), lua.LNumber(m.Y), lua.LNumber(m.Z))
	if err != nil {
		s.logger.Warn("lua apply failed", "script", s.name, "action", spec.Name, "error", err)
	}
}

func (s *Strategy) begin(ctx *action.Context, spec *action.Spec, applying bool) {
	s.ctx, s.spec, s.applying = ctx, spec, applying
}

func (s *Strategy) end() {
	s.ctx, s.spec, s.applying = nil, nil, false
}

// contextTable exposes the read-only evaluation context to the script.
func (s *Strategy) contextTable(ctx *action.Context, spec *action.Spec) *lua.LTable {
	L := s.state.L
	t := L.NewTable()
	t.RawSetString("device", lua.LString(ctx.Device.String()))
	t.RawSetString("mode", lua.LString(ctx.Mode.String()))
	t.RawSetString("action", lua.LString(spec.Name))
	t.RawSetString("sensitivity", lua.LNumber(ctx.Sensitivity))
	t.RawSetString("scaled", lua.LNumber(ctx.Scaled(spec)))

	keys := ctx.KeyInput(spec)
	t.RawSetString("keys", vec3(L, keys.X, keys.Y, keys.Z))
	t.RawSetString("button_held", lua.LBool(ctx.ButtonHeld(spec)))

	switch ev := ctx.Event.(type) {
	case input.WheelEvent:
		t.RawSetString("wheel", lua.LNumber(ev.Amount))
	case input.KeyEvent:
		t.RawSetString("key", lua.LString(ev.Code.String()))
		t.RawSetString("pressed", lua.LBool(ev.Pressed))
	case input.PointerEvent:
		t.RawSetString("pointer", lua.LString(ev.Action.String()))
		t.RawSetString("button", lua.LString(ev.Button.String()))
	}

	if ctx.Anchor != nil && ctx.Anchor.Active() {
		mv := ctx.Anchor.Movement()
		t.RawSetString("movement", vec3(L, float64(mv.X), float64(mv.Y), 0))
	}

	if ctx.Target != nil {
		t.RawSetString("camera", s.cameraTable(ctx))
	}
	return t
}

func (s *Strategy) cameraTable(ctx *action.Context) *lua.LTable {
	L := s.state.L
	cam := L.NewTable()
	center := ctx.Target.CenterPosition()
	eye := ctx.Target.EyePosition()
	cam.RawSetString("lat", lua.LNumber(center.Lat))
	cam.RawSetString("lon", lua.LNumber(center.Lon))
	cam.RawSetString("eye_altitude", lua.LNumber(eye.Elev))
	cam.RawSetString("heading", lua.LNumber(ctx.Target.Heading()))
	cam.RawSetString("pitch", lua.LNumber(ctx.Target.Pitch()))
	cam.RawSetString("roll", lua.LNumber(ctx.Target.Roll()))
	if z, ok := ctx.Target.Zoom(); ok {
		cam.RawSetString("zoom", lua.LNumber(z))
	}
	return cam
}

func vec3(L *lua.LState, x, y, z float64) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("x", lua.LNumber(x))
	t.RawSetString("y", lua.LNumber(y))
	t.RawSetString("z", lua.LNumber(z))
	return t
}

// installAPI registers the view table and the transform helpers.
func (s *Strategy) installAPI() {
	s.state.RegisterModule("view", map[string]lua.LGFunction{
		"heading": s.getter(func(c *action.Context) float64 { return c.Target.Heading() }),
		"pitch":   s.getter(func(c *action.Context) float64 { return c.Target.Pitch() }),
		"roll":    s.getter(func(c *action.Context) float64 { return c.Target.Roll() }),
		"zoom": s.getter(func(c *action.Context) float64 {
			z, _ := c.Target.Zoom()
			return z
		}),

		"set_heading": s.setter(func(c *action.Context, v float64) { c.Target.SetHeading(geo.NormalizeAngle(v)) }),
		"set_pitch":   s.setter(func(c *action.Context, v float64) { c.Target.SetPitch(v) }),
		"set_roll":    s.setter(func(c *action.Context, v float64) { c.Target.SetRoll(geo.NormalizeAngle(v)) }),
		"set_zoom":    s.setter(func(c *action.Context, v float64) { c.Target.SetZoom(v) }),
		"set_eye_altitude": s.setter(func(c *action.Context, v float64) {
			c.Target.SetEyeAltitude(v)
		}),
		"set_center": s.mutator(func(L *lua.LState, c *action.Context) {
			p := c.Target.CenterPosition()
			c.Target.SetCenterPosition(geo.Position{
				Lat:  geo.ClampLat(float64(L.CheckNumber(1))),
				Lon:  geo.NormalizeLon(float64(L.CheckNumber(2))),
				Elev: p.Elev,
			})
		}),
		"move_by": s.mutator(func(L *lua.LState, c *action.Context) {
			p := c.Target.CenterPosition()
			c.Target.SetCenterPosition(p.Add(float64(L.CheckNumber(1)), float64(L.CheckNumber(2))))
		}),
		"move_to": s.mutator(func(L *lua.LState, c *action.Context) {
			p := c.Target.CenterPosition()
			p.Lat = geo.ClampLat(float64(L.CheckNumber(1)))
			p.Lon = geo.NormalizeLon(float64(L.CheckNumber(2)))
			c.Target.MoveTo(p, float64(L.OptNumber(3, 0)))
		}),
		"reset_heading": s.mutator(func(_ *lua.LState, c *action.Context) { c.Target.ResetHeading() }),
		"reset_roll":    s.mutator(func(_ *lua.LState, c *action.Context) { c.Target.ResetRoll() }),
		"stop": s.mutator(func(_ *lua.LState, c *action.Context) {
			if c.Stop != nil {
				c.Stop()
				return
			}
			c.Target.StopMovement()
		}),
	})

	// change(raw) converts raw input through the spec's value transform.
	s.state.RegisterFunc("change", func(L *lua.LState) int {
		raw := float64(L.CheckNumber(1))
		if s.ctx == nil {
			L.Push(lua.LNumber(raw))
			return 1
		}
		L.Push(lua.LNumber(s.ctx.Change(s.spec, raw)))
		return 1
	})
	// smooth(channel, v) smooths v when smoothing is on. Outside apply it
	// previews the value without advancing the smoother.
	s.state.RegisterFunc("smooth", func(L *lua.LState) int {
		channel := L.CheckString(1)
		v := float64(L.CheckNumber(2))
		switch {
		case s.ctx == nil:
			L.Push(lua.LNumber(v))
		case s.applying:
			L.Push(lua.LNumber(s.ctx.Smooth(s.spec, channel, v)))
		default:
			L.Push(lua.LNumber(s.ctx.PeekSmooth(s.spec, channel, v)))
		}
		return 1
	})
	// log(msg) writes to the strategy logger at debug.
	s.state.RegisterFunc("log", func(L *lua.LState) int {
		s.logger.Debug("lua", "script", s.name, "msg", L.CheckString(1))
		return 0
	})
}

func (s *Strategy) getter(fn func(*action.Context) float64) lua.LGFunction {
	return func(L *lua.LState) int {
		if s.ctx == nil || s.ctx.Target == nil {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LNumber(fn(s.ctx)))
		return 1
	}
}

func (s *Strategy) setter(fn func(*action.Context, float64)) lua.LGFunction {
	return s.mutator(func(L *lua.LState, c *action.Context) {
		fn(c, float64(L.CheckNumber(1)))
	})
}

// mutator guards view changes: they are only legal while applying.
func (s *Strategy) mutator(fn func(*lua.LState, *action.Context)) lua.LGFunction {
	return func(L *lua.LState) int {
		if !s.applying || s.ctx == nil || s.ctx.Target == nil {
			L.RaiseError("%s", ErrOutsideApply.Error())
			return 0
		}
		if s.state.Sandbox().IncrementInstructions(1) {
			L.RaiseError("%s", ErrInstructionLimit.Error())
			return 0
		}
		fn(L, s.ctx)
		return 0
	}
}
