package lua

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/globenav/internal/geo"
	"github.com/dshills/globenav/internal/input"
	"github.com/dshills/globenav/internal/input/action"
	"github.com/dshills/globenav/internal/input/key"
	"github.com/dshills/globenav/internal/input/state"
	"github.com/dshills/globenav/internal/transform"
	"github.com/dshills/globenav/internal/view"
)

const rollScript = `
function compute(ctx)
  if ctx.keys.y == 0 then return nil end
  return 0, ctx.keys.y, 0
end

function apply(ctx, x, y, z)
  view.set_roll(view.roll() + change(y))
end
`

func newOrbitContext(mode input.Mode) (*action.Context, *view.Orbit) {
	globe := view.NewSphere(view.EarthRadius)
	orbit := view.NewOrbit(globe, view.OrbitState{Zoom: 3 * view.EarthRadius})
	return &action.Context{
		Device:      input.DeviceKeyboard,
		Mode:        mode,
		State:       state.NewTracker(),
		Anchor:      &state.Anchor{},
		Target:      orbit,
		Globe:       globe,
		Sensitivity: 1,
		Settings:    action.DefaultSettings(),
		Smoother:    transform.NewSmoother(),
	}, orbit
}

func rollSpec(h action.Handler) *action.Spec {
	return &action.Spec{
		Name:        "rollKeys",
		Calibration: action.Uniform(2),
		Trigger:     input.TriggerHeld,
		Scale:       transform.ScaleNone,
		Keys: []action.KeyBinding{
			{Code: key.Named(key.KeyUp), Axis: action.AxisY, Sign: +1},
			{Code: key.Named(key.KeyDown), Axis: action.AxisY, Sign: -1},
		},
		Handler: h,
	}
}

func TestStrategyComputeAndApply(t *testing.T) {
	s, err := NewStrategy("roll", rollScript)
	if err != nil {
		t.Fatalf("NewStrategy() error = %v", err)
	}
	defer s.Close()

	ctx, orbit := newOrbitContext(input.ModeGenerate)
	spec := rollSpec(s)

	if out := action.Evaluate(s, ctx, spec, input.ModeGenerate); out != input.Unhandled {
		t.Errorf("Evaluate() idle = %v, want Unhandled", out)
	}

	ctx.State.Press(state.KeyCode(key.Named(key.KeyUp)), time.Now())
	if out := action.Evaluate(s, ctx, spec, input.ModeQuery); out != input.Handled {
		t.Errorf("Evaluate(query) = %v, want Handled", out)
	}
	if orbit.Roll() != 0 {
		t.Errorf("Roll() = %v after query, want 0", orbit.Roll())
	}

	if out := action.Evaluate(s, ctx, spec, input.ModeGenerate); out != input.Handled {
		t.Errorf("Evaluate(generate) = %v, want Handled", out)
	}
	if orbit.Roll() != 2 {
		t.Errorf("Roll() = %v, want 2", orbit.Roll())
	}
}

func TestStrategyComputeCannotMutate(t *testing.T) {
	s, err := NewStrategy("sneaky", `
function compute(ctx)
  view.set_heading(90)
  return 1
end
`)
	if err != nil {
		t.Fatalf("NewStrategy() error = %v", err)
	}
	defer s.Close()

	ctx, orbit := newOrbitContext(input.ModeQuery)
	if out := action.Evaluate(s, ctx, rollSpec(s), input.ModeQuery); out != input.Unhandled {
		t.Errorf("Evaluate() = %v, want Unhandled after a rejected mutation", out)
	}
	if orbit.Heading() != 0 {
		t.Errorf("Heading() = %v, want 0", orbit.Heading())
	}
}

func TestStrategyFallback(t *testing.T) {
	applied := action.Magnitude{}
	fallback := action.Funcs{ApplyFunc: func(_ *action.Context, _ *action.Spec, m action.Magnitude) {
		applied = m
	}}
	s, err := NewStrategy("wheelish", `function compute(ctx) return 1, 2, 3 end`, WithFallback(fallback))
	if err != nil {
		t.Fatalf("NewStrategy() error = %v", err)
	}
	defer s.Close()

	ctx, _ := newOrbitContext(input.ModeGenerate)
	action.Evaluate(s, ctx, rollSpec(s), input.ModeGenerate)
	if applied != (action.Magnitude{X: 1, Y: 2, Z: 3}) {
		t.Errorf("fallback got %+v, want {1 2 3}", applied)
	}
}

func TestStrategyContextTable(t *testing.T) {
	s, err := NewStrategy("wheelZoom", `
function compute(ctx)
  if ctx.device ~= "wheel" then return nil end
  if ctx.camera.zoom == nil then return nil end
  return ctx.wheel * ctx.scaled
end
`)
	if err != nil {
		t.Fatalf("NewStrategy() error = %v", err)
	}
	defer s.Close()

	ctx, _ := newOrbitContext(input.ModeQuery)
	ctx.Device = input.DeviceWheel
	ctx.Event = input.WheelEvent{Amount: 3}
	m, ok := s.Compute(ctx, rollSpec(s))
	if !ok || m.X != 6 {
		t.Errorf("Compute() = %+v, %v, want X 6", m, ok)
	}
}

func TestStrategyMoveTo(t *testing.T) {
	s, err := NewStrategy("jump", `
function compute(ctx) return 1 end
function apply(ctx) view.move_to(10, 20) end
`)
	if err != nil {
		t.Fatalf("NewStrategy() error = %v", err)
	}
	defer s.Close()

	ctx, orbit := newOrbitContext(input.ModeGenerate)
	action.Evaluate(s, ctx, rollSpec(s), input.ModeGenerate)
	c := orbit.CenterPosition()
	if c.Lat != 10 || c.Lon != 20 {
		t.Errorf("CenterPosition() = %v, want 10,20", geo.Position{Lat: c.Lat, Lon: c.Lon})
	}
}

func TestStrategyLoadErrors(t *testing.T) {
	if _, err := NewStrategy("empty", `x = 1`); !errors.Is(err, ErrMissingCompute) {
		t.Errorf("NewStrategy(no compute) = %v, want ErrMissingCompute", err)
	}
	if _, err := NewStrategy("broken", `function compute(`); err == nil {
		t.Error("NewStrategy(syntax error) = nil error")
	}
	if _, err := LoadStrategy(filepath.Join(t.TempDir(), "absent.lua")); err == nil {
		t.Error("LoadStrategy(missing) = nil error")
	}
}

func TestLoadStrategyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roll.lua")
	if err := os.WriteFile(path, []byte(rollScript), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	s, err := LoadStrategy(path)
	if err != nil {
		t.Fatalf("LoadStrategy() error = %v", err)
	}
	defer s.Close()
	if s.Name() != "roll" {
		t.Errorf("Name() = %q, want roll", s.Name())
	}
}

func TestStrategyRunawayScript(t *testing.T) {
	s, err := NewStrategy("spin", `function compute(ctx) while true do end end`,
		WithStateOptions(WithInstructionLimit(10_000), WithExecutionTimeout(0)))
	if err != nil {
		t.Fatalf("NewStrategy() error = %v", err)
	}
	defer s.Close()

	ctx, _ := newOrbitContext(input.ModeQuery)
	if _, ok := s.Compute(ctx, rollSpec(s)); ok {
		t.Error("Compute() of a runaway script reported ok")
	}
}
