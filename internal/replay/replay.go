// Package replay drives the navigation engine from scripted scenarios.
//
// A scenario is a YAML list of timed input events and frame steps. Run
// feeds them to a dispatcher.Engine and a scheduler.Frame on a virtual
// clock, checks the expectations attached to each step and returns a
// Report. Replays are deterministic and need no terminal.
package replay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/globenav/internal/dispatcher"
	"github.com/dshills/globenav/internal/input"
	"github.com/dshills/globenav/internal/input/keymap"
	"github.com/dshills/globenav/internal/logging"
	"github.com/dshills/globenav/internal/scheduler"
	"github.com/dshills/globenav/internal/view"
)

// Report is the result of one run.
type Report struct {
	RunID    uuid.UUID           `yaml:"run_id"`
	Scenario string              `yaml:"scenario"`
	Steps    []StepResult        `yaml:"steps"`
	Camera   Camera              `yaml:"camera"`
	Metrics  dispatcher.Snapshot `yaml:"metrics"`
	Redraws  int                 `yaml:"redraws"`
	Failures []string            `yaml:"failures,omitempty"`
}

// Passed reports whether every expectation held.
func (r *Report) Passed() bool { return len(r.Failures) == 0 }

// StepResult records what one step did.
type StepResult struct {
	Index   int           `yaml:"index"`
	At      time.Duration `yaml:"at"`
	Kind    string        `yaml:"kind"`
	Outcome string        `yaml:"outcome"`
	Redraws int           `yaml:"redraws,omitempty"`
}

// Camera is a plain copy of the target's state.
type Camera struct {
	Lat         float64 `yaml:"lat"`
	Lon         float64 `yaml:"lon"`
	EyeAltitude float64 `yaml:"eye_altitude"`
	Heading     float64 `yaml:"heading"`
	Pitch       float64 `yaml:"pitch"`
	Roll        float64 `yaml:"roll"`
	Zoom        float64 `yaml:"zoom"`
}

// CameraOf copies the state of t.
func CameraOf(t view.Target) Camera {
	center := t.CenterPosition()
	c := Camera{
		Lat:         center.Lat,
		Lon:         center.Lon,
		EyeAltitude: t.EyePosition().Elev,
		Heading:     t.Heading(),
		Pitch:       t.Pitch(),
		Roll:        t.Roll(),
	}
	if z, ok := t.Zoom(); ok {
		c.Zoom = z
	}
	return c
}

// Option configures a run.
type Option func(*runner)

// WithClock sets the virtual clock. It must be the clock the engine and
// the frame were built with.
func WithClock(c *Clock) Option {
	return func(r *runner) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *runner) {
		if l != nil {
			r.logger = l
		}
	}
}

type runner struct {
	clock  *Clock
	logger *slog.Logger
}

// Run replays sc against engine and frame. Events are stamped with the
// virtual time of their step. Failed expectations are collected in the
// report; the returned error is reserved for invalid scenarios and
// cancellation.
func Run(ctx context.Context, sc *Scenario, engine *dispatcher.Engine, frame *scheduler.Frame, opts ...Option) (*Report, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	r := &runner{clock: NewClock(), logger: logging.Discard()}
	for _, opt := range opts {
		opt(r)
	}

	rep := &Report{RunID: uuid.New(), Scenario: sc.Name}
	start := r.clock.Now()
	r.logger.Info("replay started", "run", rep.RunID, "scenario", sc.Name, "steps", len(sc.Steps))

	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		r.clock.AdvanceTo(start.Add(step.At))

		res := StepResult{Index: i, At: step.At, Kind: step.Kind()}
		var outcome input.Outcome
		switch {
		case step.Tick != "":
			mode, _ := parseMode(step.Tick)
			if engine.Tick(mode) {
				res.Outcome = "active"
			} else {
				res.Outcome = "idle"
			}
		case step.Poll != nil:
			every := step.Poll.Every
			if every == 0 {
				every = frame.Interval()
			}
			for n := 0; n < step.Poll.Count; n++ {
				r.clock.Advance(every)
				if frame.Poll() {
					res.Redraws++
				}
			}
			rep.Redraws += res.Redraws
			res.Outcome = fmt.Sprintf("%d redraws", res.Redraws)
		default:
			outcome = engine.HandleEvent(step.Event(r.clock.Now()))
			res.Outcome = outcome.String()
		}
		rep.Steps = append(rep.Steps, res)
		r.logger.Debug("replay step", "index", i, "kind", res.Kind, "outcome", res.Outcome)

		if step.Expect != nil {
			rep.Failures = append(rep.Failures, check(i, step, outcome, engine.Target())...)
		}
	}

	if t := engine.Target(); t != nil {
		rep.Camera = CameraOf(t)
	}
	rep.Metrics = engine.Metrics().Snapshot()
	r.logger.Info("replay finished", "run", rep.RunID, "failures", len(rep.Failures))
	return rep, nil
}

// check evaluates a step's expectations.
func check(i int, step Step, outcome input.Outcome, t view.Target) []string {
	var failures []string
	exp := step.Expect

	if exp.Outcome != "" {
		want, _ := parseOutcome(exp.Outcome)
		if step.Event(time.Time{}) == nil {
			failures = append(failures, fmt.Sprintf("step %d: outcome expected on a %s step", i, step.Kind()))
		} else if outcome != want {
			failures = append(failures, fmt.Sprintf("step %d: outcome = %s, want %s", i, outcome, want))
		}
	}
	if t == nil {
		return failures
	}

	cam := CameraOf(t)
	for _, c := range []struct {
		name string
		r    *Range
		v    float64
	}{
		{"lat", exp.Lat, cam.Lat},
		{"lon", exp.Lon, cam.Lon},
		{"heading", exp.Heading, cam.Heading},
		{"pitch", exp.Pitch, cam.Pitch},
		{"roll", exp.Roll, cam.Roll},
		{"zoom", exp.Zoom, cam.Zoom},
	} {
		if c.r != nil && !c.r.Contains(c.v) {
			failures = append(failures, fmt.Sprintf("step %d: %s = %g, want %s", i, c.name, c.v, c.r))
		}
	}
	return failures
}

// Rig is an engine, frame scheduler and orbit camera wired to one virtual
// clock.
type Rig struct {
	Clock  *Clock
	Globe  *view.Sphere
	Orbit  *view.Orbit
	Engine *dispatcher.Engine
	Frame  *scheduler.Frame
}

// RigConfig holds the settings of a Rig.
type RigConfig struct {
	Dispatcher dispatcher.Config
	Interval   time.Duration
	Radius     float64
	View       view.OrbitState
	Logger     *slog.Logger
}

// NewRig builds a rig for sc over registry. The scenario's view and
// viewport take precedence over cfg.
func NewRig(sc *Scenario, registry *keymap.Registry, cfg RigConfig) (*Rig, error) {
	if cfg.Radius <= 0 {
		cfg.Radius = view.EarthRadius
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}

	initial := cfg.View
	if sc.View != nil {
		zoom := initial.Zoom
		if sc.View.Zoom > 0 {
			zoom = sc.View.Zoom
		}
		initial = view.OrbitState{
			Heading: sc.View.Heading,
			Pitch:   sc.View.Pitch,
			Roll:    sc.View.Roll,
			Zoom:    zoom,
		}
		initial.Center.Lat = sc.View.Lat
		initial.Center.Lon = sc.View.Lon
	}

	var orbitOpts []view.OrbitOption
	if sc.Viewport != nil {
		orbitOpts = append(orbitOpts, view.WithViewport(sc.Viewport.Rect()))
	}

	rig := &Rig{Clock: NewClock(), Globe: view.NewSphere(cfg.Radius)}
	rig.Orbit = view.NewOrbit(rig.Globe, initial, orbitOpts...)

	engine, err := dispatcher.New(registry, rig.Orbit,
		dispatcher.WithConfig(cfg.Dispatcher),
		dispatcher.WithGlobe(rig.Globe),
		dispatcher.WithClock(rig.Clock.Now),
		dispatcher.WithLogger(logging.With(cfg.Logger, "engine")),
	)
	if err != nil {
		return nil, err
	}
	rig.Engine = engine
	rig.Frame = scheduler.New(engine,
		scheduler.WithInterval(cfg.Interval),
		scheduler.WithClock(rig.Clock.Now),
	)
	return rig, nil
}

// Run replays sc on the rig.
func (r *Rig) Run(ctx context.Context, sc *Scenario, opts ...Option) (*Report, error) {
	opts = append([]Option{WithClock(r.Clock)}, opts...)
	return Run(ctx, sc, r.Engine, r.Frame, opts...)
}
