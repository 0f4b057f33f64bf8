package dispatcher

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dshills/globenav/internal/geo"
	"github.com/dshills/globenav/internal/input"
	"github.com/dshills/globenav/internal/input/action"
	"github.com/dshills/globenav/internal/input/key"
	"github.com/dshills/globenav/internal/input/keymap"
	"github.com/dshills/globenav/internal/input/state"
	"github.com/dshills/globenav/internal/transform"
	"github.com/dshills/globenav/internal/view"
)

// State is the engine's evaluation state.
type State uint8

const (
	// StateIdle means no evaluation is running.
	StateIdle State = iota
	// StateDiscrete means a discrete event is being dispatched.
	StateDiscrete
	// StateFrameTick means a frame tick is being evaluated.
	StateFrameTick
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDiscrete:
		return "evaluating-discrete-event"
	case StateFrameTick:
		return "evaluating-frame-tick"
	default:
		return fmt.Sprintf("state(%d)", s)
	}
}

// tickDevices are the devices a frame tick evaluates, in order.
var tickDevices = [...]struct {
	device input.Device
	kind   state.Kind
}{
	{input.DeviceKeyboard, state.KindKey},
	{input.DevicePointer, state.KindButton},
}

// Engine dispatches input events and frame ticks to the actions of a
// keymap registry.
type Engine struct {
	config   Config
	registry *keymap.Registry

	target view.Target
	globe  view.Globe
	picker view.Picker
	chain  *input.Chain

	tracker  *state.Tracker
	anchor   state.Anchor
	smoother *transform.Smoother
	metrics  *Metrics
	logger   *slog.Logger

	state   State
	focused bool

	onRedraw func()
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig sets the engine configuration.
func WithConfig(c Config) Option {
	return func(e *Engine) { e.config = c }
}

// WithGlobe sets the globe handlers project onto.
func WithGlobe(g view.Globe) Option {
	return func(e *Engine) { e.globe = g }
}

// WithPicker sets the ground picker used when a pointer gesture begins.
// Without one, a ray picker over the target and globe is used.
func WithPicker(p view.Picker) Option {
	return func(e *Engine) { e.picker = p }
}

// WithChain sets the upstream listener chain.
func WithChain(c *input.Chain) Option {
	return func(e *Engine) { e.chain = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRedraw sets the callback invoked when the engine requests a redraw.
func WithRedraw(fn func()) Option {
	return func(e *Engine) { e.onRedraw = fn }
}

// WithMetrics sets the metrics collector, e.g. to share one between engines.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock sets the time source for metrics timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine over registry driving target. target may be nil
// and attached later with SetTarget; until then every event is a no-op.
func New(registry *keymap.Registry, target view.Target, opts ...Option) (*Engine, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	e := &Engine{
		config:   DefaultConfig(),
		registry: registry,
		target:   target,
		tracker:  state.NewTracker(),
		smoother: transform.NewSmoother(),
		focused:  true,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.config.Validate(); err != nil {
		return nil, err
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	if e.metrics == nil {
		e.metrics = NewMetrics()
	}
	return e, nil
}

// SetTarget attaches or, with nil, detaches the view target.
func (e *Engine) SetTarget(t view.Target) {
	e.target = t
	e.anchor.Reset()
}

// Target returns the attached view target.
func (e *Engine) Target() view.Target { return e.target }

// SetConfig replaces the configuration.
func (e *Engine) SetConfig(c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	e.config = c
	return nil
}

// Config returns the current configuration.
func (e *Engine) Config() Config { return e.config }

// Registry returns the keymap registry.
func (e *Engine) Registry() *keymap.Registry { return e.registry }

// SetRegistry swaps the keymap registry, e.g. after a config reload. Held
// keys and the pointer anchor carry over.
func (e *Engine) SetRegistry(r *keymap.Registry) error {
	if r == nil {
		return ErrNilRegistry
	}
	e.registry = r
	return nil
}

// Metrics returns the metrics collector.
func (e *Engine) Metrics() *Metrics { return e.metrics }

// Tracker returns the device state. It must not be mutated outside the
// engine.
func (e *Engine) Tracker() *state.Tracker { return e.tracker }

// Anchor returns the current pointer anchor.
func (e *Engine) Anchor() *state.Anchor { return &e.anchor }

// State returns the evaluation state, for diagnostics.
func (e *Engine) State() State { return e.state }

// Focused reports whether the input surface has focus.
func (e *Engine) Focused() bool { return e.focused }

// StopView performs a hard stop: it forgets every smoothing channel and
// stops all target animation.
func (e *Engine) StopView() {
	e.smoother.Reset()
	if e.target != nil {
		e.target.StopMovement()
	}
	e.logger.Debug("view stopped")
}

// HandleEvent dispatches one raw input event. With no target attached
// only focus changes and releases are recorded.
func (e *Engine) HandleEvent(ev input.Event) input.Outcome {
	if ev == nil {
		return input.Unhandled
	}
	if e.target == nil {
		e.observeDetached(ev)
		return input.Unhandled
	}

	e.state = StateDiscrete
	defer func() { e.state = StateIdle }()

	if e.chain != nil && e.chain.Run(ev) == input.Consumed {
		e.observe(ev)
		if fe, ok := ev.(input.FocusEvent); ok {
			e.focusChanged(fe)
		}
		e.finish(ev)
		e.recordEvent(input.Consumed)
		return input.Consumed
	}

	e.observe(ev)
	out := e.react(ev)
	e.finish(ev)
	e.recordEvent(out)
	return out
}

// observe records ev in the device state and the anchor.
func (e *Engine) observe(ev input.Event) {
	switch ev := ev.(type) {
	case input.KeyEvent:
		code := state.KeyCode(ev.Code)
		if ev.Pressed {
			e.tracker.Press(code, ev.At)
		} else {
			e.tracker.Release(code)
		}
		e.tracker.SetModifiers(input.DeviceKeyboard, ev.Modifiers)

	case input.PointerEvent:
		e.tracker.SetModifiers(input.DevicePointer, ev.Modifiers)
		switch ev.Action {
		case input.PointerPress:
			e.tracker.Press(state.ButtonCode(ev.Button), ev.At)
			e.beginGesture(ev)
		case input.PointerRelease:
			e.tracker.Release(state.ButtonCode(ev.Button))
		case input.PointerMove, input.PointerDrag:
			e.anchor.Move(ev.Point)
		}

	case input.WheelEvent:
		e.tracker.SetModifiers(input.DeviceWheel, ev.Modifiers)

	case input.FocusEvent:
		e.focused = ev.Focused
		if !ev.Focused {
			e.tracker.Clear()
			e.anchor.Reset()
		}
	}
}

// observeDetached keeps the device state from going stale while no
// target is attached. Presses are dropped since no gesture can begin.
func (e *Engine) observeDetached(ev input.Event) {
	switch ev := ev.(type) {
	case input.KeyEvent:
		if !ev.Pressed {
			e.observe(ev)
		}
	case input.PointerEvent:
		if ev.Action == input.PointerRelease {
			e.observe(ev)
			e.finish(ev)
		}
	case input.FocusEvent:
		e.observe(ev)
		e.focusChanged(ev)
	}
}

// finish does the bookkeeping that must follow dispatch.
func (e *Engine) finish(ev input.Event) {
	if pe, ok := ev.(input.PointerEvent); ok && pe.Action == input.PointerRelease {
		if e.tracker.CountDown(state.KindButton) == 0 {
			e.anchor.Clear()
		}
	}
}

func (e *Engine) beginGesture(ev input.PointerEvent) {
	snap := state.Snapshot{
		Modelview:  e.target.Modelview(),
		Projection: e.target.Projection(),
		Viewport:   e.target.Viewport(),
	}
	var ground *geo.Position
	if p := e.groundPicker(); p != nil {
		if pos, ok := p.PickGround(ev.Point); ok {
			ground = &pos
		}
	}
	e.anchor.Begin(ev.Point, ground, snap)
}

func (e *Engine) groundPicker() view.Picker {
	if e.picker != nil {
		return e.picker
	}
	if e.globe != nil {
		return view.NewRayPicker(e.target, e.globe)
	}
	return nil
}

// react dispatches ev to the registry after it was observed.
func (e *Engine) react(ev input.Event) input.Outcome {
	switch ev := ev.(type) {
	case input.KeyEvent:
		if !ev.Pressed {
			return e.dispatch(ev, input.DeviceKeyboard, input.TriggerRelease)
		}
		out := e.dispatch(ev, input.DeviceKeyboard, input.TriggerPress)
		if out == input.Handled {
			e.requestRedraw()
		} else if e.tickDevice(input.DeviceKeyboard, state.KindKey, input.ModeQuery) {
			e.requestRedraw()
		}
		return out

	case input.PointerEvent:
		switch ev.Action {
		case input.PointerPress:
			out := e.dispatch(ev, input.DevicePointer, input.TriggerPress)
			if out == input.Handled || e.tickDevice(input.DevicePointer, state.KindButton, input.ModeQuery) {
				e.requestRedraw()
			}
			return out
		case input.PointerRelease:
			out := e.dispatch(ev, input.DevicePointer, input.TriggerRelease)
			if e.clicked(ev) && e.dispatch(ev, input.DevicePointer, input.TriggerClick) == input.Handled {
				out = input.Handled
				e.requestRedraw()
			}
			return out
		case input.PointerDrag:
			return e.dispatch(ev, input.DevicePointer, input.TriggerDrag)
		}
		return input.Unhandled

	case input.WheelEvent:
		return e.dispatch(ev, input.DeviceWheel, input.TriggerDrag)

	case input.FocusEvent:
		e.focusChanged(ev)
	}
	return input.Unhandled
}

// focusChanged stops the view on focus loss when configured. It runs even
// when a listener consumed the event.
func (e *Engine) focusChanged(ev input.FocusEvent) {
	if !ev.Focused && e.config.StopOnFocusLost {
		e.StopView()
	}
}

// clicked reports whether a release ends a gesture whose pointer never
// left the press point.
func (e *Engine) clicked(ev input.PointerEvent) bool {
	return e.anchor.Active() && !e.anchor.Dragged() && ev.Point == e.anchor.Down()
}

// dispatch walks every combination matched by the device's modifier mask
// and evaluates the specs with the given trigger in generate mode. It
// stops after the first combination in which a spec was handled.
func (e *Engine) dispatch(ev input.Event, device input.Device, trigger input.Trigger) input.Outcome {
	mask := e.tracker.Modifiers(device)
	ctx := e.context(ev, device, input.ModeGenerate)

	for _, combo := range key.Matching(mask) {
		handled := false
		specs := e.registry.Actions(device, combo)
		for i := range specs {
			if specs[i].Trigger != trigger {
				continue
			}
			if e.evaluate(ctx, &specs[i]) == input.Handled {
				handled = true
			}
		}
		if handled {
			e.logger.Debug("event handled", "device", device, "trigger", trigger, "modifiers", combo)
			return input.Handled
		}
	}
	return input.Unhandled
}

// Tick evaluates the held actions of the keyboard and the pointer, then
// the target's animations. In generate mode it applies them; in query mode
// it only reports whether anything would change. It returns true when
// something was or would be handled.
func (e *Engine) Tick(mode input.Mode) bool {
	if !e.focused || e.target == nil {
		return false
	}
	prev := e.state
	e.state = StateFrameTick
	defer func() { e.state = prev }()

	active := false
	for _, d := range tickDevices {
		if e.tickDevice(d.device, d.kind, mode) {
			active = true
		}
	}

	if a, ok := e.target.(view.Animator); ok {
		if mode == input.ModeGenerate {
			if a.Step() {
				active = true
			}
		} else if a.Animating() {
			active = true
		}
	}

	if mode == input.ModeGenerate && e.config.EnableMetrics {
		e.metrics.RecordTick()
	}
	return active
}

// tickDevice evaluates the Held specs of the first combination matched by
// the device's modifier mask, skipping devices with nothing down.
func (e *Engine) tickDevice(device input.Device, kind state.Kind, mode input.Mode) bool {
	if e.tracker.CountDown(kind) == 0 {
		return false
	}
	combo := key.FirstMatching(e.tracker.Modifiers(device))
	ctx := e.context(nil, device, mode)

	handled := false
	specs := e.registry.Actions(device, combo)
	for i := range specs {
		if specs[i].Trigger != input.TriggerHeld {
			continue
		}
		if e.evaluate(ctx, &specs[i]) == input.Handled {
			handled = true
		}
	}
	return handled
}

func (e *Engine) context(ev input.Event, device input.Device, mode input.Mode) *action.Context {
	return &action.Context{
		Event:       ev,
		Device:      device,
		Mode:        mode,
		State:       e.tracker,
		Anchor:      &e.anchor,
		Target:      e.target,
		Globe:       e.globe,
		Picker:      e.picker,
		Sensitivity: e.registry.Sensitivity(device),
		Settings:    e.config.Settings,
		Smoother:    e.smoother,
		Stop:        e.StopView,
		Logger:      e.logger,
	}
}

// evaluate runs one spec, recovering from handler panics when configured.
func (e *Engine) evaluate(ctx *action.Context, spec *action.Spec) (out input.Outcome) {
	if e.config.RecoverFromPanic {
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error("handler panic", "action", spec.Name, "panic", r)
				if e.config.EnableMetrics && ctx.Mode == input.ModeGenerate {
					e.metrics.RecordPanic(spec.Name)
				}
				out = input.Unhandled
			}
		}()
	}

	out = action.Evaluate(spec.Handler, ctx, spec, ctx.Mode)
	if out == input.Handled && ctx.Mode == input.ModeGenerate && e.config.EnableMetrics {
		e.metrics.RecordApply(spec.Name, e.now())
	}
	return out
}

func (e *Engine) recordEvent(out input.Outcome) {
	if e.config.EnableMetrics {
		e.metrics.RecordEvent(out)
	}
}

func (e *Engine) requestRedraw() {
	if e.onRedraw != nil {
		e.onRedraw()
	}
}
