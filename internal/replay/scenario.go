package replay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/globenav/internal/input"
	"github.com/dshills/globenav/internal/input/key"
	"github.com/dshills/globenav/internal/input/mouse"
)

// ErrInvalidScenario indicates a scenario that cannot be replayed.
var ErrInvalidScenario = errors.New("replay: invalid scenario")

// Scenario is a scripted input session.
//
//	name: pan east
//	view: {lat: 0, lon: 0, zoom: 19113000}
//	steps:
//	  - key: {code: Right, pressed: true}
//	  - at: 0ms
//	    poll: {count: 3}
//	  - at: 200ms
//	    key: {code: Right, pressed: false}
//	    expect:
//	      lon: {min: 0.1}
type Scenario struct {
	Name     string    `yaml:"name"`
	View     *View     `yaml:"view"`
	Viewport *Viewport `yaml:"viewport"`
	Steps    []Step    `yaml:"steps"`
}

// View is the initial camera. A zero zoom keeps the configured one.
type View struct {
	Lat     float64 `yaml:"lat"`
	Lon     float64 `yaml:"lon"`
	Heading float64 `yaml:"heading"`
	Pitch   float64 `yaml:"pitch"`
	Roll    float64 `yaml:"roll"`
	Zoom    float64 `yaml:"zoom"`
}

// Viewport is the simulated window size in pixels.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Rect returns the viewport as a rectangle at the origin.
func (v Viewport) Rect() mouse.Rect {
	return mouse.Rect{Width: v.Width, Height: v.Height}
}

// Step is one scenario entry. Exactly one of the event or frame fields is
// set. At is the offset from the start of the run; steps must not go back
// in time.
type Step struct {
	At time.Duration `yaml:"at"`

	Key     *KeyStep     `yaml:"key"`
	Pointer *PointerStep `yaml:"pointer"`
	Wheel   *WheelStep   `yaml:"wheel"`
	Focus   *FocusStep   `yaml:"focus"`
	Tick    string       `yaml:"tick"`
	Poll    *PollStep    `yaml:"poll"`

	Expect *Expect `yaml:"expect"`
}

// KeyStep is a key press or release.
type KeyStep struct {
	Code      key.Code     `yaml:"code"`
	Pressed   bool         `yaml:"pressed"`
	Modifiers key.Modifier `yaml:"modifiers"`
}

// PointerStep is a pointer button or motion event.
type PointerStep struct {
	Action    input.PointerAction `yaml:"action"`
	Button    mouse.Button        `yaml:"button"`
	X         int                 `yaml:"x"`
	Y         int                 `yaml:"y"`
	Modifiers key.Modifier        `yaml:"modifiers"`
}

// WheelStep is a wheel rotation.
type WheelStep struct {
	Amount    float64      `yaml:"amount"`
	X         int          `yaml:"x"`
	Y         int          `yaml:"y"`
	Modifiers key.Modifier `yaml:"modifiers"`
}

// FocusStep is a focus change.
type FocusStep struct {
	Focused bool `yaml:"focused"`
}

// PollStep runs the frame scheduler Count times, advancing the clock by
// Every before each poll. Every defaults to the frame interval.
type PollStep struct {
	Count int           `yaml:"count"`
	Every time.Duration `yaml:"every"`
}

// Expect holds the checks run after a step.
type Expect struct {
	Outcome string `yaml:"outcome"`
	Lat     *Range `yaml:"lat"`
	Lon     *Range `yaml:"lon"`
	Heading *Range `yaml:"heading"`
	Pitch   *Range `yaml:"pitch"`
	Roll    *Range `yaml:"roll"`
	Zoom    *Range `yaml:"zoom"`
}

// Range is an inclusive bound. A nil end is open.
type Range struct {
	Min *float64 `yaml:"min"`
	Max *float64 `yaml:"max"`
}

// Contains reports whether v lies within r.
func (r Range) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// String returns the range in interval notation.
func (r Range) String() string {
	lo, hi := "-inf", "+inf"
	if r.Min != nil {
		lo = fmt.Sprint(*r.Min)
	}
	if r.Max != nil {
		hi = fmt.Sprint(*r.Max)
	}
	return "[" + lo + ", " + hi + "]"
}

// Kind names the step's event or frame operation.
func (s Step) Kind() string {
	switch {
	case s.Key != nil:
		return "key"
	case s.Pointer != nil:
		return "pointer"
	case s.Wheel != nil:
		return "wheel"
	case s.Focus != nil:
		return "focus"
	case s.Tick != "":
		return "tick"
	case s.Poll != nil:
		return "poll"
	default:
		return ""
	}
}

func (s Step) count() int {
	n := 0
	for _, set := range []bool{s.Key != nil, s.Pointer != nil, s.Wheel != nil, s.Focus != nil, s.Tick != "", s.Poll != nil} {
		if set {
			n++
		}
	}
	return n
}

// Event converts the step to an input event stamped at. It returns nil for
// frame steps.
func (s Step) Event(at time.Time) input.Event {
	switch {
	case s.Key != nil:
		return input.KeyEvent{Code: s.Key.Code, Pressed: s.Key.Pressed, Modifiers: s.Key.Modifiers, At: at}
	case s.Pointer != nil:
		return input.PointerEvent{
			Action:    s.Pointer.Action,
			Button:    s.Pointer.Button,
			Point:     mouse.Point{X: s.Pointer.X, Y: s.Pointer.Y},
			Modifiers: s.Pointer.Modifiers,
			At:        at,
		}
	case s.Wheel != nil:
		return input.WheelEvent{
			Amount:    s.Wheel.Amount,
			Point:     mouse.Point{X: s.Wheel.X, Y: s.Wheel.Y},
			Modifiers: s.Wheel.Modifiers,
			At:        at,
		}
	case s.Focus != nil:
		return input.FocusEvent{Focused: s.Focus.Focused, At: at}
	default:
		return nil
	}
}

// Validate checks that the scenario can be replayed.
func (sc *Scenario) Validate() error {
	if len(sc.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidScenario)
	}
	if sc.Viewport != nil && (sc.Viewport.Width <= 0 || sc.Viewport.Height <= 0) {
		return fmt.Errorf("%w: viewport %dx%d", ErrInvalidScenario, sc.Viewport.Width, sc.Viewport.Height)
	}

	var last time.Duration
	for i, s := range sc.Steps {
		if n := s.count(); n != 1 {
			return fmt.Errorf("%w: step %d sets %d operations, want 1", ErrInvalidScenario, i, n)
		}
		if s.At < last {
			return fmt.Errorf("%w: step %d at %v is before %v", ErrInvalidScenario, i, s.At, last)
		}
		last = s.At

		if s.Tick != "" {
			if _, err := parseMode(s.Tick); err != nil {
				return fmt.Errorf("%w: step %d: %v", ErrInvalidScenario, i, err)
			}
		}
		if s.Poll != nil && (s.Poll.Count <= 0 || s.Poll.Every < 0) {
			return fmt.Errorf("%w: step %d: poll count %d every %v", ErrInvalidScenario, i, s.Poll.Count, s.Poll.Every)
		}
		if s.Key != nil && s.Key.Code.IsZero() {
			return fmt.Errorf("%w: step %d: key without code", ErrInvalidScenario, i)
		}
		if s.Expect != nil && s.Expect.Outcome != "" {
			if _, err := parseOutcome(s.Expect.Outcome); err != nil {
				return fmt.Errorf("%w: step %d: %v", ErrInvalidScenario, i, err)
			}
		}
	}
	return nil
}

// Decode reads a YAML scenario from r. Unknown fields are rejected.
func Decode(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidScenario)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Load reads a scenario file. A scenario without a name is named after
// the file.
func Load(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = path
	}
	return sc, nil
}

func parseMode(s string) (input.Mode, error) {
	switch s {
	case "generate":
		return input.ModeGenerate, nil
	case "query":
		return input.ModeQuery, nil
	default:
		return 0, fmt.Errorf("unknown tick mode %q", s)
	}
}

func parseOutcome(s string) (input.Outcome, error) {
	for _, o := range []input.Outcome{input.Unhandled, input.Handled, input.Consumed} {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown outcome %q", s)
}
