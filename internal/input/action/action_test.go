package action

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/dshills/globenav/internal/geo"
	"github.com/dshills/globenav/internal/input"
	"github.com/dshills/globenav/internal/input/key"
	"github.com/dshills/globenav/internal/input/mouse"
	"github.com/dshills/globenav/internal/input/state"
	"github.com/dshills/globenav/internal/transform"
	"github.com/dshills/globenav/internal/view"
)

var noop = Funcs{}

func validSpec() Spec {
	return Spec{
		Name:        "pan",
		Calibration: Calibration{Min: 0.5, Max: 4},
		Smoothing:   Smoothed(0.4),
		Trigger:     input.TriggerHeld,
		Scale:       transform.ScaleZoomExp,
		Keys: []KeyBinding{
			{Code: key.Named(key.KeyLeft), Axis: AxisX, Sign: -1},
			{Code: key.Named(key.KeyRight), Axis: AxisX, Sign: +1},
		},
		Handler: noop,
	}
}

func TestSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Spec)
		wantErr error
	}{
		{"valid", func(*Spec) {}, nil},
		{"zero min", func(s *Spec) { s.Calibration.Min = 0 }, ErrInvalidCalibration},
		{"negative max", func(s *Spec) { s.Calibration.Max = -1 }, ErrInvalidCalibration},
		{"nan min", func(s *Spec) { s.Calibration.Min = math.NaN() }, ErrInvalidCalibration},
		{"coefficient one", func(s *Spec) { s.Smoothing.Coefficient = 1 }, ErrInvalidSmoothing},
		{"negative coefficient", func(s *Spec) { s.Smoothing.Coefficient = -0.1 }, ErrInvalidSmoothing},
		{"disabled but out of range", func(s *Spec) { s.Smoothing = Smoothing{Coefficient: 2} }, ErrInvalidSmoothing},
		{"zero coefficient", func(s *Spec) { s.Smoothing.Coefficient = 0 }, nil},
		{"empty name", func(s *Spec) { s.Name = " " }, ErrInvalidBinding},
		{"bad sign", func(s *Spec) { s.Keys[0].Sign = 2 }, ErrInvalidBinding},
		{"bad axis", func(s *Spec) { s.Keys[0].Axis = 7 }, ErrInvalidBinding},
		{"empty key", func(s *Spec) { s.Keys[0].Code = key.Code{} }, ErrInvalidBinding},
		{"bad button", func(s *Spec) { s.Buttons = []mouse.Button{mouse.ButtonNone} }, ErrInvalidBinding},
		{"nil handler", func(s *Spec) { s.Handler = nil }, ErrInvalidBinding},
		{"bad trigger", func(s *Spec) { s.Trigger = 9 }, ErrInvalidBinding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSpec()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSpecClone(t *testing.T) {
	s := validSpec()
	s.Buttons = []mouse.Button{mouse.ButtonLeft}
	c := s.Clone()
	c.Keys[0].Sign = +1
	c.Buttons[0] = mouse.ButtonRight

	if s.Keys[0].Sign != -1 {
		t.Error("Clone shares Keys with the original")
	}
	if s.Buttons[0] != mouse.ButtonLeft {
		t.Error("Clone shares Buttons with the original")
	}
}

func TestAxisText(t *testing.T) {
	var a Axis
	if err := a.UnmarshalText([]byte("Z")); err != nil || a != AxisZ {
		t.Errorf("UnmarshalText(Z) = %v,%v, want z,nil", a, err)
	}
	if err := a.UnmarshalText([]byte("w")); !errors.Is(err, ErrInvalidBinding) {
		t.Errorf("UnmarshalText(w) error = %v, want ErrInvalidBinding", err)
	}
}

func TestKeyInput(t *testing.T) {
	tr := state.NewTracker()
	ctx := &Context{State: tr}
	s := validSpec()
	s.Keys = append(s.Keys,
		KeyBinding{Code: key.Named(key.KeyUp), Axis: AxisY, Sign: +1},
		KeyBinding{Code: key.Char('='), Axis: AxisZ, Sign: -1},
	)

	if m := ctx.KeyInput(&s); !m.IsZero() {
		t.Errorf("KeyInput with nothing held = %v, want zero", m)
	}

	now := time.Now()
	tr.Press(state.KeyCode(key.Named(key.KeyRight)), now)
	tr.Press(state.KeyCode(key.Named(key.KeyUp)), now)
	tr.Press(state.KeyCode(key.Char('=')), now)
	if m := ctx.KeyInput(&s); m != (Magnitude{X: 1, Y: 1, Z: -1}) {
		t.Errorf("KeyInput = %v, want {1 1 -1}", m)
	}

	tr.Press(state.KeyCode(key.Named(key.KeyLeft)), now)
	if m := ctx.KeyInput(&s); m.X != 0 {
		t.Errorf("KeyInput.X with opposing keys = %v, want 0", m.X)
	}
}

type fakeTarget struct {
	view.Target
	eye  geo.Position
	zoom float64
}

func (f *fakeTarget) EyePosition() geo.Position { return f.eye }
func (f *fakeTarget) Zoom() (float64, bool)     { return f.zoom, f.zoom > 0 }

func TestEvaluateModes(t *testing.T) {
	computes, applies := 0, 0
	h := Funcs{
		ComputeFunc: func(*Context, *Spec) (Magnitude, bool) {
			computes++
			return Magnitude{X: 1}, true
		},
		ApplyFunc: func(*Context, *Spec, Magnitude) { applies++ },
	}
	s := validSpec()
	ctx := &Context{Target: &fakeTarget{}}

	if got := Evaluate(h, ctx, &s, input.ModeQuery); got != input.Handled {
		t.Errorf("Evaluate(query) = %v, want handled", got)
	}
	if applies != 0 {
		t.Errorf("applies after query = %d, want 0", applies)
	}
	if got := Evaluate(h, ctx, &s, input.ModeGenerate); got != input.Handled {
		t.Errorf("Evaluate(generate) = %v, want handled", got)
	}
	if computes != 2 || applies != 1 {
		t.Errorf("computes/applies = %d/%d, want 2/1", computes, applies)
	}

	if got := Evaluate(h, &Context{}, &s, input.ModeGenerate); got != input.Unhandled {
		t.Errorf("Evaluate with detached target = %v, want unhandled", got)
	}
	if got := Evaluate(noop, ctx, &s, input.ModeGenerate); got != input.Unhandled {
		t.Errorf("Evaluate(noop) = %v, want unhandled", got)
	}
}

func TestContextScaled(t *testing.T) {
	g := view.NewSphere(1000)
	s := validSpec()
	s.Scale = transform.ScaleEyeAltitude
	ctx := &Context{
		Target:      &fakeTarget{eye: geo.Position{Elev: 3000}},
		Globe:       g,
		Sensitivity: 2,
	}
	if got := ctx.Scaled(&s); got != 8 {
		t.Errorf("Scaled = %v, want 8", got)
	}
	if got := ctx.Change(&s, -0.5); got != -4 {
		t.Errorf("Change = %v, want -4", got)
	}
}

func TestContextSmooth(t *testing.T) {
	s := validSpec()
	s.Smoothing = Smoothed(0.7)
	ctx := &Context{Mode: input.ModeGenerate, Settings: DefaultSettings(), Smoother: transform.NewSmoother()}

	ctx.Smoother.Next("pan.x", 0, 2.0)
	if got := ctx.Smooth(&s, "x", 5.0); math.Abs(got-2.9) > 1e-12 {
		t.Errorf("Smooth = %v, want 2.9", got)
	}

	ctx.Settings.Smoothing = false
	if got := ctx.Smooth(&s, "x", 5.0); got != 5.0 {
		t.Errorf("Smooth with global toggle off = %v, want 5", got)
	}
}

func TestContextSmoothQueryIsPure(t *testing.T) {
	s := validSpec()
	s.Smoothing = Smoothed(0.5)
	ctx := &Context{Mode: input.ModeQuery, Settings: DefaultSettings(), Smoother: transform.NewSmoother()}
	ctx.Smoother.Next("pan.x", 0, 2.0)

	for i := 0; i < 3; i++ {
		if got := ctx.Smooth(&s, "x", 4.0); got != 3 {
			t.Errorf("Smooth in query mode = %v, want 3", got)
		}
	}
	if got := ctx.Smoother.Value("pan.x"); got != 2 {
		t.Errorf("smoother value after query = %v, want 2", got)
	}

	ctx.Mode = input.ModeGenerate
	if got := ctx.Smooth(&s, "x", 4.0); got != 3 {
		t.Errorf("Smooth in generate mode = %v, want 3", got)
	}
	if got := ctx.Smoother.Value("pan.x"); got != 3 {
		t.Errorf("smoother value after generate = %v, want 3", got)
	}
}
