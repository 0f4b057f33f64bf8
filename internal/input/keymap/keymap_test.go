package keymap

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/globenav/internal/input"
	"github.com/dshills/globenav/internal/input/action"
	"github.com/dshills/globenav/internal/input/key"
	"github.com/dshills/globenav/internal/input/mouse"
	"github.com/dshills/globenav/internal/transform"
)

type stubHandler struct{ name string }

func (stubHandler) Compute(*action.Context, *action.Spec) (action.Magnitude, bool) {
	return action.Magnitude{}, false
}
func (stubHandler) Apply(*action.Context, *action.Spec, action.Magnitude) {}

func stubVerbs() action.Verbs {
	v := action.Verbs{}
	for _, n := range []string{
		action.VerbMoveTo, action.VerbHorizontalTranslate, action.VerbVerticalTranslate,
		action.VerbRotate, action.VerbRoll, action.VerbResetHeading,
		action.VerbResetHeadingPitchRoll, action.VerbResetRoll, action.VerbStopView,
	} {
		v[n] = stubHandler{n}
	}
	return v
}

func testSpec(name string) action.Spec {
	return action.Spec{
		Name:        name,
		Calibration: action.Calibration{Min: 1, Max: 2},
		Trigger:     input.TriggerHeld,
		Keys:        []action.KeyBinding{{Code: key.Named(key.KeyUp), Axis: action.AxisY, Sign: 1}},
		Handler:     stubHandler{"test"},
	}
}

func TestSensitivity(t *testing.T) {
	r := NewRegistry()
	if got := r.Sensitivity(input.DevicePointer); got != 1 {
		t.Errorf("Sensitivity() default = %v, want 1", got)
	}

	tests := []struct {
		s       float64
		wantErr bool
	}{
		{2.5, false},
		{0, true},
		{-1, true},
		{math.NaN(), true},
		{math.Inf(1), true},
	}
	for _, tt := range tests {
		err := r.RegisterSensitivity(input.DevicePointer, tt.s)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidSensitivity) {
				t.Errorf("RegisterSensitivity(%v) = %v, want ErrInvalidSensitivity", tt.s, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("RegisterSensitivity(%v) = %v", tt.s, err)
		}
	}
	if got := r.Sensitivity(input.DevicePointer); got != 2.5 {
		t.Errorf("Sensitivity() = %v, want 2.5 after rejected updates", got)
	}
}

func TestRegisterActionOrderAndReplace(t *testing.T) {
	r := NewRegistry()
	for _, n := range []string{"a", "b", "c"} {
		if err := r.RegisterAction(input.DeviceKeyboard, key.ModNone, testSpec(n)); err != nil {
			t.Fatalf("RegisterAction(%s) error = %v", n, err)
		}
	}
	replaced := testSpec("b")
	replaced.Calibration = action.Uniform(9)
	if err := r.RegisterAction(input.DeviceKeyboard, key.ModNone, replaced); err != nil {
		t.Fatalf("RegisterAction(b again) error = %v", err)
	}

	list := r.Actions(input.DeviceKeyboard, key.ModNone)
	var names []string
	for _, s := range list {
		names = append(names, s.Name)
	}
	if got := strings.Join(names, ","); got != "a,b,c" {
		t.Errorf("Actions order = %s, want a,b,c", got)
	}
	if list[1].Calibration.Min != 9 {
		t.Errorf("replaced spec calibration = %v, want 9", list[1].Calibration.Min)
	}
}

func TestRegisterActionValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*action.Spec)
		want   error
	}{
		{"zero min", func(s *action.Spec) { s.Calibration.Min = 0 }, ErrInvalidCalibration},
		{"smoothing 1", func(s *action.Spec) { s.Smoothing = action.Smoothed(1) }, ErrInvalidSmoothing},
		{"nil handler", func(s *action.Spec) { s.Handler = nil }, ErrInvalidBinding},
		{"bad sign", func(s *action.Spec) { s.Keys[0].Sign = 0 }, ErrInvalidBinding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			s := testSpec("x")
			tt.mutate(&s)
			if err := r.RegisterAction(input.DeviceKeyboard, key.ModNone, s); !errors.Is(err, tt.want) {
				t.Errorf("RegisterAction() = %v, want %v", err, tt.want)
			}
			if r.Len() != 0 {
				t.Errorf("Len() = %d after rejected registration, want 0", r.Len())
			}
		})
	}
}

func TestRegisteredSpecIsIsolated(t *testing.T) {
	r := NewRegistry()
	s := testSpec("x")
	if err := r.RegisterAction(input.DeviceKeyboard, key.ModNone, s); err != nil {
		t.Fatal(err)
	}
	s.Keys[0].Sign = -1
	got := r.Actions(input.DeviceKeyboard, key.ModNone)
	got[0].Keys[0].Axis = action.AxisZ

	again, _ := r.Lookup(input.DeviceKeyboard, "x")
	if again.Keys[0].Sign != 1 || again.Keys[0].Axis != action.AxisY {
		t.Errorf("registered binding = %+v, want untouched", again.Keys[0])
	}
}

func TestDeriveScaledVariant(t *testing.T) {
	s := testSpec("pan")
	s.Smoothing = action.Smoothed(0.4)
	slow, err := DeriveScaledVariant(s, 0.25)
	if err != nil {
		t.Fatalf("DeriveScaledVariant() error = %v", err)
	}
	if slow.Calibration != (action.Calibration{Min: 0.25, Max: 0.5}) {
		t.Errorf("Calibration = %v, want {0.25 0.5}", slow.Calibration)
	}
	if slow.Name != "pan" || slow.Smoothing != s.Smoothing || slow.Trigger != s.Trigger {
		t.Errorf("variant = %+v, want same name, smoothing and trigger", slow)
	}
	if _, err := DeriveScaledVariant(s, 0); !errors.Is(err, ErrInvalidCalibration) {
		t.Errorf("DeriveScaledVariant(0) error = %v, want ErrInvalidCalibration", err)
	}
}

func TestOverrideHandler(t *testing.T) {
	r := NewRegistry()
	s := testSpec("pan")
	slow, _ := DeriveScaledVariant(s, 0.25)
	_ = r.RegisterAction(input.DeviceKeyboard, key.ModNone, s)
	_ = r.RegisterAction(input.DeviceKeyboard, key.ModAlt, slow)

	h := stubHandler{"override"}
	if err := r.OverrideHandler(input.DeviceKeyboard, "pan", h); err != nil {
		t.Fatalf("OverrideHandler() error = %v", err)
	}
	for _, m := range []key.Modifier{key.ModNone, key.ModAlt} {
		if got := r.Actions(input.DeviceKeyboard, m)[0].Handler; got != h {
			t.Errorf("handler under %s = %v, want override", m, got)
		}
	}
	if err := r.OverrideHandler(input.DeviceKeyboard, "missing", h); !errors.Is(err, ErrActionNotRegistered) {
		t.Errorf("OverrideHandler(missing) = %v, want ErrActionNotRegistered", err)
	}
	if err := r.OverrideHandler(input.DevicePointer, "pan", h); !errors.Is(err, ErrActionNotRegistered) {
		t.Errorf("OverrideHandler(other device) = %v, want ErrActionNotRegistered", err)
	}
}

func TestUpdateIsAtomic(t *testing.T) {
	r := NewRegistry()
	_ = r.RegisterAction(input.DeviceKeyboard, key.ModNone, testSpec("pan"))
	slow, _ := DeriveScaledVariant(testSpec("pan"), 0.25)
	_ = r.RegisterAction(input.DeviceKeyboard, key.ModAlt, slow)

	// Subtracting 0.5 leaves the slow variant at -0.25.
	err := r.Update(input.DeviceKeyboard, "pan", func(s *action.Spec) { s.Calibration.Min -= 0.5 })
	if !errors.Is(err, ErrInvalidCalibration) {
		t.Fatalf("Update() = %v, want ErrInvalidCalibration", err)
	}
	if got := r.Actions(input.DeviceKeyboard, key.ModNone)[0].Calibration.Min; got != 1 {
		t.Errorf("Min after rejected update = %v, want 1", got)
	}

	if err := r.Update(input.DeviceKeyboard, "pan", func(s *action.Spec) { s.Trigger = input.TriggerDrag }); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	if got := r.Actions(input.DeviceKeyboard, key.ModAlt)[0].Trigger; got != input.TriggerDrag {
		t.Errorf("Trigger after update = %v, want drag", got)
	}
}

func TestNamesAndCombos(t *testing.T) {
	r, err := Default(stubVerbs(), WithPlatform("linux"))
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	names := r.Names(input.DeviceKeyboard)
	want := []string{
		"horizontalTranslateKeys", "resetHeading", "resetHeadingPitchRoll", "rollKeys",
		"rotateKeys", "rotateKeysShift", "stopView", "verticalTranslateKeys", "verticalTranslateKeysCtrl",
	}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("Names(keyboard) = %v, want %v", names, want)
	}

	combos := r.Combos(input.DeviceKeyboard, "verticalTranslateKeys")
	if len(combos) != 3 || combos[0] != key.ModMeta || combos[1] != key.ModAlt || combos[2] != key.ModNone {
		t.Errorf("Combos(verticalTranslateKeys) = %v, want [Meta Alt None]", combos)
	}
}

func TestDefaultTable(t *testing.T) {
	r, err := Default(stubVerbs(), WithPlatform("linux"))
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	tests := []struct {
		device  input.Device
		mod     key.Modifier
		name    string
		min     float64
		max     float64
		trigger input.Trigger
		scale   transform.ScaleFunc
		verb    string
	}{
		{input.DeviceKeyboard, key.ModNone, "horizontalTranslateKeys", 0.000005, 4.0, input.TriggerHeld, transform.ScaleZoomExp, action.VerbHorizontalTranslate},
		{input.DeviceKeyboard, key.ModAlt, "horizontalTranslateKeys", 0.000005 * SlowFactor, 4.0 * SlowFactor, input.TriggerHeld, transform.ScaleZoomExp, action.VerbHorizontalTranslate},
		{input.DeviceKeyboard, key.ModCtrl, "verticalTranslateKeysCtrl", 0.06, 0.06, input.TriggerHeld, transform.ScaleZoom, action.VerbVerticalTranslate},
		{input.DeviceKeyboard, key.ModAlt | key.ModShift, "rotateKeysShift", 0.5, 0.55, input.TriggerHeld, transform.ScaleZoom, action.VerbRotate},
		{input.DeviceKeyboard, key.ModNone, "stopView", 0.1, 0.1, input.TriggerPress, transform.ScaleNone, action.VerbStopView},
		{input.DevicePointer, key.ModNone, "moveTo", 0.95, 0.90, input.TriggerClick, transform.ScaleZoom, action.VerbMoveTo},
		{input.DevicePointer, key.ModNone, "rotate", 0.14, 0.18, input.TriggerDrag, transform.ScaleZoom, action.VerbRotate},
		{input.DevicePointer, key.ModMeta, "verticalTranslateCtrl", 0.003, 0.003, input.TriggerDrag, transform.ScaleZoom, action.VerbVerticalTranslate},
		{input.DeviceWheel, key.ModNone, "verticalTranslate", 0.1, 0.1, input.TriggerDrag, transform.ScaleZoom, action.VerbVerticalTranslate},
	}

	for _, tt := range tests {
		t.Run(tt.device.String()+"/"+tt.mod.String()+"/"+tt.name, func(t *testing.T) {
			var spec *action.Spec
			list := r.Actions(tt.device, tt.mod)
			for i := range list {
				if list[i].Name == tt.name {
					spec = &list[i]
				}
			}
			if spec == nil {
				t.Fatalf("%s not registered under %s", tt.name, tt.mod)
			}
			if math.Abs(spec.Calibration.Min-tt.min) > 1e-12 || math.Abs(spec.Calibration.Max-tt.max) > 1e-12 {
				t.Errorf("Calibration = %v, want [%v, %v]", spec.Calibration, tt.min, tt.max)
			}
			if spec.Trigger != tt.trigger {
				t.Errorf("Trigger = %v, want %v", spec.Trigger, tt.trigger)
			}
			if spec.Scale != tt.scale {
				t.Errorf("Scale = %v, want %v", spec.Scale, tt.scale)
			}
			if h, ok := spec.Handler.(stubHandler); !ok || h.name != tt.verb {
				t.Errorf("Handler = %v, want %s", spec.Handler, tt.verb)
			}
		})
	}
}

func TestDefaultPlatformWheel(t *testing.T) {
	r, err := Default(stubVerbs(), WithPlatform("darwin"))
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	s, ok := r.Lookup(input.DeviceWheel, "verticalTranslate")
	if !ok || s.Calibration != action.Uniform(0.01) {
		t.Errorf("wheel calibration on darwin = %v, want 0.01", s.Calibration)
	}
}

func TestDefaultIsFresh(t *testing.T) {
	a, _ := Default(stubVerbs())
	b, _ := Default(stubVerbs())
	if err := a.Update(input.DeviceKeyboard, "stopView", func(s *action.Spec) { s.Calibration = action.Uniform(7) }); err != nil {
		t.Fatal(err)
	}
	s, _ := b.Lookup(input.DeviceKeyboard, "stopView")
	if s.Calibration.Min != 0.1 {
		t.Errorf("second registry calibration = %v, want 0.1", s.Calibration.Min)
	}
}

func TestDefaultMissingVerb(t *testing.T) {
	v := stubVerbs()
	delete(v, action.VerbRoll)
	if _, err := Default(v); !errors.Is(err, action.ErrUnknownVerb) {
		t.Errorf("Default() error = %v, want ErrUnknownVerb", err)
	}
}

func TestDecodeOverrides(t *testing.T) {
	docs := map[string]string{
		"toml": `
[[action]]
device = "keyboard"
name = "horizontalTranslateKeys"
modifier = "None"
min = 0.00001
max = 8.0
smoothing = 0.5

[[action]]
device = "pointer"
name = "panRight"
verb = "horizontalTranslate"
trigger = "on_drag"
scale = "zoom-exp"
min = 0.00001
max = 0.2
buttons = ["right"]
`,
		"yaml": `
action:
  - device: keyboard
    name: horizontalTranslateKeys
    modifier: None
    min: 0.00001
    max: 8.0
    smoothing: 0.5
  - device: pointer
    name: panRight
    verb: horizontalTranslate
    trigger: on_drag
    scale: zoom-exp
    min: 0.00001
    max: 0.2
    buttons: [right]
`,
		"json": `{"action": [
  {"device": "keyboard", "name": "horizontalTranslateKeys", "modifier": "None", "min": 0.00001, "max": 8.0, "smoothing": 0.5},
  {"device": "pointer", "name": "panRight", "verb": "horizontalTranslate", "trigger": "on_drag",
   "scale": "zoom-exp", "min": 0.00001, "max": 0.2, "buttons": ["right"]}
]}`,
	}

	for ext, doc := range docs {
		t.Run(ext, func(t *testing.T) {
			ov, err := DecodeOverrides(strings.NewReader(doc), "."+ext)
			if err != nil {
				t.Fatalf("DecodeOverrides() error = %v", err)
			}
			if len(ov) != 2 {
				t.Fatalf("len = %d, want 2", len(ov))
			}
			if ov[0].Modifier == nil || *ov[0].Modifier != key.ModNone {
				t.Errorf("Modifier = %v, want None", ov[0].Modifier)
			}
			if ov[1].Device != input.DevicePointer || ov[1].Trigger == nil || *ov[1].Trigger != input.TriggerDrag {
				t.Errorf("second override = %+v, want pointer drag", ov[1])
			}
			if len(ov[1].Buttons) != 1 || ov[1].Buttons[0] != mouse.ButtonRight {
				t.Errorf("Buttons = %v, want [right]", ov[1].Buttons)
			}

			r, _ := Default(stubVerbs(), WithPlatform("linux"))
			if err := ApplyOverrides(r, ov, stubVerbs().Lookup); err != nil {
				t.Fatalf("ApplyOverrides() error = %v", err)
			}
			plain := r.Actions(input.DeviceKeyboard, key.ModNone)[0]
			if plain.Calibration.Max != 8 || plain.Smoothing.Coefficient != 0.5 {
				t.Errorf("updated spec = %+v, want max 8 smoothing 0.5", plain)
			}
			slow := r.Actions(input.DeviceKeyboard, key.ModAlt)[0]
			if slow.Calibration.Max != 1 {
				t.Errorf("slow variant max = %v, want 1 (untouched)", slow.Calibration.Max)
			}
			if _, ok := r.Lookup(input.DevicePointer, "panRight"); !ok {
				t.Error("new override action not registered")
			}
		})
	}
}

func TestDecodeOverridesUnknownFormat(t *testing.T) {
	if _, err := DecodeOverrides(strings.NewReader(""), ".ini"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("DecodeOverrides(.ini) error = %v, want ErrUnknownFormat", err)
	}
}

func TestLoadOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bindings.yaml")
	doc := "action:\n  - name: stopView\n    min: 0.2\n    max: 0.2\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	ov, err := LoadOverrides(path)
	if err != nil {
		t.Fatalf("LoadOverrides() error = %v", err)
	}
	if len(ov) != 1 || ov[0].Device != input.DeviceKeyboard || *ov[0].Min != 0.2 {
		t.Errorf("overrides = %+v, want one keyboard stopView", ov)
	}
}

func TestApplyOverridesErrors(t *testing.T) {
	tests := []struct {
		name string
		ov   Override
		want error
	}{
		{"unknown without verb", Override{Name: "nope"}, ErrActionNotRegistered},
		{"bad calibration", Override{Name: "stopView", Min: new(float64)}, ErrInvalidCalibration},
		{"unknown verb", Override{Name: "x", Verb: "fly"}, action.ErrUnknownVerb},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := Default(stubVerbs())
			err := ApplyOverrides(r, []Override{tt.ov}, stubVerbs().Lookup)
			if !errors.Is(err, tt.want) {
				t.Errorf("ApplyOverrides() = %v, want %v", err, tt.want)
			}
		})
	}
}
