package keymap

import (
	"fmt"
	"runtime"

	"github.com/dshills/globenav/internal/input"
	"github.com/dshills/globenav/internal/input/action"
	"github.com/dshills/globenav/internal/input/key"
	"github.com/dshills/globenav/internal/input/mouse"
	"github.com/dshills/globenav/internal/transform"
)

// SlowFactor scales the calibration of the Alt variants.
const SlowFactor = 0.25

// Wheel calibrations. Trackpads on darwin report much finer wheel steps.
const (
	wheelCalibration       = 0.1
	wheelCalibrationDarwin = 0.01
)

// Option configures Default.
type Option func(*defaults)

type defaults struct {
	goos string
}

// WithPlatform selects platform specific defaults by GOOS name. The
// default is runtime.GOOS.
func WithPlatform(goos string) Option {
	return func(d *defaults) {
		d.goos = goos
	}
}

// entry is one row of the default table.
type entry struct {
	device   input.Device
	modifier key.Modifier
	spec     action.Spec
	verb     string
	slow     bool
}

// Default returns a new registry holding the built-in bindings, with the
// strategies resolved from verbs.
func Default(verbs action.Verbs, opts ...Option) (*Registry, error) {
	d := defaults{goos: runtime.GOOS}
	for _, opt := range opts {
		opt(&d)
	}

	r := NewRegistry()
	for _, dev := range input.Devices {
		if err := r.RegisterSensitivity(dev, DefaultSensitivity); err != nil {
			return nil, err
		}
	}

	for _, e := range defaultTable(d) {
		h, err := verbs.Lookup(e.verb)
		if err != nil {
			return nil, fmt.Errorf("default %s: %w", e.spec.Name, err)
		}
		spec := e.spec
		spec.Handler = h
		if e.slow {
			if spec, err = DeriveScaledVariant(spec, SlowFactor); err != nil {
				return nil, err
			}
		}
		if err := r.RegisterAction(e.device, e.modifier, spec); err != nil {
			return nil, fmt.Errorf("default %s: %w", spec.Name, err)
		}
	}
	return r, nil
}

func keys(bindings ...action.KeyBinding) []action.KeyBinding { return bindings }

func bind(c key.Code, axis action.Axis, sign int) action.KeyBinding {
	return action.KeyBinding{Code: c, Axis: axis, Sign: sign}
}

func named(k key.Key) key.Code { return key.Named(k) }

func defaultTable(d defaults) []entry {
	arrows := keys(
		bind(named(key.KeyLeft), action.AxisX, -1),
		bind(named(key.KeyRight), action.AxisX, +1),
		bind(named(key.KeyUp), action.AxisY, +1),
		bind(named(key.KeyDown), action.AxisY, -1),
	)
	horizontalKeys := action.Spec{
		Name:        "horizontalTranslateKeys",
		Calibration: action.Calibration{Min: 0.000005, Max: 4.0},
		Smoothing:   action.Smoothed(0.4),
		Trigger:     input.TriggerHeld,
		Scale:       transform.ScaleZoomExp,
		Keys:        arrows,
	}
	verticalKeys := action.Spec{
		Name:        "verticalTranslateKeys",
		Calibration: action.Uniform(0.06),
		Smoothing:   action.Smoothed(0.85),
		Trigger:     input.TriggerHeld,
		Scale:       transform.ScaleZoom,
		Keys: keys(
			bind(named(key.KeyKPAdd), action.AxisZ, -1),
			bind(key.Char('='), action.AxisZ, -1),
			bind(named(key.KeyKPSubtract), action.AxisZ, +1),
			bind(key.Char('-'), action.AxisZ, +1),
		),
	}
	verticalKeysCtrl := verticalKeys.Clone()
	verticalKeysCtrl.Name = "verticalTranslateKeysCtrl"
	verticalKeysCtrl.Keys = keys(
		bind(named(key.KeyUp), action.AxisZ, -1),
		bind(named(key.KeyDown), action.AxisZ, +1),
	)
	rotateKeys := action.Spec{
		Name:        "rotateKeys",
		Calibration: action.Calibration{Min: 2.0, Max: 2.2},
		Smoothing:   action.Smoothed(0.7),
		Trigger:     input.TriggerHeld,
		Scale:       transform.ScaleZoom,
		Keys: keys(
			bind(named(key.KeyPageUp), action.AxisY, -1),
			bind(named(key.KeyPageDown), action.AxisY, +1),
		),
	}
	rotateKeysShift := rotateKeys.Clone()
	rotateKeysShift.Name = "rotateKeysShift"
	rotateKeysShift.Keys = keys(
		bind(named(key.KeyLeft), action.AxisX, -1),
		bind(named(key.KeyRight), action.AxisX, +1),
		bind(named(key.KeyUp), action.AxisY, -1),
		bind(named(key.KeyDown), action.AxisY, +1),
	)
	rollKeys := rotateKeys.Clone()
	rollKeys.Name = "rollKeys"
	rollKeys.Keys = keys(
		bind(named(key.KeyLeft), action.AxisY, +1),
		bind(named(key.KeyRight), action.AxisY, -1),
	)
	press := func(name string, c key.Code, cal action.Calibration) action.Spec {
		return action.Spec{
			Name:        name,
			Calibration: cal,
			Trigger:     input.TriggerPress,
			Scale:       transform.ScaleNone,
			Keys:        keys(bind(c, action.AxisZ, +1)),
		}
	}
	resetHeading := press("resetHeading", key.Char('N'), action.Calibration{Min: 2.0, Max: 2.2})
	resetHPR := press("resetHeadingPitchRoll", key.Char('R'), action.Calibration{Min: 2.0, Max: 2.2})
	stopView := press("stopView", named(key.KeySpace), action.Uniform(0.1))

	left := []mouse.Button{mouse.ButtonLeft}
	moveTo := action.Spec{
		Name:        "moveTo",
		Calibration: action.Calibration{Min: 0.95, Max: 0.90},
		Smoothing:   action.Smoothed(0),
		Trigger:     input.TriggerClick,
		Scale:       transform.ScaleZoom,
		Buttons:     left,
	}
	resetRoll := action.Spec{
		Name:        "resetRoll",
		Calibration: action.Calibration{Min: 2.0, Max: 2.2},
		Trigger:     input.TriggerClick,
		Scale:       transform.ScaleNone,
		Buttons:     left,
	}
	rotate := action.Spec{
		Name:        "rotate",
		Calibration: action.Calibration{Min: 0.14, Max: 0.18},
		Smoothing:   action.Smoothed(0.7),
		Trigger:     input.TriggerDrag,
		Scale:       transform.ScaleZoom,
		Buttons:     []mouse.Button{mouse.ButtonRight},
	}
	rotateShift := rotate.Clone()
	rotateShift.Name = "rotateShift"
	rotateShift.Buttons = left
	horizontal := action.Spec{
		Name:        "horizontalTranslate",
		Calibration: action.Calibration{Min: 0.00001, Max: 0.2},
		Smoothing:   action.Smoothed(0.4),
		Trigger:     input.TriggerDrag,
		Scale:       transform.ScaleZoomExp,
		Buttons:     left,
	}
	vertical := action.Spec{
		Name:        "verticalTranslate",
		Calibration: action.Uniform(0.003),
		Smoothing:   action.Smoothed(0.85),
		Trigger:     input.TriggerDrag,
		Scale:       transform.ScaleZoom,
		Buttons:     []mouse.Button{mouse.ButtonMiddle},
	}
	verticalCtrl := vertical.Clone()
	verticalCtrl.Name = "verticalTranslateCtrl"
	verticalCtrl.Buttons = left

	wheelCal := wheelCalibration
	if d.goos == "darwin" {
		wheelCal = wheelCalibrationDarwin
	}
	wheel := action.Spec{
		Name:        "verticalTranslate",
		Calibration: action.Uniform(wheelCal),
		Smoothing:   action.Smoothed(0.85),
		Trigger:     input.TriggerDrag,
		Scale:       transform.ScaleZoom,
	}

	const (
		kb    = input.DeviceKeyboard
		ptr   = input.DevicePointer
		none  = key.ModNone
		alt   = key.ModAlt
		ctrl  = key.ModCtrl
		shift = key.ModShift
		meta  = key.ModMeta
	)
	return []entry{
		{kb, none, horizontalKeys, action.VerbHorizontalTranslate, false},
		{kb, alt, horizontalKeys, action.VerbHorizontalTranslate, true},
		{kb, none, verticalKeys, action.VerbVerticalTranslate, false},
		{kb, meta, verticalKeys, action.VerbVerticalTranslate, false},
		{kb, alt, verticalKeys, action.VerbVerticalTranslate, true},
		{kb, ctrl, verticalKeysCtrl, action.VerbVerticalTranslate, false},
		{kb, alt | ctrl, verticalKeysCtrl, action.VerbVerticalTranslate, true},
		{kb, none, rotateKeys, action.VerbRotate, false},
		{kb, alt, rotateKeys, action.VerbRotate, true},
		{kb, shift, rotateKeysShift, action.VerbRotate, false},
		{kb, alt | shift, rotateKeysShift, action.VerbRotate, true},
		{kb, ctrl, rollKeys, action.VerbRoll, false},
		{kb, none, resetHeading, action.VerbResetHeading, false},
		{kb, none, resetHPR, action.VerbResetHeadingPitchRoll, false},
		{kb, none, stopView, action.VerbStopView, false},

		{ptr, none, moveTo, action.VerbMoveTo, false},
		{ptr, alt, moveTo, action.VerbMoveTo, true},
		{ptr, none, resetRoll, action.VerbResetRoll, false},
		{ptr, none, rotate, action.VerbRotate, false},
		{ptr, shift, rotateShift, action.VerbRotate, false},
		{ptr, none, horizontal, action.VerbHorizontalTranslate, false},
		{ptr, none, vertical, action.VerbVerticalTranslate, false},
		{ptr, ctrl, verticalCtrl, action.VerbVerticalTranslate, false},
		{ptr, meta, verticalCtrl, action.VerbVerticalTranslate, false},

		{input.DeviceWheel, none, wheel, action.VerbVerticalTranslate, false},
	}
}
