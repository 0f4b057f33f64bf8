// Package action defines action specs, the calibration data attached to a
// control verb, and the Handler contract that turns held input into camera
// motion.
package action

import (
	"fmt"
	"math"
	"strings"

	"github.com/dshills/globenav/internal/input"
	"github.com/dshills/globenav/internal/input/key"
	"github.com/dshills/globenav/internal/input/mouse"
	"github.com/dshills/globenav/internal/transform"
)

// Axis is the component of a Magnitude a key contributes to.
type Axis uint8

const (
	// AxisX is the horizontal (side / heading) axis.
	AxisX Axis = iota
	// AxisY is the vertical (forward / pitch) axis.
	AxisY
	// AxisZ is the depth (zoom) axis.
	AxisZ
)

// String returns the axis name.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("axis(%d)", a)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Axis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Axis) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "x":
		*a = AxisX
	case "y":
		*a = AxisY
	case "z":
		*a = AxisZ
	default:
		return fmt.Errorf("%w: unknown axis %q", ErrInvalidBinding, text)
	}
	return nil
}

// KeyBinding binds a key to a signed unit contribution on one axis.
type KeyBinding struct {
	Code key.Code `json:"key" toml:"key" yaml:"key"`
	Axis Axis     `json:"axis" toml:"axis" yaml:"axis"`
	Sign int      `json:"sign" toml:"sign" yaml:"sign"`
}

// Calibration is the [Min, Max] range a scale function interpolates.
type Calibration struct {
	Min float64
	Max float64
}

// Uniform returns a calibration with equal bounds.
func Uniform(v float64) Calibration {
	return Calibration{Min: v, Max: v}
}

// Scaled returns the calibration multiplied by factor.
func (c Calibration) Scaled(factor float64) Calibration {
	return Calibration{Min: c.Min * factor, Max: c.Max * factor}
}

// Smoothing configures exponential smoothing of applied values.
type Smoothing struct {
	Enabled     bool
	Coefficient float64
}

// Smoothed returns an enabled smoothing with coefficient c.
func Smoothed(c float64) Smoothing {
	return Smoothing{Enabled: true, Coefficient: c}
}

// Spec is the calibration and binding data of one action.
type Spec struct {
	Name        string
	Calibration Calibration
	Smoothing   Smoothing
	Trigger     input.Trigger
	Scale       transform.ScaleFunc
	Keys        []KeyBinding
	Buttons     []mouse.Button
	Handler     Handler
}

// Clone returns a copy of s that shares no slices with it.
func (s Spec) Clone() Spec {
	out := s
	out.Keys = append([]KeyBinding(nil), s.Keys...)
	out.Buttons = append([]mouse.Button(nil), s.Buttons...)
	return out
}

// Validate checks the spec invariants.
func (s *Spec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: empty action name", ErrInvalidBinding)
	}
	if !positive(s.Calibration.Min) || !positive(s.Calibration.Max) {
		return fmt.Errorf("%w: %s has [%g, %g]", ErrInvalidCalibration, s.Name, s.Calibration.Min, s.Calibration.Max)
	}
	c := s.Smoothing.Coefficient
	if math.IsNaN(c) || c < 0 || c >= 1 {
		return fmt.Errorf("%w: %s has %g", ErrInvalidSmoothing, s.Name, c)
	}
	if s.Trigger > input.TriggerClick {
		return fmt.Errorf("%w: %s has unknown trigger %d", ErrInvalidBinding, s.Name, s.Trigger)
	}
	if s.Scale > transform.ScaleZoomExp {
		return fmt.Errorf("%w: %s has unknown scale function %d", ErrInvalidBinding, s.Name, s.Scale)
	}
	for _, kb := range s.Keys {
		if kb.Code.IsZero() {
			return fmt.Errorf("%w: %s binds an empty key", ErrInvalidBinding, s.Name)
		}
		if kb.Axis > AxisZ {
			return fmt.Errorf("%w: %s binds %s to axis %d", ErrInvalidBinding, s.Name, kb.Code, kb.Axis)
		}
		if kb.Sign != 1 && kb.Sign != -1 {
			return fmt.Errorf("%w: %s binds %s with sign %d", ErrInvalidBinding, s.Name, kb.Code, kb.Sign)
		}
	}
	for _, b := range s.Buttons {
		if b == mouse.ButtonNone || b > mouse.ButtonRight {
			return fmt.Errorf("%w: %s binds button %d", ErrInvalidBinding, s.Name, b)
		}
	}
	if s.Handler == nil {
		return fmt.Errorf("%w: %s has no handler", ErrInvalidBinding, s.Name)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Magnitude is a signed raw input per axis.
type Magnitude struct {
	X, Y, Z float64
}

// IsZero reports whether every component is zero.
func (m Magnitude) IsZero() bool {
	return m.X == 0 && m.Y == 0 && m.Z == 0
}

// Add returns the component-wise sum.
func (m Magnitude) Add(o Magnitude) Magnitude {
	return Magnitude{X: m.X + o.X, Y: m.Y + o.Y, Z: m.Z + o.Z}
}

// Axis returns the component for a.
func (m Magnitude) Axis(a Axis) float64 {
	switch a {
	case AxisX:
		return m.X
	case AxisY:
		return m.Y
	default:
		return m.Z
	}
}

func (m *Magnitude) add(a Axis, v float64) {
	switch a {
	case AxisX:
		m.X += v
	case AxisY:
		m.Y += v
	case AxisZ:
		m.Z += v
	}
}
