package input

import (
	"fmt"
	"strings"
)

// Device identifies an input device class.
type Device uint8

const (
	// DeviceKeyboard is the keyboard.
	DeviceKeyboard Device = iota
	// DevicePointer is the pointer (mouse buttons and motion).
	DevicePointer
	// DeviceWheel is the pointer wheel.
	DeviceWheel
)

// Devices lists every device class.
var Devices = [...]Device{DeviceKeyboard, DevicePointer, DeviceWheel}

// String returns a string representation of the device.
func (d Device) String() string {
	switch d {
	case DeviceKeyboard:
		return "keyboard"
	case DevicePointer:
		return "pointer"
	case DeviceWheel:
		return "wheel"
	default:
		return fmt.Sprintf("device(%d)", d)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Device) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Device) UnmarshalText(text []byte) error {
	parsed, err := ParseDevice(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDevice parses a device name.
func ParseDevice(s string) (Device, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "keyboard", "key", "keys":
		return DeviceKeyboard, nil
	case "pointer", "mouse":
		return DevicePointer, nil
	case "wheel", "mousewheel", "scroll":
		return DeviceWheel, nil
	default:
		return 0, fmt.Errorf("unknown device %q", s)
	}
}

// Trigger is the event kind an action responds to.
type Trigger uint8

const (
	// TriggerPress fires once on a key or button press.
	TriggerPress Trigger = iota
	// TriggerDrag fires on continuous pointer drag or wheel rotation.
	TriggerDrag
	// TriggerHeld fires on every frame tick while bound inputs are held.
	TriggerHeld
	// TriggerRelease fires once on a key or button release.
	TriggerRelease
	// TriggerClick fires on a button release when the pointer did not
	// move since the press.
	TriggerClick
)

// String returns a string representation of the trigger.
func (t Trigger) String() string {
	switch t {
	case TriggerPress:
		return "press"
	case TriggerDrag:
		return "drag"
	case TriggerHeld:
		return "held"
	case TriggerRelease:
		return "release"
	case TriggerClick:
		return "click"
	default:
		return fmt.Sprintf("trigger(%d)", t)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Trigger) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Trigger) UnmarshalText(text []byte) error {
	parsed, err := ParseTrigger(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTrigger parses a trigger name.
func ParseTrigger(s string) (Trigger, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "press", "on_press":
		return TriggerPress, nil
	case "drag", "on_drag":
		return TriggerDrag, nil
	case "held", "hold", "on_key_down":
		return TriggerHeld, nil
	case "release", "on_release":
		return TriggerRelease, nil
	case "click", "on_click":
		return TriggerClick, nil
	default:
		return 0, fmt.Errorf("unknown trigger %q", s)
	}
}

// Mode selects whether an evaluation may mutate anything.
type Mode uint8

const (
	// ModeQuery computes what would happen without side effects.
	ModeQuery Mode = iota
	// ModeGenerate computes and applies.
	ModeGenerate
)

// String returns a string representation of the mode.
func (m Mode) String() string {
	if m == ModeGenerate {
		return "generate"
	}
	return "query"
}

// Outcome is the result of offering an event to a stage of dispatch.
type Outcome uint8

const (
	// Unhandled means nothing acted on the event.
	Unhandled Outcome = iota
	// Handled means an action acted (or, in query mode, would act).
	Handled
	// Consumed means an upstream listener claimed the event.
	Consumed
)

// String returns a string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case Unhandled:
		return "unhandled"
	case Handled:
		return "handled"
	case Consumed:
		return "consumed"
	default:
		return fmt.Sprintf("outcome(%d)", o)
	}
}
