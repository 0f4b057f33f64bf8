package input

import (
	"fmt"
	"strings"
	"time"

	"github.com/dshills/globenav/internal/input/key"
	"github.com/dshills/globenav/internal/input/mouse"
)

// Event is a raw input event. The set of implementations is closed:
// KeyEvent, PointerEvent, WheelEvent and FocusEvent.
type Event interface {
	// Device returns the originating device class.
	Device() Device
	// Time returns when the event occurred.
	Time() time.Time

	isEvent()
}

// KeyEvent is a key press or release.
type KeyEvent struct {
	Code      key.Code
	Pressed   bool
	Modifiers key.Modifier
	At        time.Time
}

// Device implements Event.
func (KeyEvent) Device() Device { return DeviceKeyboard }

// Time implements Event.
func (e KeyEvent) Time() time.Time { return e.At }

func (KeyEvent) isEvent() {}

// String returns a debug representation.
func (e KeyEvent) String() string {
	verb := "release"
	if e.Pressed {
		verb = "press"
	}
	if e.Modifiers.IsEmpty() {
		return fmt.Sprintf("key %s %s", verb, e.Code)
	}
	return fmt.Sprintf("key %s %s+%s", verb, e.Modifiers, e.Code)
}

// PointerAction is the kind of pointer event.
type PointerAction uint8

const (
	// PointerPress is a button press.
	PointerPress PointerAction = iota
	// PointerRelease is a button release.
	PointerRelease
	// PointerMove is motion with no button held.
	PointerMove
	// PointerDrag is motion with a button held.
	PointerDrag
)

// String returns a string representation of the action.
func (a PointerAction) String() string {
	switch a {
	case PointerPress:
		return "press"
	case PointerRelease:
		return "release"
	case PointerMove:
		return "move"
	case PointerDrag:
		return "drag"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a PointerAction) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *PointerAction) UnmarshalText(text []byte) error {
	parsed, err := ParsePointerAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParsePointerAction parses "press", "release", "move" or "drag".
func ParsePointerAction(s string) (PointerAction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "press", "down":
		return PointerPress, nil
	case "release", "up":
		return PointerRelease, nil
	case "move":
		return PointerMove, nil
	case "drag":
		return PointerDrag, nil
	default:
		return 0, fmt.Errorf("unknown pointer action %q", s)
	}
}

// PointerEvent is a pointer button or motion event.
type PointerEvent struct {
	Action    PointerAction
	Button    mouse.Button
	Point     mouse.Point
	Modifiers key.Modifier
	At        time.Time
}

// Device implements Event.
func (PointerEvent) Device() Device { return DevicePointer }

// Time implements Event.
func (e PointerEvent) Time() time.Time { return e.At }

func (PointerEvent) isEvent() {}

// String returns a debug representation.
func (e PointerEvent) String() string {
	return fmt.Sprintf("pointer %s %s at %s", e.Action, e.Button, e.Point)
}

// WheelEvent is a wheel rotation. Positive amounts rotate toward the user.
type WheelEvent struct {
	Amount    float64
	Point     mouse.Point
	Modifiers key.Modifier
	At        time.Time
}

// Device implements Event.
func (WheelEvent) Device() Device { return DeviceWheel }

// Time implements Event.
func (e WheelEvent) Time() time.Time { return e.At }

func (WheelEvent) isEvent() {}

// String returns a debug representation.
func (e WheelEvent) String() string {
	return fmt.Sprintf("wheel %+g", e.Amount)
}

// FocusEvent reports the view gaining or losing input focus.
type FocusEvent struct {
	Focused bool
	At      time.Time
}

// Device implements Event. Focus is attributed to the keyboard.
func (FocusEvent) Device() Device { return DeviceKeyboard }

// Time implements Event.
func (e FocusEvent) Time() time.Time { return e.At }

func (FocusEvent) isEvent() {}

// String returns a debug representation.
func (e FocusEvent) String() string {
	if e.Focused {
		return "focus gained"
	}
	return "focus lost"
}
