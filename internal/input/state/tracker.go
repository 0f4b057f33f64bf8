// Package state tracks what is currently held down and the reference frame
// of an in-progress pointer gesture.
//
// Tracker and Anchor are owned by the dispatch loop and are not safe for
// concurrent use.
package state

import (
	"fmt"
	"time"

	"github.com/dshills/globenav/internal/input"
	"github.com/dshills/globenav/internal/input/key"
	"github.com/dshills/globenav/internal/input/mouse"
)

// Kind distinguishes keys from pointer buttons.
type Kind uint8

const (
	// KindKey is a keyboard key.
	KindKey Kind = iota
	// KindButton is a pointer button.
	KindButton
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	if k == KindButton {
		return "button"
	}
	return "key"
}

// Code identifies a trackable input: a key or a pointer button.
type Code struct {
	Kind   Kind
	Key    key.Code
	Button mouse.Button
}

// KeyCode returns the Code for a key.
func KeyCode(c key.Code) Code {
	return Code{Kind: KindKey, Key: c}
}

// ButtonCode returns the Code for a pointer button.
func ButtonCode(b mouse.Button) Code {
	return Code{Kind: KindButton, Button: b}
}

// String returns a debug representation.
func (c Code) String() string {
	if c.Kind == KindButton {
		return fmt.Sprintf("button:%s", c.Button)
	}
	return fmt.Sprintf("key:%s", c.Key)
}

// Entry records when a code was first pressed.
type Entry struct {
	PressedAt time.Time
}

// Tracker is the authoritative record of held keys, held buttons and the
// modifier masks of the keyboard and the pointer.
type Tracker struct {
	entries   map[Code]Entry
	counts    [2]int
	modifiers [len(input.Devices)]key.Modifier
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{entries: make(map[Code]Entry)}
}

// Press records code as held at time at. A repeated press of a code that is
// already held keeps the original timestamp.
func (t *Tracker) Press(code Code, at time.Time) {
	if _, ok := t.entries[code]; ok {
		return
	}
	t.entries[code] = Entry{PressedAt: at}
	t.counts[code.Kind]++
}

// Release removes code. Releasing a code that is not held is a no-op.
func (t *Tracker) Release(code Code) {
	if _, ok := t.entries[code]; !ok {
		return
	}
	delete(t.entries, code)
	t.counts[code.Kind]--
}

// IsDown reports whether code is held.
func (t *Tracker) IsDown(code Code) bool {
	_, ok := t.entries[code]
	return ok
}

// IsKeyDown reports whether the key is held.
func (t *Tracker) IsKeyDown(c key.Code) bool {
	return t.IsDown(KeyCode(c))
}

// IsButtonDown reports whether the pointer button is held.
func (t *Tracker) IsButtonDown(b mouse.Button) bool {
	return t.IsDown(ButtonCode(b))
}

// PressedAt returns when code was first pressed and whether it is held.
func (t *Tracker) PressedAt(code Code) (time.Time, bool) {
	e, ok := t.entries[code]
	return e.PressedAt, ok
}

// CountDown returns how many codes of the given kind are held.
func (t *Tracker) CountDown(kind Kind) int {
	return t.counts[kind]
}

// SetModifiers records the modifier mask last reported by device.
// The wheel shares the pointer's mask.
func (t *Tracker) SetModifiers(device input.Device, mask key.Modifier) {
	if device == input.DeviceWheel {
		device = input.DevicePointer
	}
	t.modifiers[device] = mask
}

// Modifiers returns the modifier mask last reported by device.
func (t *Tracker) Modifiers(device input.Device) key.Modifier {
	if device == input.DeviceWheel {
		device = input.DevicePointer
	}
	return t.modifiers[device]
}

// Held returns the held codes of the given kind in no particular order.
func (t *Tracker) Held(kind Kind) []Code {
	out := make([]Code, 0, t.counts[kind])
	for c := range t.entries {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Clear forgets everything, including modifier masks.
func (t *Tracker) Clear() {
	clear(t.entries)
	t.counts = [2]int{}
	t.modifiers = [len(input.Devices)]key.Modifier{}
}
