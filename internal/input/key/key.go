package key

import (
	"fmt"
	"strings"
)

// Key represents a named keyboard key.
// For character keys, use KeyRune and carry the character in Code.Rune.
type Key uint16

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	// Special keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	KeySpace

	// Keypad keys
	KeyKPAdd
	KeyKPSubtract
	KeyKPMultiply
	KeyKPDivide
	KeyKPEnter

	// KeyRune is used for character keys (letters, numbers, punctuation).
	KeyRune
)

var keyNames = [...]string{
	KeyNone:       "None",
	KeyEscape:     "Escape",
	KeyEnter:      "Enter",
	KeyTab:        "Tab",
	KeyBackspace:  "Backspace",
	KeyDelete:     "Delete",
	KeyInsert:     "Insert",
	KeyHome:       "Home",
	KeyEnd:        "End",
	KeyPageUp:     "PageUp",
	KeyPageDown:   "PageDown",
	KeyUp:         "Up",
	KeyDown:       "Down",
	KeyLeft:       "Left",
	KeyRight:      "Right",
	KeyF1:         "F1",
	KeyF2:         "F2",
	KeyF3:         "F3",
	KeyF4:         "F4",
	KeyF5:         "F5",
	KeyF6:         "F6",
	KeyF7:         "F7",
	KeyF8:         "F8",
	KeyF9:         "F9",
	KeyF10:        "F10",
	KeyF11:        "F11",
	KeyF12:        "F12",
	KeySpace:      "Space",
	KeyKPAdd:      "KP+",
	KeyKPSubtract: "KP-",
	KeyKPMultiply: "KP*",
	KeyKPDivide:   "KP/",
	KeyKPEnter:    "KPEnter",
	KeyRune:       "Rune",
}

// String returns a human-readable name for the key.
func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", k)
}

// IsArrowKey returns true if this is an arrow key.
func (k Key) IsArrowKey() bool {
	return k >= KeyUp && k <= KeyRight
}

// IsKeypadKey returns true if this is a keypad key.
func (k Key) IsKeypadKey() bool {
	return k >= KeyKPAdd && k <= KeyKPEnter
}

// keyNameMap maps key names (lowercase) to Key values.
var keyNameMap = map[string]Key{
	"escape":    KeyEscape,
	"esc":       KeyEscape,
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"tab":       KeyTab,
	"backspace": KeyBackspace,
	"delete":    KeyDelete,
	"del":       KeyDelete,
	"insert":    KeyInsert,
	"home":      KeyHome,
	"end":       KeyEnd,
	"pageup":    KeyPageUp,
	"pgup":      KeyPageUp,
	"pagedown":  KeyPageDown,
	"pgdn":      KeyPageDown,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
	"f1":        KeyF1,
	"f2":        KeyF2,
	"f3":        KeyF3,
	"f4":        KeyF4,
	"f5":        KeyF5,
	"f6":        KeyF6,
	"f7":        KeyF7,
	"f8":        KeyF8,
	"f9":        KeyF9,
	"f10":       KeyF10,
	"f11":       KeyF11,
	"f12":       KeyF12,
	"space":     KeySpace,
	"kp+":       KeyKPAdd,
	"add":       KeyKPAdd,
	"kp-":       KeyKPSubtract,
	"subtract":  KeyKPSubtract,
	"kp*":       KeyKPMultiply,
	"multiply":  KeyKPMultiply,
	"kp/":       KeyKPDivide,
	"divide":    KeyKPDivide,
	"kpenter":   KeyKPEnter,
}

// runeAliases maps names of punctuation keys to their characters.
var runeAliases = map[string]rune{
	"equals":     '=',
	"minus":      '-',
	"plus":       '+',
	"backslash":  '\\',
	"semicolon":  ';',
	"apostrophe": '\'',
}

// KeyFromName returns the Key for a given name (case-insensitive).
// Returns KeyNone if the name is not recognized.
func KeyFromName(name string) Key {
	name = strings.ToLower(strings.TrimSpace(name))
	if k, ok := keyNameMap[name]; ok {
		return k
	}
	return KeyNone
}
