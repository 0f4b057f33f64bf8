package key

import (
	"fmt"
	"strings"
)

// Modifier represents held modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModMeta indicates the Meta key (Cmd on macOS, Win on Windows).
	ModMeta
)

// Combinations is the dispatch priority order of modifier combinations.
// Compound combinations precede single ones; ModNone is always last.
var Combinations = [...]Modifier{
	ModAlt | ModShift,
	ModAlt | ModCtrl,
	ModAlt | ModMeta,
	ModShift,
	ModCtrl,
	ModMeta,
	ModAlt,
	ModNone,
}

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// MatchedBy reports whether the combination m applies to the held mask:
// every bit of m must be held. ModNone matches any mask.
func (m Modifier) MatchedBy(mask Modifier) bool {
	return mask&m == m
}

// Matching returns the combinations matched by mask, in priority order.
func Matching(mask Modifier) []Modifier {
	out := make([]Modifier, 0, len(Combinations))
	for _, combo := range Combinations {
		if combo.MatchedBy(mask) {
			out = append(out, combo)
		}
	}
	return out
}

// FirstMatching returns the highest-priority combination matched by mask.
// It is always defined because ModNone matches everything.
func FirstMatching(mask Modifier) Modifier {
	for _, combo := range Combinations {
		if combo.MatchedBy(mask) {
			return combo
		}
	}
	return ModNone
}

// String returns a human-readable representation like "Ctrl+Alt".
func (m Modifier) String() string {
	if m == ModNone {
		return "None"
	}

	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if m.Has(ModMeta) {
		parts = append(parts, "Meta")
	}
	return strings.Join(parts, "+")
}

// MarshalText implements encoding.TextMarshaler.
func (m Modifier) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Modifier) UnmarshalText(text []byte) error {
	parsed, err := ParseModifiers(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// modifierNameMap maps modifier names (lowercase) to Modifier values.
var modifierNameMap = map[string]Modifier{
	"none":    ModNone,
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"shift":   ModShift,
	"meta":    ModMeta,
	"cmd":     ModMeta,
	"command": ModMeta,
	"super":   ModMeta,
}

// ParseModifiers parses a modifier string like "Ctrl+Alt" or "shift".
// The empty string and "None" parse to ModNone.
func ParseModifiers(s string) (Modifier, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ModNone, nil
	}

	var result Modifier
	for _, part := range strings.Split(s, "+") {
		part = strings.TrimSpace(part)
		mod, ok := modifierNameMap[part]
		if !ok {
			return ModNone, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, part)
		}
		result = result.With(mod)
	}
	return result, nil
}
