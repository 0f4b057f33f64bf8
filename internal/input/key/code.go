package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Code identifies a physical key independent of modifiers.
// Codes are comparable and used as map keys by the state tracker.
type Code struct {
	Key  Key
	Rune rune
}

// Named returns the Code for a named key.
func Named(k Key) Code {
	return Code{Key: k}
}

// Char returns the Code for a character key. Letters are folded to upper case.
func Char(r rune) Code {
	return Code{Key: KeyRune, Rune: unicode.ToUpper(r)}
}

// IsZero reports whether c identifies no key.
func (c Code) IsZero() bool {
	return c.Key == KeyNone
}

// String returns the key name or the character.
func (c Code) String() string {
	if c.Key == KeyRune {
		return string(c.Rune)
	}
	return c.Key.String()
}

// MarshalText implements encoding.TextMarshaler.
func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Code) UnmarshalText(text []byte) error {
	parsed, err := ParseCode(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCode parses a key name ("Left", "PageUp", "KP+") or a single
// character ("n", "=").
func ParseCode(spec string) (Code, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Code{}, ErrEmptySpec
	}

	if utf8.RuneCountInString(spec) == 1 {
		r, _ := utf8.DecodeRuneInString(spec)
		if r == ' ' {
			return Named(KeySpace), nil
		}
		return Char(r), nil
	}

	lower := strings.ToLower(spec)
	if r, ok := runeAliases[lower]; ok {
		return Char(r), nil
	}
	if k := KeyFromName(lower); k != KeyNone {
		return Named(k), nil
	}
	return Code{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, spec)
}
