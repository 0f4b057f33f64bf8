// Package mouse provides pointer buttons and screen coordinates.
package mouse

import (
	"fmt"
	"math"
	"strings"
)

// Button represents a pointer button.
type Button uint8

const (
	// ButtonNone indicates no button.
	ButtonNone Button = iota
	// ButtonLeft is the primary (left) button.
	ButtonLeft
	// ButtonMiddle is the middle button (wheel click).
	ButtonMiddle
	// ButtonRight is the secondary (right) button.
	ButtonRight
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (b Button) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Button) UnmarshalText(text []byte) error {
	parsed, err := ParseButton(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseButton parses a button name. Numeric aliases follow the usual
// button1..button3 convention.
func ParseButton(s string) (Button, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "button1", "primary":
		return ButtonLeft, nil
	case "middle", "button2":
		return ButtonMiddle, nil
	case "right", "button3", "secondary":
		return ButtonRight, nil
	default:
		return ButtonNone, fmt.Errorf("unknown mouse button %q", s)
	}
}

// Point represents a screen coordinate in pixels (or terminal cells).
type Point struct {
	X int
	Y int
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the Euclidean distance between two points.
func (p Point) Distance(q Point) float64 {
	d := p.Sub(q)
	return math.Hypot(float64(d.X), float64(d.Y))
}

// String returns "(x,y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Rect is a screen-space rectangle such as a viewport.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Center returns the rectangle's center point.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}
