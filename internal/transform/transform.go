// Package transform converts raw input magnitudes into camera-space changes.
//
// Three stages are applied, all pure:
//
//   - a scale function that biases sensitivity by camera distance, linearly
//     or exponentially interpolating between a calibration minimum and
//     maximum;
//   - drag-slope damping that attenuates pointer drags near the visual
//     horizon, where a pixel covers a large stretch of ground;
//   - exponential smoothing of successive applied values.
package transform

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultDragSlopeFactor is the default damping coefficient.
const DefaultDragSlopeFactor = 0.002

// ErrNegativeSlopeFactor is returned for a drag slope factor below zero.
var ErrNegativeSlopeFactor = errors.New("transform: drag slope factor must be >= 0")

// ScaleFunc selects how the interpolation parameter is derived.
type ScaleFunc uint8

const (
	// ScaleNone always yields the calibration minimum.
	ScaleNone ScaleFunc = iota
	// ScaleEyeAltitude interpolates by eye height above the surface.
	ScaleEyeAltitude
	// ScaleEyeAltitudeExp is ScaleEyeAltitude with an exponential curve.
	ScaleEyeAltitudeExp
	// ScaleZoom interpolates by orbit zoom distance.
	ScaleZoom
	// ScaleZoomExp is ScaleZoom with an exponential curve.
	ScaleZoomExp
)

var scaleNames = [...]string{
	ScaleNone:           "none",
	ScaleEyeAltitude:    "eye-altitude",
	ScaleEyeAltitudeExp: "eye-altitude-exp",
	ScaleZoom:           "zoom",
	ScaleZoomExp:        "zoom-exp",
}

// String returns the scale function name.
func (f ScaleFunc) String() string {
	if int(f) < len(scaleNames) {
		return scaleNames[f]
	}
	return fmt.Sprintf("scale(%d)", f)
}

// MarshalText implements encoding.TextMarshaler.
func (f ScaleFunc) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *ScaleFunc) UnmarshalText(text []byte) error {
	parsed, err := ParseScaleFunc(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseScaleFunc parses a scale function name.
func ParseScaleFunc(s string) (ScaleFunc, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.ReplaceAll(name, "_", "-")
	for i, n := range scaleNames {
		if n == name {
			return ScaleFunc(i), nil
		}
	}
	if name == "" {
		return ScaleNone, nil
	}
	return ScaleNone, fmt.Errorf("transform: unknown scale function %q", s)
}

// Exponential reports whether the function applies the 2^t-1 curve.
func (f ScaleFunc) Exponential() bool {
	return f == ScaleEyeAltitudeExp || f == ScaleZoomExp
}

// UsesZoom reports whether the function is parameterized by zoom.
func (f ScaleFunc) UsesZoom() bool {
	return f == ScaleZoom || f == ScaleZoomExp
}

// Camera is the camera state a scale function reads.
type Camera struct {
	// EyeAltitude is the eye elevation above the sphere surface datum.
	EyeAltitude float64
	// SurfaceElevation is the terrain elevation beneath the eye.
	SurfaceElevation float64
	// Zoom is the orbit distance; HasZoom is false for non-orbit views.
	Zoom    float64
	HasZoom bool
	// Radius is the globe radius.
	Radius float64
}

// Interpolate returns min*(1-t) + max*t.
func Interpolate(min, max, t float64) float64 {
	return min*(1-t) + max*t
}

// EyeAltitudeParam returns clamp((eyeAlt-surfaceElev)/(3*radius), 0, 1).
func EyeAltitudeParam(eyeAlt, surfaceElev, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	return mgl64.Clamp((eyeAlt-surfaceElev)/(3*radius), 0, 1)
}

// ZoomParam returns clamp(zoom/(3*radius), 0, 1).
func ZoomParam(zoom, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	return mgl64.Clamp(zoom/(3*radius), 0, 1)
}

// Exponential maps t in [0, 1] to 2^t - 1.
func Exponential(t float64) float64 {
	return math.Pow(2, t) - 1
}

// Param returns the interpolation parameter for fn. Zoom functions fall back
// to eye altitude when the camera has no zoom.
func Param(fn ScaleFunc, cam Camera) float64 {
	var t float64
	switch {
	case fn == ScaleNone:
		return 0
	case fn.UsesZoom() && cam.HasZoom:
		t = ZoomParam(cam.Zoom, cam.Radius)
	default:
		t = EyeAltitudeParam(cam.EyeAltitude, cam.SurfaceElevation, cam.Radius)
	}
	if fn.Exponential() {
		t = Exponential(t)
	}
	return t
}

// Scaled returns the calibrated value for fn at the given camera state.
func Scaled(min, max float64, fn ScaleFunc, cam Camera) float64 {
	if fn == ScaleNone {
		return min
	}
	return Interpolate(min, max, Param(fn, cam))
}

// RawToChange converts a raw input magnitude into a change:
// raw * Scaled(min, max, fn, cam) * sensitivity.
func RawToChange(raw, min, max, sensitivity float64, fn ScaleFunc, cam Camera) float64 {
	return raw * Scaled(min, max, fn, cam) * sensitivity
}
