// Package config loads globenav settings.
//
// Settings are layered: built-in defaults, then a TOML or YAML file chosen
// by extension, then GLOBENAV_ environment variables. The result is
// validated as a whole; a Config is never partially applied.
//
// Example TOML:
//
//	[input]
//	drag_slope_factor = 0.002
//	frame_interval = "35ms"
//	lock_heading = false
//
//	[sensitivity]
//	keyboard = 2.0
//
//	[[action]]
//	device = "keyboard"
//	name = "horizontalTranslateKeys"
//	max = 2.0
//
//	[[script]]
//	device = "keyboard"
//	action = "rollKeys"
//	path = "scripts/roll.lua"
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/dshills/globenav/internal/dispatcher"
	"github.com/dshills/globenav/internal/dispatcher/handler"
	"github.com/dshills/globenav/internal/geo"
	"github.com/dshills/globenav/internal/input"
	"github.com/dshills/globenav/internal/input/action"
	"github.com/dshills/globenav/internal/input/keymap"
	"github.com/dshills/globenav/internal/logging"
	"github.com/dshills/globenav/internal/transform"
	"github.com/dshills/globenav/internal/view"
)

// Default values.
const (
	DefaultFrameInterval   = 35 * time.Millisecond
	DefaultKeyReleaseDelay = 150 * time.Millisecond
)

// Config is the complete set of globenav settings.
type Config struct {
	Input       InputConfig       `toml:"input" yaml:"input"`
	Sensitivity SensitivityConfig `toml:"sensitivity" yaml:"sensitivity"`
	Actions     []keymap.Override `toml:"action" yaml:"action"`
	Scripts     []ScriptConfig    `toml:"script" yaml:"script"`
	Log         LogConfig         `toml:"log" yaml:"log"`
	View        ViewConfig        `toml:"view" yaml:"view"`

	// Path is the file the config was loaded from, if any.
	Path string `toml:"-" yaml:"-"`
}

// InputConfig holds the engine toggles.
type InputConfig struct {
	DragSlopeFactor float64  `toml:"drag_slope_factor" yaml:"drag_slope_factor"`
	FrameInterval   Duration `toml:"frame_interval" yaml:"frame_interval"`
	KeyReleaseDelay Duration `toml:"key_release_delay" yaml:"key_release_delay"`
	EnableSmoothing bool     `toml:"enable_smoothing" yaml:"enable_smoothing"`
	LockHeading     bool     `toml:"lock_heading" yaml:"lock_heading"`
	StopOnFocusLost bool     `toml:"stop_on_focus_lost" yaml:"stop_on_focus_lost"`
	Platform        string   `toml:"platform" yaml:"platform"`
}

// SensitivityConfig holds the per-device sensitivity multipliers.
type SensitivityConfig struct {
	Keyboard float64 `toml:"keyboard" yaml:"keyboard"`
	Pointer  float64 `toml:"pointer" yaml:"pointer"`
	Wheel    float64 `toml:"wheel" yaml:"wheel"`
}

// Of returns the sensitivity of device d.
func (s SensitivityConfig) Of(d input.Device) float64 {
	switch d {
	case input.DevicePointer:
		return s.Pointer
	case input.DeviceWheel:
		return s.Wheel
	default:
		return s.Keyboard
	}
}

// ScriptConfig binds a Lua strategy to a registered action.
type ScriptConfig struct {
	Device input.Device `toml:"device" yaml:"device"`
	Action string       `toml:"action" yaml:"action"`
	Path   string       `toml:"path" yaml:"path"`
}

// LogConfig selects the log level, format and destination.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	// File receives the log when set. Interactive mode logs nowhere
	// else since the terminal is taken by the HUD.
	File string `toml:"file" yaml:"file"`
}

// ViewConfig is the initial camera and globe.
type ViewConfig struct {
	Lat     float64 `toml:"lat" yaml:"lat"`
	Lon     float64 `toml:"lon" yaml:"lon"`
	Zoom    float64 `toml:"zoom" yaml:"zoom"`
	Heading float64 `toml:"heading" yaml:"heading"`
	Pitch   float64 `toml:"pitch" yaml:"pitch"`
	Radius  float64 `toml:"radius" yaml:"radius"`
}

// Duration is a time.Duration written as a Go duration string.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			DragSlopeFactor: transform.DefaultDragSlopeFactor,
			FrameInterval:   Duration(DefaultFrameInterval),
			KeyReleaseDelay: Duration(DefaultKeyReleaseDelay),
			EnableSmoothing: true,
			LockHeading:     true,
			StopOnFocusLost: true,
			Platform:        runtime.GOOS,
		},
		Sensitivity: SensitivityConfig{
			Keyboard: keymap.DefaultSensitivity,
			Pointer:  keymap.DefaultSensitivity,
			Wheel:    keymap.DefaultSensitivity,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		View: ViewConfig{
			Zoom:   3 * view.EarthRadius,
			Radius: view.EarthRadius,
		},
	}
}

// Validate checks every setting. Action overrides are checked by applying
// them to a scratch copy of the default bindings.
func (c *Config) Validate() error {
	if err := transform.ValidateSlopeFactor(c.Input.DragSlopeFactor); err != nil {
		return invalid("input.drag_slope_factor", "%v", err)
	}
	if c.Input.FrameInterval <= 0 {
		return invalid("input.frame_interval", "must be > 0, got %s", c.Input.FrameInterval.Std())
	}
	if c.Input.KeyReleaseDelay <= 0 {
		return invalid("input.key_release_delay", "must be > 0, got %s", c.Input.KeyReleaseDelay.Std())
	}
	for _, d := range input.Devices {
		if s := c.Sensitivity.Of(d); !(s > 0) {
			return invalid("sensitivity."+d.String(), "must be > 0, got %v", s)
		}
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level", "%v", err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return invalid("log.format", "%v", err)
	}
	if !(c.View.Radius > 0) {
		return invalid("view.radius", "must be > 0, got %v", c.View.Radius)
	}
	if !(c.View.Zoom > 0) {
		return invalid("view.zoom", "must be > 0, got %v", c.View.Zoom)
	}
	for i, s := range c.Scripts {
		if s.Action == "" || s.Path == "" {
			return invalid(fmt.Sprintf("script[%d]", i), "action and path are required")
		}
	}
	if _, err := c.Registry(handler.Defaults()); err != nil {
		return invalid("action", "%v", err)
	}
	return nil
}

// Registry builds the default bindings for the configured platform, sets
// the sensitivities and merges the action overrides. Override verbs are
// resolved in verbs.
func (c *Config) Registry(verbs action.Verbs) (*keymap.Registry, error) {
	r, err := keymap.Default(verbs, keymap.WithPlatform(c.Input.Platform))
	if err != nil {
		return nil, err
	}
	if err := c.ApplyTo(r, verbs); err != nil {
		return nil, err
	}
	return r, nil
}

// ApplyTo sets the sensitivities and merges the action overrides into r.
func (c *Config) ApplyTo(r *keymap.Registry, verbs action.Verbs) error {
	var errs []error
	for _, d := range input.Devices {
		errs = append(errs, r.RegisterSensitivity(d, c.Sensitivity.Of(d)))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	return keymap.ApplyOverrides(r, c.Actions, verbs.Lookup)
}

// Dispatcher returns the engine configuration.
func (c *Config) Dispatcher() dispatcher.Config {
	return dispatcher.DefaultConfig().
		WithSmoothing(c.Input.EnableSmoothing).
		WithHeadingLock(c.Input.LockHeading).
		WithDragSlopeFactor(c.Input.DragSlopeFactor).
		WithStopOnFocusLost(c.Input.StopOnFocusLost)
}

// Logging returns the logger configuration. debug forces the debug level.
func (c *Config) Logging(debug bool) *logging.Config {
	lc := logging.DefaultConfig()
	if lvl, err := logging.ParseLevel(c.Log.Level); err == nil {
		lc.Level = lvl
	}
	if debug {
		lc.Level = logging.LevelDebug
	}
	if f, err := logging.ParseFormat(c.Log.Format); err == nil {
		lc.Format = f
	}
	return lc
}

// OrbitState returns the initial camera.
func (c *Config) OrbitState() view.OrbitState {
	return view.OrbitState{
		Center:  geo.Position{Lat: geo.ClampLat(c.View.Lat), Lon: geo.NormalizeLon(c.View.Lon)},
		Heading: c.View.Heading,
		Pitch:   c.View.Pitch,
		Zoom:    c.View.Zoom,
	}
}

// resolvePaths makes script paths relative to the config file directory.
func (c *Config) resolvePaths() {
	if c.Path == "" {
		return
	}
	dir := filepath.Dir(c.Path)
	for i, s := range c.Scripts {
		if s.Path != "" && !filepath.IsAbs(s.Path) {
			c.Scripts[i].Path = filepath.Join(dir, s.Path)
		}
	}
}
