package config

import (
	"strconv"
	"strings"
	"time"
)

// setting assigns a raw environment value to one field of a Config.
type setting func(c *Config, raw string) error

// settings maps config paths to their environment setters. Only scalar
// settings can come from the environment; [[action]] and [[script]] lists
// live in the file.
var settings = map[string]setting{
	"input.drag_slope_factor":  floatSetting(func(c *Config) *float64 { return &c.Input.DragSlopeFactor }),
	"input.frame_interval":     durationSetting(func(c *Config) *Duration { return &c.Input.FrameInterval }),
	"input.key_release_delay":  durationSetting(func(c *Config) *Duration { return &c.Input.KeyReleaseDelay }),
	"input.enable_smoothing":   boolSetting(func(c *Config) *bool { return &c.Input.EnableSmoothing }),
	"input.lock_heading":       boolSetting(func(c *Config) *bool { return &c.Input.LockHeading }),
	"input.stop_on_focus_lost": boolSetting(func(c *Config) *bool { return &c.Input.StopOnFocusLost }),
	"input.platform":           stringSetting(func(c *Config) *string { return &c.Input.Platform }),
	"sensitivity.keyboard":     floatSetting(func(c *Config) *float64 { return &c.Sensitivity.Keyboard }),
	"sensitivity.pointer":      floatSetting(func(c *Config) *float64 { return &c.Sensitivity.Pointer }),
	"sensitivity.wheel":        floatSetting(func(c *Config) *float64 { return &c.Sensitivity.Wheel }),
	"log.level":                stringSetting(func(c *Config) *string { return &c.Log.Level }),
	"log.format":               stringSetting(func(c *Config) *string { return &c.Log.Format }),
	"log.file":                 stringSetting(func(c *Config) *string { return &c.Log.File }),
	"view.lat":                 floatSetting(func(c *Config) *float64 { return &c.View.Lat }),
	"view.lon":                 floatSetting(func(c *Config) *float64 { return &c.View.Lon }),
	"view.zoom":                floatSetting(func(c *Config) *float64 { return &c.View.Zoom }),
	"view.heading":             floatSetting(func(c *Config) *float64 { return &c.View.Heading }),
	"view.pitch":               floatSetting(func(c *Config) *float64 { return &c.View.Pitch }),
	"view.radius":              floatSetting(func(c *Config) *float64 { return &c.View.Radius }),
}

// EnvLoader overlays environment variables onto a Config.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "GLOBENAV_")
	mapping map[string]string // Env var -> config path
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "GLOBENAV_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: make(map[string]string),
	}
}

// AddMapping maps an environment variable to a config path, for names
// that do not follow the PREFIX_SECTION_KEY convention.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// Values returns the recognised settings in environ, keyed by config path.
// Prefixed variables that name no setting are ignored.
func (l *EnvLoader) Values(environ []string) map[string]string {
	values := make(map[string]string)
	for _, env := range environ {
		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}

		path, mapped := l.mapping[name]
		if !mapped {
			if !strings.HasPrefix(name, l.prefix) {
				continue
			}
			path = l.envToPath(name)
		}
		if _, known := settings[path]; known {
			values[path] = value
		}
	}
	return values
}

// Apply overlays the recognised settings in environ onto c.
func (l *EnvLoader) Apply(c *Config, environ []string) error {
	for path, raw := range l.Values(environ) {
		if err := settings[path](c, raw); err != nil {
			return invalid(path, "%v", err)
		}
	}
	return nil
}

// envToPath converts GLOBENAV_INPUT_DRAG_SLOPE_FACTOR to
// input.drag_slope_factor.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))
	section, key, ok := strings.Cut(name, "_")
	if !ok {
		return name
	}
	return section + "." + key
}

func floatSetting(field func(*Config) *float64) setting {
	return func(c *Config, raw string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return err
		}
		*field(c) = v
		return nil
	}
}

func durationSetting(field func(*Config) *Duration) setting {
	return func(c *Config, raw string) error {
		v, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		*field(c) = Duration(v)
		return nil
	}
}

func boolSetting(field func(*Config) *bool) setting {
	return func(c *Config, raw string) error {
		v, err := parseBool(raw)
		if err != nil {
			return err
		}
		*field(c) = v
		return nil
	}
}

func stringSetting(field func(*Config) *string) setting {
	return func(c *Config, raw string) error {
		*field(c) = raw
		return nil
	}
}

// parseBool accepts the strconv forms plus yes/no and on/off.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(s))
}
