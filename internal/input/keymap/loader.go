package keymap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/globenav/internal/input"
	"github.com/dshills/globenav/internal/input/action"
	"github.com/dshills/globenav/internal/input/key"
	"github.com/dshills/globenav/internal/input/mouse"
	"github.com/dshills/globenav/internal/transform"
)

// ErrUnknownFormat is returned for override files with an unsupported
// extension.
var ErrUnknownFormat = errors.New("keymap: unknown override file format")

// Override is a serializable change to one action. Unset fields keep the
// registered value. Device defaults to the keyboard.
//
// When Modifier is set, only the spec registered under that combination is
// changed; if the action exists on the device but not under Modifier, a
// copy of it is registered there. An unknown action is registered from
// scratch and then needs Verb and both calibration bounds.
type Override struct {
	Device   input.Device  `json:"device" toml:"device" yaml:"device"`
	Name     string        `json:"name" toml:"name" yaml:"name"`
	Modifier *key.Modifier `json:"modifier,omitempty" toml:"modifier,omitempty" yaml:"modifier,omitempty"`
	Verb     string        `json:"verb,omitempty" toml:"verb,omitempty" yaml:"verb,omitempty"`

	Min       *float64 `json:"min,omitempty" toml:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" toml:"max,omitempty" yaml:"max,omitempty"`
	Smoothing *float64 `json:"smoothing,omitempty" toml:"smoothing,omitempty" yaml:"smoothing,omitempty"`
	Smooth    *bool    `json:"smooth,omitempty" toml:"smooth,omitempty" yaml:"smooth,omitempty"`

	Trigger *input.Trigger       `json:"trigger,omitempty" toml:"trigger,omitempty" yaml:"trigger,omitempty"`
	Scale   *transform.ScaleFunc `json:"scale,omitempty" toml:"scale,omitempty" yaml:"scale,omitempty"`
	Keys    []action.KeyBinding  `json:"keys,omitempty" toml:"keys,omitempty" yaml:"keys,omitempty"`
	Buttons []mouse.Button       `json:"buttons,omitempty" toml:"buttons,omitempty" yaml:"buttons,omitempty"`
}

// overrideFile is the on-disk layout: a list of [[action]] tables.
type overrideFile struct {
	Actions []Override `json:"action" toml:"action" yaml:"action"`
}

// LoadOverrides reads overrides from a .toml, .yaml, .yml or .json file.
func LoadOverrides(path string) ([]Override, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening override file: %w", err)
	}
	defer f.Close()

	return DecodeOverrides(f, filepath.Ext(path))
}

// DecodeOverrides reads overrides in the format named by ext.
func DecodeOverrides(r io.Reader, ext string) ([]Override, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading overrides: %w", err)
	}

	var file overrideFile
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&file)
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&file); errors.Is(err, io.EOF) {
			err = nil
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&file)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding overrides: %w", err)
	}
	return file.Actions, nil
}

// apply copies the set fields of o into s.
func (o Override) apply(s *action.Spec) {
	if o.Min != nil {
		s.Calibration.Min = *o.Min
	}
	if o.Max != nil {
		s.Calibration.Max = *o.Max
	}
	if o.Smoothing != nil {
		s.Smoothing.Coefficient = *o.Smoothing
		s.Smoothing.Enabled = true
	}
	if o.Smooth != nil {
		s.Smoothing.Enabled = *o.Smooth
	}
	if o.Trigger != nil {
		s.Trigger = *o.Trigger
	}
	if o.Scale != nil {
		s.Scale = *o.Scale
	}
	if o.Keys != nil {
		s.Keys = append([]action.KeyBinding(nil), o.Keys...)
	}
	if o.Buttons != nil {
		s.Buttons = append([]mouse.Button(nil), o.Buttons...)
	}
}

// ApplyOverrides merges overrides into r in order. resolve maps a verb name
// to a strategy and may be nil when no override names a verb. Each
// override is applied atomically; the first failure stops the merge.
func ApplyOverrides(r *Registry, overrides []Override, resolve func(verb string) (action.Handler, error)) error {
	for _, o := range overrides {
		if err := applyOverride(r, o, resolve); err != nil {
			return fmt.Errorf("override %s/%s: %w", o.Device, o.Name, err)
		}
	}
	return nil
}

func applyOverride(r *Registry, o Override, resolve func(string) (action.Handler, error)) error {
	var h action.Handler
	if o.Verb != "" {
		if resolve == nil {
			return fmt.Errorf("%w: no resolver for verb %q", ErrInvalidBinding, o.Verb)
		}
		var err error
		if h, err = resolve(o.Verb); err != nil {
			return err
		}
	}
	fn := func(s *action.Spec) {
		o.apply(s)
		if h != nil {
			s.Handler = h
		}
	}

	existing, found := r.Lookup(o.Device, o.Name)
	switch {
	case found && o.Modifier == nil:
		return r.Update(o.Device, o.Name, fn)
	case found:
		err := r.UpdateCombo(o.Device, *o.Modifier, o.Name, fn)
		if !errors.Is(err, ErrActionNotRegistered) {
			return err
		}
		fn(&existing)
		return r.RegisterAction(o.Device, *o.Modifier, existing)
	}

	if h == nil {
		return fmt.Errorf("%w: %q needs a verb", ErrActionNotRegistered, o.Name)
	}
	spec := action.Spec{
		Name:    o.Name,
		Trigger: input.TriggerHeld,
		Scale:   transform.ScaleNone,
	}
	fn(&spec)
	mod := key.ModNone
	if o.Modifier != nil {
		mod = *o.Modifier
	}
	return r.RegisterAction(o.Device, mod, spec)
}
