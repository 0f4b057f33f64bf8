package keymap

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/dshills/globenav/internal/input"
	"github.com/dshills/globenav/internal/input/action"
	"github.com/dshills/globenav/internal/input/key"
)

// Registry errors.
var (
	// ErrInvalidSensitivity indicates a device sensitivity that is not > 0.
	ErrInvalidSensitivity = errors.New("keymap: sensitivity must be > 0")

	// ErrActionNotRegistered indicates an unknown action name.
	ErrActionNotRegistered = errors.New("keymap: action not registered")

	// ErrInvalidCalibration is returned for calibration bounds that are not > 0.
	ErrInvalidCalibration = action.ErrInvalidCalibration

	// ErrInvalidSmoothing is returned for coefficients outside [0, 1).
	ErrInvalidSmoothing = action.ErrInvalidSmoothing

	// ErrInvalidBinding is returned for malformed names, bindings or handlers.
	ErrInvalidBinding = action.ErrInvalidBinding
)

// DefaultSensitivity is the sensitivity of a device nothing was registered for.
const DefaultSensitivity = 1.0

// slot keys an action list.
type slot struct {
	device   input.Device
	modifier key.Modifier
}

// Registry holds device sensitivities and the ordered action lists of
// every (device, modifier combination) pair.
type Registry struct {
	mu sync.RWMutex

	sensitivity map[input.Device]float64
	actions     map[slot][]action.Spec
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sensitivity: make(map[input.Device]float64),
		actions:     make(map[slot][]action.Spec),
	}
}

// RegisterSensitivity sets the sensitivity of device.
func (r *Registry) RegisterSensitivity(device input.Device, s float64) error {
	if !(s > 0) || math.IsInf(s, 1) {
		return fmt.Errorf("%w: %s has %g", ErrInvalidSensitivity, device, s)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sensitivity[device] = s
	return nil
}

// Sensitivity returns the sensitivity of device.
func (r *Registry) Sensitivity(device input.Device) float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.sensitivity[device]; ok {
		return s
	}
	return DefaultSensitivity
}

// RegisterAction validates spec and appends it to the list of (device,
// modifier). A spec with the same name already in that list is replaced in
// place.
func (r *Registry) RegisterAction(device input.Device, modifier key.Modifier, spec action.Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	spec = spec.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()

	k := slot{device, modifier}
	list := r.actions[k]
	for i := range list {
		if list[i].Name == spec.Name {
			list[i] = spec
			return nil
		}
	}
	r.actions[k] = append(list, spec)
	return nil
}

// Unregister removes every spec named name from device. It reports
// whether anything was removed.
func (r *Registry) Unregister(device input.Device, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := false
	for k, list := range r.actions {
		if k.device != device {
			continue
		}
		kept := list[:0]
		for _, s := range list {
			if s.Name == name {
				removed = true
				continue
			}
			kept = append(kept, s)
		}
		if len(kept) == 0 {
			delete(r.actions, k)
		} else {
			r.actions[k] = kept
		}
	}
	return removed
}

// DeriveScaledVariant returns a copy of spec with its calibration
// multiplied by factor. Everything else, the name included, is kept.
func DeriveScaledVariant(spec action.Spec, factor float64) (action.Spec, error) {
	if !(factor > 0) || math.IsInf(factor, 1) {
		return action.Spec{}, fmt.Errorf("%w: scale factor %g", ErrInvalidCalibration, factor)
	}
	out := spec.Clone()
	out.Calibration = spec.Calibration.Scaled(factor)
	return out, nil
}

// OverrideHandler replaces the handler of every spec named name on device.
func (r *Registry) OverrideHandler(device input.Device, name string, h action.Handler) error {
	if h == nil {
		return fmt.Errorf("%w: %s has no handler", ErrInvalidBinding, name)
	}
	return r.Update(device, name, func(s *action.Spec) { s.Handler = h })
}

// Update applies fn to a copy of every spec named name on device. If any
// copy fails validation nothing is changed.
func (r *Registry) Update(device input.Device, name string, fn func(*action.Spec)) error {
	return r.update(func(k slot) bool { return k.device == device }, name, fn)
}

// UpdateCombo is Update restricted to the list of (device, modifier).
func (r *Registry) UpdateCombo(device input.Device, modifier key.Modifier, name string, fn func(*action.Spec)) error {
	want := slot{device, modifier}
	return r.update(func(k slot) bool { return k == want }, name, fn)
}

func (r *Registry) update(match func(slot) bool, name string, fn func(*action.Spec)) error {
	type change struct {
		k    slot
		i    int
		spec action.Spec
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var changes []change
	for k, list := range r.actions {
		if !match(k) {
			continue
		}
		for i := range list {
			if list[i].Name != name {
				continue
			}
			s := list[i].Clone()
			fn(&s)
			s.Name = name
			if err := s.Validate(); err != nil {
				return err
			}
			changes = append(changes, change{k, i, s})
		}
	}
	if len(changes) == 0 {
		return fmt.Errorf("%w: %q", ErrActionNotRegistered, name)
	}
	for _, c := range changes {
		r.actions[c.k][c.i] = c.spec
	}
	return nil
}

// Actions returns a copy of the ordered spec list of (device, modifier).
func (r *Registry) Actions(device input.Device, modifier key.Modifier) []action.Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.actions[slot{device, modifier}]
	if len(list) == 0 {
		return nil
	}
	out := make([]action.Spec, len(list))
	for i := range list {
		out[i] = list[i].Clone()
	}
	return out
}

// Lookup returns the first spec named name on device, searching the
// modifier combinations in priority order.
func (r *Registry) Lookup(device input.Device, name string) (action.Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range key.Combinations {
		for _, s := range r.actions[slot{device, m}] {
			if s.Name == name {
				return s.Clone(), true
			}
		}
	}
	return action.Spec{}, false
}

// Combos returns the modifier combinations under which name is registered
// on device, in priority order.
func (r *Registry) Combos(device input.Device, name string) []key.Modifier {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []key.Modifier
	for _, m := range key.Combinations {
		for _, s := range r.actions[slot{device, m}] {
			if s.Name == name {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// Names returns the action names registered on device, sorted.
func (r *Registry) Names(device input.Device) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for k, list := range r.actions {
		if k.device != device {
			continue
		}
		for _, s := range list {
			seen[s.Name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered specs across all lists.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, list := range r.actions {
		n += len(list)
	}
	return n
}
