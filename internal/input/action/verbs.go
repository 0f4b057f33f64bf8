package action

import (
	"errors"
	"fmt"
	"sort"
)

// Verb names of the built-in strategies.
const (
	VerbMoveTo                = "moveTo"
	VerbHorizontalTranslate   = "horizontalTranslate"
	VerbVerticalTranslate     = "verticalTranslate"
	VerbRotate                = "rotate"
	VerbRoll                  = "roll"
	VerbResetHeading          = "resetHeading"
	VerbResetHeadingPitchRoll = "resetHeadingPitchRoll"
	VerbResetRoll             = "resetRoll"
	VerbStopView              = "stopView"
)

// ErrUnknownVerb is returned when a verb name has no strategy.
var ErrUnknownVerb = errors.New("action: unknown verb")

// Verbs maps verb names to strategies.
type Verbs map[string]Handler

// Lookup returns the strategy registered for name.
func (v Verbs) Lookup(name string) (Handler, error) {
	h, ok := v[name]
	if !ok || h == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVerb, name)
	}
	return h, nil
}

// Names returns the registered verb names, sorted.
func (v Verbs) Names() []string {
	names := make([]string, 0, len(v))
	for n := range v {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// With returns a copy of v with name bound to h.
func (v Verbs) With(name string, h Handler) Verbs {
	out := make(Verbs, len(v)+1)
	for k, hv := range v {
		out[k] = hv
	}
	out[name] = h
	return out
}
