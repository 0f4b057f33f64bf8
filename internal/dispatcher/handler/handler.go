package handler

import (
	"github.com/dshills/globenav/internal/input"
	"github.com/dshills/globenav/internal/input/action"
)

// Defaults returns a fresh verb table with the built-in strategies.
func Defaults() action.Verbs {
	return action.Verbs{
		action.VerbMoveTo:                MoveTo{},
		action.VerbHorizontalTranslate:   HorizontalTranslate{},
		action.VerbVerticalTranslate:     VerticalTranslate{},
		action.VerbRotate:                Rotate{},
		action.VerbRoll:                  Roll{},
		action.VerbResetHeading:          ResetHeading{},
		action.VerbResetHeadingPitchRoll: ResetHeadingPitchRoll{},
		action.VerbResetRoll:             ResetRoll{},
		action.VerbStopView:              StopView{},
	}
}

// pressed reports whether the triggering event is a press of one of the
// spec's bound keys or buttons. For click specs the button release that
// ends the click counts.
func pressed(ctx *action.Context, spec *action.Spec) bool {
	switch ev := ctx.Event.(type) {
	case input.KeyEvent:
		if !ev.Pressed {
			return false
		}
		for _, kb := range spec.Keys {
			if kb.Code == ev.Code {
				return true
			}
		}
	case input.PointerEvent:
		want := input.PointerPress
		if spec.Trigger == input.TriggerClick {
			want = input.PointerRelease
		}
		return ev.Action == want && spec.Binds(ev.Button)
	}
	return false
}

// interrupt cancels go-to and reset animations before user input moves
// the target.
func interrupt(ctx *action.Context) {
	ctx.Target.StopMovement()
}

// pointerMotion returns the latest pointer movement while one of the
// spec's buttons is held.
func pointerMotion(ctx *action.Context, spec *action.Spec) (dx, dy float64, ok bool) {
	if ctx.Anchor == nil || !ctx.Anchor.Active() || !ctx.ButtonHeld(spec) {
		return 0, 0, false
	}
	mv := ctx.Anchor.Movement()
	if mv.X == 0 && mv.Y == 0 {
		return 0, 0, false
	}
	return float64(mv.X), float64(mv.Y), true
}
