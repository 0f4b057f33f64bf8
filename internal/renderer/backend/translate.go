package backend

import (
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/globenav/internal/input"
	"github.com/dshills/globenav/internal/input/key"
	"github.com/dshills/globenav/internal/input/mouse"
)

// namedKeys maps tcell keys to engine keys.
var namedKeys = map[tcell.Key]key.Key{
	tcell.KeyEscape:     key.KeyEscape,
	tcell.KeyEnter:      key.KeyEnter,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyBackspace:  key.KeyBackspace,
	tcell.KeyBackspace2: key.KeyBackspace,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyInsert:     key.KeyInsert,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyPgUp:       key.KeyPageUp,
	tcell.KeyPgDn:       key.KeyPageDown,
	tcell.KeyUp:         key.KeyUp,
	tcell.KeyDown:       key.KeyDown,
	tcell.KeyLeft:       key.KeyLeft,
	tcell.KeyRight:      key.KeyRight,
	tcell.KeyF1:         key.KeyF1,
	tcell.KeyF2:         key.KeyF2,
	tcell.KeyF3:         key.KeyF3,
	tcell.KeyF4:         key.KeyF4,
	tcell.KeyF5:         key.KeyF5,
	tcell.KeyF6:         key.KeyF6,
	tcell.KeyF7:         key.KeyF7,
	tcell.KeyF8:         key.KeyF8,
	tcell.KeyF9:         key.KeyF9,
	tcell.KeyF10:        key.KeyF10,
	tcell.KeyF11:        key.KeyF11,
	tcell.KeyF12:        key.KeyF12,
}

// buttons lists the pointer buttons in the order transitions are emitted.
var buttons = [...]struct {
	mask   tcell.ButtonMask
	button mouse.Button
}{
	{tcell.Button1, mouse.ButtonLeft},
	{tcell.Button2, mouse.ButtonRight},
	{tcell.Button3, mouse.ButtonMiddle},
}

const buttonMask = tcell.Button1 | tcell.Button2 | tcell.Button3

// Translator converts tcell events to engine events. Terminals report the
// current button mask rather than transitions, so the translator keeps the
// previous mask and pointer position. It is not safe for concurrent use.
type Translator struct {
	held tcell.ButtonMask
	last mouse.Point
	now  func() time.Time
}

// NewTranslator creates a translator stamping events with now, or with
// the tcell event time when now is nil.
func NewTranslator(now func() time.Time) *Translator {
	return &Translator{now: now}
}

// Reset forgets held buttons, e.g. after focus loss.
func (t *Translator) Reset() {
	t.held = tcell.ButtonNone
}

// Translate converts ev. Unsupported events translate to nothing.
func (t *Translator) Translate(ev tcell.Event) []Event {
	at := ev.When()
	if t.now != nil {
		at = t.now()
	}

	switch e := ev.(type) {
	case *tcell.EventKey:
		k, ok := translateKey(e, at)
		if !ok {
			return nil
		}
		return []Event{{Type: EventInput, Input: k}}

	case *tcell.EventMouse:
		return t.translateMouse(e, at)

	case *tcell.EventResize:
		w, h := e.Size()
		return []Event{{Type: EventResize, Width: w, Height: h}}

	case *tcell.EventFocus:
		if !e.Focused {
			t.Reset()
		}
		return []Event{{Type: EventInput, Input: input.FocusEvent{Focused: e.Focused, At: at}}}

	case *tcell.EventInterrupt:
		return []Event{{Type: EventInterrupt, Data: e.Data()}}

	default:
		return nil
	}
}

func translateKey(e *tcell.EventKey, at time.Time) (input.KeyEvent, bool) {
	mods := translateMod(e.Modifiers())

	if k, ok := namedKeys[e.Key()]; ok {
		return input.KeyEvent{Code: key.Named(k), Pressed: true, Modifiers: mods, At: at}, true
	}

	switch {
	case e.Key() == tcell.KeyRune:
		r := e.Rune()
		if r == ' ' {
			return input.KeyEvent{Code: key.Named(key.KeySpace), Pressed: true, Modifiers: mods, At: at}, true
		}
		if unicode.IsUpper(r) {
			mods = mods.With(key.ModShift)
		}
		return input.KeyEvent{Code: key.Char(r), Pressed: true, Modifiers: mods, At: at}, true

	case e.Key() >= tcell.KeyCtrlA && e.Key() <= tcell.KeyCtrlZ:
		r := rune('A' + (e.Key() - tcell.KeyCtrlA))
		return input.KeyEvent{Code: key.Char(r), Pressed: true, Modifiers: mods.With(key.ModCtrl), At: at}, true

	case e.Key() == tcell.KeyCtrlSpace:
		return input.KeyEvent{Code: key.Named(key.KeySpace), Pressed: true, Modifiers: mods.With(key.ModCtrl), At: at}, true
	}
	return input.KeyEvent{}, false
}

// translateMouse emits the wheel, releases, then presses. Motion is only
// reported for events that carry nothing else.
func (t *Translator) translateMouse(e *tcell.EventMouse, at time.Time) []Event {
	x, y := e.Position()
	p := mouse.Point{X: x, Y: y}
	mods := translateMod(e.Modifiers())
	mask := e.Buttons()

	var out []Event
	emit := func(ev input.Event) {
		out = append(out, Event{Type: EventInput, Input: ev})
	}

	switch {
	case mask&tcell.WheelUp != 0:
		emit(input.WheelEvent{Amount: -1, Point: p, Modifiers: mods, At: at})
	case mask&tcell.WheelDown != 0:
		emit(input.WheelEvent{Amount: 1, Point: p, Modifiers: mods, At: at})
	}

	down := mask & buttonMask
	for _, b := range buttons {
		if t.held&b.mask != 0 && down&b.mask == 0 {
			emit(input.PointerEvent{Action: input.PointerRelease, Button: b.button, Point: p, Modifiers: mods, At: at})
		}
	}
	for _, b := range buttons {
		if t.held&b.mask == 0 && down&b.mask != 0 {
			emit(input.PointerEvent{Action: input.PointerPress, Button: b.button, Point: p, Modifiers: mods, At: at})
		}
	}

	if len(out) == 0 && p != t.last {
		if down != 0 {
			emit(input.PointerEvent{Action: input.PointerDrag, Button: firstButton(down), Point: p, Modifiers: mods, At: at})
		} else {
			emit(input.PointerEvent{Action: input.PointerMove, Point: p, Modifiers: mods, At: at})
		}
	}

	t.held = down
	t.last = p
	return out
}

func firstButton(mask tcell.ButtonMask) mouse.Button {
	for _, b := range buttons {
		if mask&b.mask != 0 {
			return b.button
		}
	}
	return mouse.ButtonNone
}

func translateMod(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(key.ModMeta)
	}
	return mods
}
