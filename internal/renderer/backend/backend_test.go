package backend

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/globenav/internal/input"
	"github.com/dshills/globenav/internal/input/key"
	"github.com/dshills/globenav/internal/input/mouse"
)

var stamp = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func fixed() time.Time { return stamp }

func inputs(t *testing.T, events []Event) []input.Event {
	t.Helper()
	out := make([]input.Event, 0, len(events))
	for _, ev := range events {
		if ev.Type != EventInput {
			t.Fatalf("event type = %v, want EventInput", ev.Type)
		}
		out = append(out, ev.Input)
	}
	return out
}

func TestTranslateKeys(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want input.KeyEvent
	}{
		{"arrow", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone),
			input.KeyEvent{Code: key.Named(key.KeyRight), Pressed: true, At: stamp}},
		{"shift arrow", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModShift),
			input.KeyEvent{Code: key.Named(key.KeyLeft), Pressed: true, Modifiers: key.ModShift, At: stamp}},
		{"letter", tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModNone),
			input.KeyEvent{Code: key.Char('n'), Pressed: true, At: stamp}},
		{"upper letter", tcell.NewEventKey(tcell.KeyRune, 'R', tcell.ModNone),
			input.KeyEvent{Code: key.Char('r'), Pressed: true, Modifiers: key.ModShift, At: stamp}},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone),
			input.KeyEvent{Code: key.Named(key.KeySpace), Pressed: true, At: stamp}},
		{"page up", tcell.NewEventKey(tcell.KeyPgUp, 0, tcell.ModNone),
			input.KeyEvent{Code: key.Named(key.KeyPageUp), Pressed: true, At: stamp}},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlR, 0, tcell.ModCtrl),
			input.KeyEvent{Code: key.Char('R'), Pressed: true, Modifiers: key.ModCtrl, At: stamp}},
		{"tab is not ctrl-i", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone),
			input.KeyEvent{Code: key.Named(key.KeyTab), Pressed: true, At: stamp}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inputs(t, NewTranslator(fixed).Translate(tt.ev))
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("Translate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTranslateMouseSequence(t *testing.T) {
	tr := NewTranslator(fixed)
	steps := []struct {
		name string
		ev   *tcell.EventMouse
		want []input.Event
	}{
		{"move", tcell.NewEventMouse(3, 4, tcell.ButtonNone, tcell.ModNone), []input.Event{
			input.PointerEvent{Action: input.PointerMove, Point: mouse.Point{X: 3, Y: 4}, At: stamp},
		}},
		{"press", tcell.NewEventMouse(3, 4, tcell.Button1, tcell.ModNone), []input.Event{
			input.PointerEvent{Action: input.PointerPress, Button: mouse.ButtonLeft, Point: mouse.Point{X: 3, Y: 4}, At: stamp},
		}},
		{"drag", tcell.NewEventMouse(5, 4, tcell.Button1, tcell.ModCtrl), []input.Event{
			input.PointerEvent{Action: input.PointerDrag, Button: mouse.ButtonLeft, Point: mouse.Point{X: 5, Y: 4}, Modifiers: key.ModCtrl, At: stamp},
		}},
		{"same position", tcell.NewEventMouse(5, 4, tcell.Button1, tcell.ModNone), nil},
		{"swap buttons", tcell.NewEventMouse(5, 4, tcell.Button2, tcell.ModNone), []input.Event{
			input.PointerEvent{Action: input.PointerRelease, Button: mouse.ButtonLeft, Point: mouse.Point{X: 5, Y: 4}, At: stamp},
			input.PointerEvent{Action: input.PointerPress, Button: mouse.ButtonRight, Point: mouse.Point{X: 5, Y: 4}, At: stamp},
		}},
		{"release", tcell.NewEventMouse(5, 4, tcell.ButtonNone, tcell.ModNone), []input.Event{
			input.PointerEvent{Action: input.PointerRelease, Button: mouse.ButtonRight, Point: mouse.Point{X: 5, Y: 4}, At: stamp},
		}},
		{"middle", tcell.NewEventMouse(5, 4, tcell.Button3, tcell.ModNone), []input.Event{
			input.PointerEvent{Action: input.PointerPress, Button: mouse.ButtonMiddle, Point: mouse.Point{X: 5, Y: 4}, At: stamp},
		}},
	}

	for _, s := range steps {
		got := inputs(t, tr.Translate(s.ev))
		if len(got) != len(s.want) {
			t.Fatalf("%s: Translate() = %+v, want %+v", s.name, got, s.want)
		}
		for i := range got {
			if got[i] != s.want[i] {
				t.Errorf("%s: event %d = %+v, want %+v", s.name, i, got[i], s.want[i])
			}
		}
	}
}

func TestTranslateWheel(t *testing.T) {
	tests := []struct {
		mask tcell.ButtonMask
		want float64
	}{
		{tcell.WheelUp, -1},
		{tcell.WheelDown, 1},
	}
	for _, tt := range tests {
		got := inputs(t, NewTranslator(fixed).Translate(tcell.NewEventMouse(1, 1, tt.mask, tcell.ModShift)))
		want := input.WheelEvent{Amount: tt.want, Point: mouse.Point{X: 1, Y: 1}, Modifiers: key.ModShift, At: stamp}
		if len(got) != 1 || got[0] != want {
			t.Errorf("Translate(%v) = %+v, want %+v", tt.mask, got, want)
		}
	}
}

func TestTranslateFocusAndResize(t *testing.T) {
	tr := NewTranslator(fixed)
	tr.Translate(tcell.NewEventMouse(1, 1, tcell.Button1, tcell.ModNone))

	got := inputs(t, tr.Translate(tcell.NewEventFocus(false)))
	if len(got) != 1 || got[0] != (input.FocusEvent{Focused: false, At: stamp}) {
		t.Errorf("Translate(focus) = %+v", got)
	}
	// Focus loss forgets the held button, so the next press is a press.
	got = inputs(t, tr.Translate(tcell.NewEventMouse(1, 1, tcell.Button1, tcell.ModNone)))
	if len(got) != 1 || got[0].(input.PointerEvent).Action != input.PointerPress {
		t.Errorf("Translate(press after focus loss) = %+v", got)
	}

	ev := tr.Translate(tcell.NewEventResize(100, 40))
	if len(ev) != 1 || ev[0].Type != EventResize || ev[0].Width != 100 || ev[0].Height != 40 {
		t.Errorf("Translate(resize) = %+v", ev)
	}
	ev = tr.Translate(tcell.NewEventInterrupt("reload"))
	if len(ev) != 1 || ev[0].Type != EventInterrupt || ev[0].Data != "reload" {
		t.Errorf("Translate(interrupt) = %+v", ev)
	}
}

func TestTerminalSimulation(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalWithScreen(screen, fixed)
	if err := term.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer term.Shutdown()
	screen.SetSize(40, 10)

	if w, h := term.Size(); w != 40 || h != 10 {
		t.Errorf("Size() = %d,%d, want 40,10", w, h)
	}

	term.SetCell(2, 3, 'x', tcell.StyleDefault.Bold(true))
	term.Show()
	r, _, style, _ := screen.GetContent(2, 3) //nolint:staticcheck // GetContent is the correct API
	if r != 'x' || style != tcell.StyleDefault.Bold(true) {
		t.Errorf("cell = %q %v, want bold x", r, style)
	}

	screen.InjectKey(tcell.KeyUp, 0, tcell.ModNone)
	for {
		events := term.PollEvent()
		if events[0].Type == EventInput {
			want := input.KeyEvent{Code: key.Named(key.KeyUp), Pressed: true, At: stamp}
			if events[0].Input != want {
				t.Errorf("PollEvent() = %+v, want %+v", events[0].Input, want)
			}
			break
		}
	}

	term.Interrupt(42)
	for {
		events := term.PollEvent()
		if events[0].Type == EventInterrupt {
			if events[0].Data != 42 {
				t.Errorf("interrupt data = %v, want 42", events[0].Data)
			}
			break
		}
	}
}

func TestNullBackend(t *testing.T) {
	b := NewNullBackend(10, 2)
	b.SetCell(1, 0, 'a', tcell.StyleDefault.Reverse(true))
	b.SetCell(20, 0, 'z', tcell.StyleDefault)
	if got := b.Line(0); got != " a        " {
		t.Errorf("Line(0) = %q", got)
	}
	if b.StyleAt(1, 0) != tcell.StyleDefault.Reverse(true) {
		t.Error("StyleAt(1, 0) lost reverse")
	}

	b.Inject(Event{Type: EventResize, Width: 4, Height: 1})
	if w, h := b.Size(); w != 4 || h != 1 {
		t.Errorf("Size() after resize = %d,%d", w, h)
	}
	if ev := b.PollEvent(); len(ev) != 1 || ev[0].Type != EventResize {
		t.Errorf("PollEvent() = %+v", ev)
	}
	b.Shutdown()
	if ev := b.PollEvent(); ev[0].Type != EventClosed {
		t.Errorf("PollEvent() after Shutdown = %+v", ev)
	}
}
