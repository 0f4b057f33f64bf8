package backend

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

// Terminal implements Backend using tcell for terminal output.
type Terminal struct {
	screen     tcell.Screen
	translator *Translator
	mu         sync.Mutex
}

// NewTerminal creates a new terminal backend on the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen, nil), nil
}

// NewTerminalWithScreen wraps an existing screen, such as a simulation
// screen. now stamps translated events; nil uses the tcell event time.
func NewTerminalWithScreen(screen tcell.Screen, now func() time.Time) *Terminal {
	return &Terminal{screen: screen, translator: NewTranslator(now)}
}

// Init implements Backend. Mouse and focus reporting are enabled.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse()
	t.screen.EnableFocus()
	t.screen.HideCursor()
	return nil
}

// Shutdown implements Backend.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

// Size implements Backend.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// SetCell implements Backend.
func (t *Terminal) SetCell(x, y int, r rune, style tcell.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(x, y, r, nil, style)
}

// Clear implements Backend.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

// Show implements Backend.
func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

// PollEvent implements Backend. Events that translate to nothing are
// skipped. It returns EventClosed once the screen is finalized.
func (t *Terminal) PollEvent() []Event {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return []Event{{Type: EventClosed}}
		}
		if out := t.translator.Translate(ev); len(out) > 0 {
			return out
		}
	}
}

// Interrupt implements Backend.
func (t *Terminal) Interrupt(data any) {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(data)) // best-effort; queue may be full
}
