// Package backend adapts a display surface for the HUD and translates its
// input into engine events.
package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/globenav/internal/input"
)

// EventType identifies the kind of backend event.
type EventType int

const (
	EventNone EventType = iota
	// EventInput carries an engine input event.
	EventInput
	// EventResize reports new surface dimensions.
	EventResize
	// EventInterrupt wakes the event loop with Data.
	EventInterrupt
	// EventClosed means the surface is gone; no more events follow.
	EventClosed
)

// Event is one backend event.
type Event struct {
	Type EventType

	// Input is set for EventInput.
	Input input.Event

	// Width and Height are set for EventResize.
	Width, Height int

	// Data is set for EventInterrupt.
	Data any
}

// Backend is a character-cell display with an input queue.
type Backend interface {
	// Init prepares the surface. It must be called before anything else.
	Init() error

	// Shutdown restores the terminal.
	Shutdown()

	// Size returns the surface dimensions in cells.
	Size() (width, height int)

	// SetCell draws r at x, y. Positions outside the surface are ignored.
	SetCell(x, y int, r rune, style tcell.Style)

	// Clear blanks the surface.
	Clear()

	// Show flushes pending changes to the display.
	Show()

	// PollEvent blocks until the next batch of events. One terminal event
	// may translate to several engine events, e.g. a release and a press.
	PollEvent() []Event

	// Interrupt wakes PollEvent with an EventInterrupt carrying data.
	Interrupt(data any)
}

// NullBackend is an in-memory Backend for tests.
type NullBackend struct {
	mu            sync.Mutex
	width, height int
	runes         [][]rune
	styles        [][]tcell.Style
	shows         int
	events        chan []Event
}

// NewNullBackend creates a null backend of the given size.
func NewNullBackend(width, height int) *NullBackend {
	b := &NullBackend{events: make(chan []Event, 64)}
	b.resize(width, height)
	return b
}

func (b *NullBackend) resize(width, height int) {
	b.width, b.height = width, height
	b.runes = make([][]rune, height)
	b.styles = make([][]tcell.Style, height)
	for y := range b.runes {
		b.runes[y] = make([]rune, width)
		b.styles[y] = make([]tcell.Style, width)
		for x := range b.runes[y] {
			b.runes[y][x] = ' '
		}
	}
}

// Init implements Backend.
func (b *NullBackend) Init() error { return nil }

// Shutdown implements Backend. It closes the event queue.
func (b *NullBackend) Shutdown() {
	b.events <- []Event{{Type: EventClosed}}
}

// Size implements Backend.
func (b *NullBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

// SetCell implements Backend.
func (b *NullBackend) SetCell(x, y int, r rune, style tcell.Style) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	b.runes[y][x] = r
	b.styles[y][x] = style
}

// Clear implements Backend.
func (b *NullBackend) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resize(b.width, b.height)
}

// Show implements Backend.
func (b *NullBackend) Show() {
	b.mu.Lock()
	b.shows++
	b.mu.Unlock()
}

// Shows returns how many times Show was called.
func (b *NullBackend) Shows() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shows
}

// PollEvent implements Backend.
func (b *NullBackend) PollEvent() []Event {
	return <-b.events
}

// Interrupt implements Backend.
func (b *NullBackend) Interrupt(data any) {
	b.events <- []Event{{Type: EventInterrupt, Data: data}}
}

// Inject queues events for PollEvent. A resize event also resizes the
// surface.
func (b *NullBackend) Inject(events ...Event) {
	for _, ev := range events {
		if ev.Type == EventResize {
			b.mu.Lock()
			b.resize(ev.Width, ev.Height)
			b.mu.Unlock()
		}
	}
	b.events <- events
}

// Line returns row y as a string.
func (b *NullBackend) Line(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y < 0 || y >= b.height {
		return ""
	}
	return string(b.runes[y])
}

// StyleAt returns the style of the cell at x, y.
func (b *NullBackend) StyleAt(x, y int) tcell.Style {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return tcell.StyleDefault
	}
	return b.styles[y][x]
}
