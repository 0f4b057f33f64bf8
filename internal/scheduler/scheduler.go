// Package scheduler drives the dispatch engine's frame ticks.
//
// Frame alternates between applying held actions at a fixed interval and
// cheaply asking, in between, whether a redraw would be useful. A front
// end either calls Poll from its own loop after every event and paint, or
// lets Run poll on a ticker.
package scheduler

import (
	"context"
	"time"

	"github.com/dshills/globenav/internal/input"
)

// DefaultInterval is the minimum time between two applying ticks.
const DefaultInterval = 35 * time.Millisecond

// Ticker evaluates one frame tick. It is implemented by dispatcher.Engine.
type Ticker interface {
	Tick(mode input.Mode) bool
}

// Clock returns the current time.
type Clock func() time.Time

// Frame schedules frame ticks.
type Frame struct {
	ticker   Ticker
	interval time.Duration
	clock    Clock
	redraw   func()
	lastTick time.Time
}

// Option configures a Frame.
type Option func(*Frame)

// WithInterval sets the applying tick interval. Non-positive values are
// ignored.
func WithInterval(d time.Duration) Option {
	return func(f *Frame) {
		if d > 0 {
			f.interval = d
		}
	}
}

// WithClock sets the time source.
func WithClock(c Clock) Option {
	return func(f *Frame) {
		if c != nil {
			f.clock = c
		}
	}
}

// WithRedraw sets the redraw request callback.
func WithRedraw(fn func()) Option {
	return func(f *Frame) { f.redraw = fn }
}

// New creates a frame scheduler for t.
func New(t Ticker, opts ...Option) *Frame {
	f := &Frame{
		ticker:   t,
		interval: DefaultInterval,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Interval returns the applying tick interval.
func (f *Frame) Interval() time.Duration { return f.interval }

// SetInterval changes the applying tick interval. Non-positive values are
// ignored.
func (f *Frame) SetInterval(d time.Duration) {
	if d > 0 {
		f.interval = d
	}
}

// LastTick returns the time of the last applying tick.
func (f *Frame) LastTick() time.Time { return f.lastTick }

// Poll runs one frame. When the interval has elapsed since the last
// applying tick it applies held actions and always requests a redraw;
// otherwise it queries and requests a redraw only if something would
// change. It returns whether a redraw was requested.
func (f *Frame) Poll() bool {
	now := f.clock()
	if now.Sub(f.lastTick) >= f.interval {
		f.ticker.Tick(input.ModeGenerate)
		f.lastTick = now
		f.requestRedraw()
		return true
	}
	if f.ticker.Tick(input.ModeQuery) {
		f.requestRedraw()
		return true
	}
	return false
}

// Run polls on a time.Ticker at the configured interval until ctx is
// cancelled. Poll must not be called concurrently with Run.
func (f *Frame) Run(ctx context.Context) error {
	t := time.NewTicker(f.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			f.Poll()
		}
	}
}

func (f *Frame) requestRedraw() {
	if f.redraw != nil {
		f.redraw()
	}
}
