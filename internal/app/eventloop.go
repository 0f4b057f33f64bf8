package app

import (
	"context"
	"errors"
	"time"

	"github.com/dshills/globenav/internal/event"
	"github.com/dshills/globenav/internal/input"
	"github.com/dshills/globenav/internal/input/key"
	"github.com/dshills/globenav/internal/input/mouse"
	"github.com/dshills/globenav/internal/renderer"
	"github.com/dshills/globenav/internal/renderer/backend"
)

// pollsPerFrame is how often the loop polls the frame scheduler per
// frame interval. Polling more often than the interval keeps generate
// ticks from slipping a whole frame on timer jitter.
const pollsPerFrame = 4

// heldKey is a key seen pressed on a terminal that reports no releases.
type heldKey struct {
	seen time.Time
	mods key.Modifier
}

// Run drives the engine from b until ctx is cancelled, the user quits or
// the backend closes. A user quit returns nil.
func (app *Application) Run(ctx context.Context, b backend.Backend) error {
	if app.closed.Load() {
		return ErrClosed
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer b.Shutdown()

	app.hud = renderer.New(b)
	w, h := b.Size()
	app.resize(w, h)

	events := make(chan []backend.Event)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			evs := b.PollEvent()
			select {
			case events <- evs:
			case <-done:
				return
			}
			for _, ev := range evs {
				if ev.Type == backend.EventClosed {
					return
				}
			}
		}
	}()

	ticker := time.NewTicker(app.pollInterval())
	defer ticker.Stop()

	app.logger.Info("event loop started", "width", w, "height", h, "interval", app.frame.Interval())
	app.dirty = true
	app.flush()

	for {
		select {
		case <-ctx.Done():
			app.logger.Info("event loop stopped", "reason", ctx.Err())
			return ctx.Err()

		case evs := <-events:
			for _, ev := range evs {
				if err := app.handleBackendEvent(ev); err != nil {
					if errors.Is(err, ErrQuit) {
						app.logger.Info("event loop stopped", "reason", "quit")
						return nil
					}
					return err
				}
			}
			app.frame.Poll()

		case <-ticker.C:
			app.releaseStaleKeys(app.now())
			app.frame.Poll()

		case cfg := <-app.reloads:
			if app.applyConfig(cfg) == nil {
				ticker.Reset(app.pollInterval())
			}

		case err := <-app.reloadErrs:
			app.reportReloadError(err)
		}
		app.flush()
	}
}

func (app *Application) pollInterval() time.Duration {
	d := app.frame.Interval() / pollsPerFrame
	if d <= 0 {
		d = time.Millisecond
	}
	return d
}

// handleBackendEvent processes one backend event. It returns ErrQuit when
// the user asked to leave.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventInput:
		app.handleInput(ev.Input)
		if app.quit {
			return ErrQuit
		}
	case backend.EventResize:
		app.resize(ev.Width, ev.Height)
	case backend.EventClosed:
		return ErrQuit
	}
	return nil
}

// handleInput feeds ev to the engine. Terminal key presses repeat while a
// key is held and are never followed by a release; the press time is
// recorded so releaseStaleKeys can synthesise one.
func (app *Application) handleInput(ev input.Event) {
	switch e := ev.(type) {
	case input.KeyEvent:
		if e.Pressed {
			app.keys[e.Code] = heldKey{seen: e.At, mods: e.Modifiers}
		} else {
			delete(app.keys, e.Code)
		}
	case input.FocusEvent:
		if !e.Focused {
			clear(app.keys)
		}
		app.bus.Emit(event.TopicFocusChanged, event.FocusChanged{Focused: e.Focused}, "terminal")
	}
	out := app.engine.HandleEvent(ev)
	app.logger.Debug("input", "event", ev, "outcome", out)
}

// releaseStaleKeys releases every key that has not repeated within the
// configured release delay.
func (app *Application) releaseStaleKeys(now time.Time) {
	delay := app.config.Input.KeyReleaseDelay.Std()
	for code, k := range app.keys {
		if now.Sub(k.seen) < delay {
			continue
		}
		delete(app.keys, code)
		app.engine.HandleEvent(input.KeyEvent{Code: code, Pressed: false, Modifiers: k.mods, At: now})
	}
}

// quitListener consumes the quit keys before the engine sees them.
func (app *Application) quitListener(ev input.Event) input.Outcome {
	e, ok := ev.(input.KeyEvent)
	if !ok || !e.Pressed || !isQuitKey(e) {
		return input.Unhandled
	}
	app.quit = true
	return input.Consumed
}

func isQuitKey(e input.KeyEvent) bool {
	switch {
	case e.Code == key.Named(key.KeyEscape):
		return true
	case e.Code == key.Char('Q') && e.Modifiers.IsEmpty():
		return true
	case e.Code == key.Char('C') && e.Modifiers == key.ModCtrl:
		return true
	}
	return false
}

// resize fits the camera viewport to the globe area above the status line.
func (app *Application) resize(w, h int) {
	if h > 1 {
		h--
	}
	app.orbit.SetViewport(mouse.Rect{Width: w, Height: h})
	app.dirty = true
}

// flush publishes view changes and renders the HUD when something asked
// for a redraw.
func (app *Application) flush() {
	if app.viewDirty {
		app.viewDirty = false
		app.dirty = true
		app.bus.Emit(event.TopicViewChanged, app.viewChanged(), "view")
	}
	if !app.dirty || app.hud == nil {
		return
	}
	app.dirty = false
	app.hud.Render(renderer.Frame{
		Target:  app.orbit,
		Globe:   app.globe,
		Tracker: app.engine.Tracker(),
		Metrics: app.engine.Metrics().Snapshot(),
		Focused: app.engine.Focused(),
	})
}

func (app *Application) viewChanged() event.ViewChanged {
	zoom, _ := app.orbit.Zoom()
	return event.ViewChanged{
		Center:  app.orbit.CenterPosition(),
		Eye:     app.orbit.EyePosition(),
		Heading: app.orbit.Heading(),
		Pitch:   app.orbit.Pitch(),
		Roll:    app.orbit.Roll(),
		Zoom:    zoom,
	}
}
