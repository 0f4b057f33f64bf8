// Package app wires the navigation engine to its configuration, a
// terminal front end and the replay runner.
package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/globenav/internal/config"
	"github.com/dshills/globenav/internal/dispatcher"
	"github.com/dshills/globenav/internal/dispatcher/handler"
	"github.com/dshills/globenav/internal/event"
	"github.com/dshills/globenav/internal/input"
	"github.com/dshills/globenav/internal/input/key"
	"github.com/dshills/globenav/internal/input/keymap"
	"github.com/dshills/globenav/internal/logging"
	"github.com/dshills/globenav/internal/plugin/lua"
	"github.com/dshills/globenav/internal/renderer"
	"github.com/dshills/globenav/internal/scheduler"
	"github.com/dshills/globenav/internal/view"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the TOML or YAML settings file. Empty uses defaults.
	ConfigPath string

	// Debug forces the debug log level.
	Debug bool

	// Watch reloads the config file when it changes.
	Watch bool

	// Environ overrides os.Environ for GLOBENAV_ variables.
	Environ []string

	// LogOutput receives the log when no log file is configured. Nil
	// discards it.
	LogOutput io.Writer

	// Now overrides time.Now.
	Now func() time.Time
}

// Application is the main application structure.
type Application struct {
	opts   Options
	now    func() time.Time
	logger *slog.Logger
	logOut io.Closer

	bus      *event.Bus
	config   *config.Config
	globe    *view.Sphere
	orbit    *view.Orbit
	registry *keymap.Registry
	scripts  []*lua.Strategy
	chain    *input.Chain
	engine   *dispatcher.Engine
	frame    *scheduler.Frame
	watcher  *config.Watcher

	// Interactive state, owned by the event loop.
	hud       *renderer.HUD
	keys      map[key.Code]heldKey
	dirty     bool
	viewDirty bool
	quit      bool

	reloads    chan *config.Config
	reloadErrs chan error

	running   atomic.Bool
	closed    atomic.Bool
	closeOnce sync.Once
}

// New creates and bootstraps an application.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:       opts,
		now:        opts.Now,
		keys:       make(map[key.Code]heldKey),
		reloads:    make(chan *config.Config, 1),
		reloadErrs: make(chan error, 1),
	}
	if app.now == nil {
		app.now = time.Now
	}
	if err := app.bootstrap(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// bootstrap creates the components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config and logging. The log level and file come from the config.
	environ := app.opts.Environ
	if environ == nil {
		environ = os.Environ()
	}
	cfg, err := config.LoadWithEnv(app.opts.ConfigPath, environ)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.config = cfg
	if err := app.configureLogging(cfg); err != nil {
		return &InitError{Component: "logging", Err: err}
	}

	// 2. Event bus
	app.bus = event.NewBus(event.WithLogger(logging.With(app.logger, "bus")))
	if _, err := app.bus.Subscribe(event.TopicRedrawRequested, func(event.Event) { app.dirty = true }); err != nil {
		return &InitError{Component: "bus", Err: err}
	}

	// 3. Globe and view
	app.globe = view.NewSphere(cfg.View.Radius)
	app.orbit = view.NewOrbit(app.globe, cfg.OrbitState())
	app.orbit.OnChange(func() { app.viewDirty = true })

	// 4. Registry, overrides and scripts
	registry, scripts, err := app.buildRegistry(cfg)
	if err != nil {
		return &InitError{Component: "registry", Err: err}
	}
	app.registry, app.scripts = registry, scripts

	// 5. Engine
	app.chain = input.NewChain()
	app.chain.RegisterWithOptions(input.ListenerFunc(app.quitListener), "quit", input.PriorityHighest)
	app.engine, err = dispatcher.New(app.registry, app.orbit,
		dispatcher.WithConfig(cfg.Dispatcher()),
		dispatcher.WithGlobe(app.globe),
		dispatcher.WithChain(app.chain),
		dispatcher.WithClock(app.now),
		dispatcher.WithLogger(logging.With(app.logger, "engine")),
		dispatcher.WithRedraw(app.redrawRequester("engine")),
	)
	if err != nil {
		return &InitError{Component: "engine", Err: err}
	}

	// 6. Scheduler
	app.frame = scheduler.New(app.engine,
		scheduler.WithInterval(cfg.Input.FrameInterval.Std()),
		scheduler.WithClock(app.now),
		scheduler.WithRedraw(app.redrawRequester("frame")),
	)

	// 7. Watcher
	if app.opts.Watch && app.opts.ConfigPath != "" {
		app.watcher, err = config.NewWatcher(app.opts.ConfigPath, app.queueReload,
			config.WithErrorHandler(app.queueReloadError),
			config.WithWatcherLogger(logging.With(app.logger, "config")),
		)
		if err != nil {
			// Hot reload is optional.
			app.logger.Warn("config watcher unavailable", "path", app.opts.ConfigPath, "error", err)
		}
	}

	app.logger.Info("application ready",
		"config", cfg.Path,
		"platform", cfg.Input.Platform,
		"scripts", len(app.scripts),
	)
	return nil
}

// newLogger builds a logger writing to the configured output.
func (app *Application) newLogger(lc *logging.Config) *slog.Logger {
	if app.opts.LogOutput == nil {
		return logging.Discard()
	}
	lc.Output = app.opts.LogOutput
	return logging.New(lc)
}

// configureLogging rebuilds the logger from cfg. A log file takes
// precedence over Options.LogOutput.
func (app *Application) configureLogging(cfg *config.Config) error {
	lc := cfg.Logging(app.opts.Debug)
	if cfg.Log.File == "" {
		app.logger = app.newLogger(lc)
		return nil
	}
	f, err := logging.OpenFile(cfg.Log.File)
	if err != nil {
		return err
	}
	app.logOut = f
	lc.Output = f
	app.logger = logging.New(lc)
	return nil
}

// buildRegistry creates the bindings for cfg and replaces the handlers of
// scripted actions. The previous handler becomes the script's fallback.
func (app *Application) buildRegistry(cfg *config.Config) (*keymap.Registry, []*lua.Strategy, error) {
	registry, err := cfg.Registry(handler.Defaults())
	if err != nil {
		return nil, nil, err
	}

	var scripts []*lua.Strategy
	for _, sc := range cfg.Scripts {
		spec, ok := registry.Lookup(sc.Device, sc.Action)
		if !ok {
			closeScripts(scripts)
			return nil, nil, fmt.Errorf("script %s: %w: %s/%s", sc.Path, keymap.ErrActionNotRegistered, sc.Device, sc.Action)
		}
		s, err := lua.LoadStrategy(sc.Path,
			lua.WithFallback(spec.Handler),
			lua.WithLogger(logging.With(app.logger, "lua")),
		)
		if err != nil {
			closeScripts(scripts)
			return nil, nil, err
		}
		scripts = append(scripts, s)
		if err := registry.OverrideHandler(sc.Device, sc.Action, s); err != nil {
			closeScripts(scripts)
			return nil, nil, err
		}
		app.logger.Debug("strategy loaded", "device", sc.Device, "action", sc.Action, "path", sc.Path)
	}
	return registry, scripts, nil
}

func closeScripts(scripts []*lua.Strategy) {
	for _, s := range scripts {
		s.Close()
	}
}

// redrawRequester returns a redraw callback publishing on the bus.
func (app *Application) redrawRequester(reason string) func() {
	return func() {
		app.bus.Emit(event.TopicRedrawRequested, event.RedrawRequested{Reason: reason}, reason)
	}
}

// Logger returns the application logger.
func (app *Application) Logger() *slog.Logger { return app.logger }

// Bus returns the event bus.
func (app *Application) Bus() *event.Bus { return app.bus }

// Config returns the active configuration.
func (app *Application) Config() *config.Config { return app.config }

// Engine returns the dispatch engine.
func (app *Application) Engine() *dispatcher.Engine { return app.engine }

// Frame returns the frame scheduler.
func (app *Application) Frame() *scheduler.Frame { return app.frame }

// Orbit returns the camera.
func (app *Application) Orbit() *view.Orbit { return app.orbit }

// IsRunning returns true if the event loop is running.
func (app *Application) IsRunning() bool { return app.running.Load() }

// Close releases the watcher, the scripts and the log file. It is safe to
// call more than once.
func (app *Application) Close() error {
	var errs []error
	app.closeOnce.Do(func() {
		app.closed.Store(true)
		if app.watcher != nil {
			errs = append(errs, app.watcher.Close())
		}
		closeScripts(app.scripts)
		app.scripts = nil
		if app.logger != nil {
			app.logger.Info("application closed")
		}
		if app.logOut != nil {
			errs = append(errs, app.logOut.Close())
		}
	})
	return errors.Join(errs...)
}
