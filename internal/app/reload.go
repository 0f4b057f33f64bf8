package app

import (
	"github.com/dshills/globenav/internal/config"
	"github.com/dshills/globenav/internal/event"
	"github.com/dshills/globenav/internal/renderer"
)

// queueReload hands a reloaded config to the event loop. Only the newest
// pending config is kept.
func (app *Application) queueReload(cfg *config.Config) {
	for {
		select {
		case app.reloads <- cfg:
			return
		default:
		}
		select {
		case <-app.reloads:
		default:
		}
	}
}

// queueReloadError hands a failed reload to the event loop.
func (app *Application) queueReloadError(err error) {
	select {
	case app.reloadErrs <- err:
	default:
	}
}

// applyConfig swaps in the bindings, scripts and toggles of cfg. The log
// settings and the initial view only apply at startup. On error the
// running configuration is kept.
func (app *Application) applyConfig(cfg *config.Config) error {
	registry, scripts, err := app.buildRegistry(cfg)
	if err != nil {
		app.reportReloadError(err)
		return err
	}
	if err := app.engine.SetConfig(cfg.Dispatcher()); err != nil {
		closeScripts(scripts)
		app.reportReloadError(err)
		return err
	}
	if err := app.engine.SetRegistry(registry); err != nil {
		closeScripts(scripts)
		app.reportReloadError(err)
		return err
	}
	app.frame.SetInterval(cfg.Input.FrameInterval.Std())

	old := app.scripts
	app.registry, app.scripts, app.config = registry, scripts, cfg
	closeScripts(old)

	app.logger.Info("config applied", "path", cfg.Path, "scripts", len(scripts))
	if app.hud != nil {
		app.hud.SetStatus("config reloaded", renderer.StatusInfo)
	}
	app.dirty = true
	app.bus.Emit(event.TopicConfigReloaded, event.ConfigReloaded{Path: cfg.Path}, "config")
	return nil
}

// reportReloadError keeps the running configuration and tells the user.
func (app *Application) reportReloadError(err error) {
	app.logger.Warn("config rejected", "error", err)
	if app.hud != nil {
		app.hud.SetStatus("config rejected: "+err.Error(), renderer.StatusError)
	}
	app.dirty = true
	app.bus.Emit(event.TopicConfigReloaded, event.ConfigReloaded{Path: app.opts.ConfigPath, Err: err}, "config")
}
