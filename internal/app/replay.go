package app

import (
	"context"

	"github.com/dshills/globenav/internal/logging"
	"github.com/dshills/globenav/internal/replay"
)

// Replay runs sc against a fresh engine on a virtual clock. It shares the
// bindings and scripts of the application but not its camera.
func (app *Application) Replay(ctx context.Context, sc *replay.Scenario) (*replay.Report, error) {
	if app.closed.Load() {
		return nil, ErrClosed
	}
	logger := logging.With(app.logger, "replay")
	rig, err := replay.NewRig(sc, app.registry, replay.RigConfig{
		Dispatcher: app.config.Dispatcher(),
		Interval:   app.config.Input.FrameInterval.Std(),
		Radius:     app.config.View.Radius,
		View:       app.config.OrbitState(),
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	return rig.Run(ctx, sc, replay.WithLogger(logger))
}
