package dispatcher

import (
	"fmt"

	"github.com/dshills/globenav/internal/input/action"
	"github.com/dshills/globenav/internal/transform"
)

// Config holds engine configuration options.
type Config struct {
	// Settings are passed to every handler.
	Settings action.Settings

	// StopOnFocusLost performs a hard stop of the view when focus is lost.
	StopOnFocusLost bool

	// RecoverFromPanic wraps handler execution in panic recovery.
	RecoverFromPanic bool

	// EnableMetrics enables dispatch statistics.
	EnableMetrics bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Settings:         action.DefaultSettings(),
		StopOnFocusLost:  true,
		RecoverFromPanic: true,
		EnableMetrics:    true,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := transform.ValidateSlopeFactor(c.Settings.DragSlopeFactor); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// WithSmoothing returns a copy of the config with smoothing set.
func (c Config) WithSmoothing(enabled bool) Config {
	c.Settings.Smoothing = enabled
	return c
}

// WithHeadingLock returns a copy of the config with heading lock set.
func (c Config) WithHeadingLock(locked bool) Config {
	c.Settings.LockHeading = locked
	return c
}

// WithDragSlopeFactor returns a copy of the config with the damping
// coefficient set.
func (c Config) WithDragSlopeFactor(k float64) Config {
	c.Settings.DragSlopeFactor = k
	return c
}

// WithStopOnFocusLost returns a copy of the config with the focus loss stop set.
func (c Config) WithStopOnFocusLost(stop bool) Config {
	c.StopOnFocusLost = stop
	return c
}

// WithPanicRecovery returns a copy of the config with panic recovery set.
func (c Config) WithPanicRecovery(recover bool) Config {
	c.RecoverFromPanic = recover
	return c
}

// WithMetrics returns a copy of the config with metrics set.
func (c Config) WithMetrics(enabled bool) Config {
	c.EnableMetrics = enabled
	return c
}
