// Package dispatcher provides the trigger engine that turns raw input
// events and frame ticks into camera control actions.
//
// The engine is the single place where input meets the keymap registry:
//
//	Event -> Chain -> Tracker/Anchor -> Registry lookup -> Handler -> Target
//
// # Architecture
//
// The engine consists of:
//   - Engine: owns the device state, the pointer anchor and the smoother
//   - Config: engine-wide toggles (smoothing, heading lock, stop on focus
//     loss, panic recovery, metrics)
//   - Metrics: dispatch statistics for diagnostics
//
// # Discrete events
//
// HandleEvent records the event in the device state, then walks the
// modifier combinations matched by the device's modifier mask in priority
// order (see key.Combinations). Every spec in a matching combination whose
// trigger equals the event's trigger is evaluated; the walk stops after
// the first combination in which a spec reported Handled.
//
// # Frame ticks
//
// Tick evaluates the Held specs of the keyboard and the pointer. Unlike
// discrete events, only the first matching combination is considered, and
// a device with nothing down is skipped. In query mode nothing is mutated:
// the return value only says whether a redraw would be useful.
//
// # Thread Safety
//
// The engine is not safe for concurrent use. It is owned by the event
// loop; configuration changes from other goroutines must be posted to the
// loop. The registry it reads is safe for concurrent use.
package dispatcher
