// Package keymap provides the attribute registry: per device sensitivity
// and the ordered action lists keyed by (device, modifier combination).
//
// # Key Concepts
//
// Spec: A configured control action (see package action). Its name
// identifies it within a device; slow variants derived with
// DeriveScaledVariant share the name of the spec they come from.
//
// Registry: Holds the specs. Lists are kept in registration order, which
// is the order the dispatcher evaluates them in.
//
// # Defaults
//
// Default builds a fresh registry with the built-in bindings: arrow keys
// pan, +/- zoom, PageUp/PageDown tilt, Shift+arrows rotate, Ctrl+arrows
// roll or zoom, N and R reset, Space stops. Holding Alt selects the slow
// variant of most actions. Default never shares state between calls.
//
// # Overrides
//
// Override describes a user change to one action in a serializable form.
// LoadOverrides reads a list of them from TOML, YAML or JSON, and
// ApplyOverrides merges them into a registry atomically per action.
//
// # Thread Safety
//
// Registry is safe for concurrent use. The dispatcher reads it on the
// event loop while configuration reloads write it from a watcher
// goroutine.
package keymap
