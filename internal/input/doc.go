// Package input defines the raw input vocabulary shared by the navigation
// engine: devices, trigger kinds, evaluation modes, dispatch outcomes and
// the sealed Event variant delivered by front ends.
//
// # Events
//
// Event is a closed set of four cases:
//
//   - KeyEvent: a key press or release with the held modifier mask
//   - PointerEvent: a button press, release, move or drag at a screen point
//   - WheelEvent: a wheel rotation amount
//   - FocusEvent: the view gaining or losing input focus
//
// Consumers dispatch with a single type switch.
//
// # Outcomes
//
// Every stage of dispatch returns an Outcome rather than mutating a shared
// flag. Unhandled lets the event continue; Handled means an action acted on
// it; Consumed means an upstream listener claimed it and no further
// dispatch may occur.
//
// # Listener Chain
//
// Chain holds upstream listeners that see each event before the engine.
// Listeners run in priority order and the first one to return Consumed
// stops the chain.
package input
