// Package key provides the keyboard vocabulary of the navigation engine.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Key: Identifies a named key (arrows, paging keys, keypad, function keys)
//   - Code: A comparable key identity, either a named Key or a character
//   - Modifier: A bitset of held modifier keys (Shift, Ctrl, Alt, Meta)
//
// # Modifier Combinations
//
// Action bindings are keyed by a modifier combination. Dispatch walks
// Combinations in a fixed priority order, compound combinations first and
// the empty combination last. A combination matches a held mask when all of
// its bits are present in the mask, so holding Alt+Shift matches Alt|Shift,
// Shift, Alt and None in that order.
//
// # Code Specifications
//
// Codes can be written as key names ("Left", "PageUp", "KP+") or as single
// characters ("n", "=", "-"). Letters are case-insensitive and stored
// upper-case.
package key
