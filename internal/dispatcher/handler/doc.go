// Package handler provides the default strategies for every camera control
// verb.
//
// Each strategy implements action.Handler with a pure Compute step, which
// reads held keys, pointer motion or the wheel amount and returns a raw
// Magnitude, and an Apply step, which runs only in generate mode:
//
//   - MoveTo: animate the center to the ground position picked at press,
//     usually on a click
//   - HorizontalTranslate: pan tangent to the surface
//   - VerticalTranslate: change zoom on a logarithmic scale
//   - Rotate: change heading and pitch
//   - Roll: change roll
//   - Reset: ResetHeading, ResetHeadingPitchRoll and ResetRoll
//   - StopView: hard stop of every animation and smoothing channel
//
// Translate, rotate and roll stop any go-to or reset animation before they
// move the target.
//
// Defaults returns the verb table used by the default key map.
package handler
