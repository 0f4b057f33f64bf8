// Package renderer draws the navigation HUD on a character-cell backend.
//
// The HUD is a view of the engine, never an input to it: every frame it
// reads the camera, the held keys and buttons, and the dispatch metrics,
// and paints them together with a coarse ray-cast picture of the globe.
//
//	┌─────────────────────────────────────────┐
//	│ panel: camera │ held │ metrics          │
//	├─────────────────────────────────────────┤
//	│ globe: one ray per cell                 │
//	├─────────────────────────────────────────┤
//	│ status line                             │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	hud := renderer.New(term)
//	hud.Render(renderer.Frame{Target: orbit, Globe: globe, Tracker: engine.Tracker()})
package renderer
