package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/dshills/globenav/internal/dispatcher"
	"github.com/dshills/globenav/internal/geo"
	"github.com/dshills/globenav/internal/input/key"
	"github.com/dshills/globenav/internal/input/mouse"
	"github.com/dshills/globenav/internal/input/state"
	"github.com/dshills/globenav/internal/renderer/backend"
	"github.com/dshills/globenav/internal/view"
)

func testFrame(w, h int) (Frame, *view.Orbit) {
	globe := view.NewSphere(view.EarthRadius)
	orbit := view.NewOrbit(globe, view.OrbitState{
		Center: geo.Position{Lat: 12.5, Lon: -45.25},
		Zoom:   3 * view.EarthRadius,
	}, view.WithViewport(mouse.Rect{Width: w, Height: h}))
	tracker := state.NewTracker()
	tracker.Press(state.KeyCode(key.Named(key.KeyRight)), time.Now())
	tracker.Press(state.ButtonCode(mouse.ButtonLeft), time.Now())
	return Frame{
		Target:  orbit,
		Globe:   globe,
		Tracker: tracker,
		Metrics: dispatcher.Snapshot{
			Events: 7, Handled: 5, Ticks: 40,
			Actions: []dispatcher.ActionMetrics{{Name: "rotate", Applied: 2}, {Name: "horizontalTranslateKeys", Applied: 9}},
		},
		Focused: true,
	}, orbit
}

func screenText(b *backend.NullBackend, h int) string {
	var sb strings.Builder
	for y := 0; y < h; y++ {
		sb.WriteString(b.Line(y))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestRenderPanel(t *testing.T) {
	b := backend.NewNullBackend(100, 30)
	hud := New(b)
	f, _ := testFrame(100, 30)
	hud.Render(f)

	text := screenText(b, 30)
	for _, want := range []string{
		"lat 12.500000 lon -45.250000",
		"zoom 19113 km",
		"hdg 0.0 pitch 0.0 roll 0.0",
		"Right",
		"mouse-left",
		"events 7 handled 5 ticks 40 panics 0",
		"busiest horizontalTranslateKeys×9",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("screen missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "focus lost") {
		t.Error("focus warning shown while focused")
	}
	if b.Shows() != 1 || hud.Frames() != 1 {
		t.Errorf("shows = %d frames = %d, want 1/1", b.Shows(), hud.Frames())
	}
}

func TestRenderGlobe(t *testing.T) {
	b := backend.NewNullBackend(80, 24)
	hud := New(b, WithOptions(Options{ShowGlobe: true}))
	f, orbit := testFrame(80, 24)
	hud.Render(f)

	c := orbit.Viewport().Center()
	if got := []rune(b.Line(c.Y))[c.X]; got != '@' {
		t.Errorf("center cell = %q, want '@'", got)
	}
	if b.StyleAt(c.X, c.Y) != DefaultStyles().Center {
		t.Error("center cell style is not the center style")
	}
	// A globe three radii away fills the middle of the view but not the
	// corners.
	if got := []rune(b.Line(c.Y))[c.X+2]; got == ' ' {
		t.Error("cell next to the center is empty, want land or grid")
	}
	if got := []rune(b.Line(0))[0]; got != ' ' {
		t.Errorf("corner cell = %q, want sky", got)
	}
}

func TestRenderStatus(t *testing.T) {
	b := backend.NewNullBackend(60, 5)
	hud := New(b, WithOptions(Options{Help: "press q"}))
	f, _ := testFrame(60, 5)
	f.Focused = false

	hud.Render(f)
	if got := b.Line(4); !strings.HasPrefix(got, "press q") {
		t.Errorf("status line = %q, want help", got)
	}

	hud.SetStatus("config reloaded", StatusWarning)
	hud.Render(f)
	if got := b.Line(4); !strings.HasPrefix(got, "config reloaded") {
		t.Errorf("status line = %q, want message", got)
	}
	if b.StyleAt(59, 4) != DefaultStyles().Warning {
		t.Error("status line not filled with the warning style")
	}

	hud.ClearStatus()
	hud.Render(f)
	if got := b.Line(4); !strings.HasPrefix(got, "press q") {
		t.Errorf("status line after ClearStatus = %q", got)
	}
}

func TestRenderFocusLost(t *testing.T) {
	b := backend.NewNullBackend(60, 12)
	hud := New(b, WithOptions(Options{ShowPanel: true}))
	f, _ := testFrame(60, 12)
	f.Focused = false
	hud.Render(f)
	if !strings.Contains(screenText(b, 12), "focus lost") {
		t.Error("focus warning missing")
	}
}

func TestTextClips(t *testing.T) {
	b := backend.NewNullBackend(5, 1)
	hud := New(b)
	if next := hud.text(2, 0, 5, "abcdef", DefaultStyles().Value); next != 5 {
		t.Errorf("text() = %d, want 5", next)
	}
	if got := b.Line(0); got != "  abc" {
		t.Errorf("Line(0) = %q", got)
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		m    float64
		want string
	}{
		{950, "950 m"},
		{9999, "9999 m"},
		{12000, "12 km"},
		{12345, "12.3 km"},
	}
	for _, tt := range tests {
		if got := formatDistance(tt.m); got != tt.want {
			t.Errorf("formatDistance(%v) = %q, want %q", tt.m, got, tt.want)
		}
	}
}

func TestGridStep(t *testing.T) {
	globe := view.NewSphere(view.EarthRadius)
	far := view.NewOrbit(globe, view.OrbitState{Zoom: 3 * view.EarthRadius})
	near := view.NewOrbit(globe, view.OrbitState{Zoom: 1000})
	if gridStep(far, globe) <= gridStep(near, globe) {
		t.Errorf("gridStep(far) = %v, gridStep(near) = %v, want far coarser", gridStep(far, globe), gridStep(near, globe))
	}
	if !onGrid(30.01, 30, 0.02) || !onGrid(-29.99, 30, 0.02) || onGrid(15, 30, 0.02) {
		t.Error("onGrid tolerance wrong")
	}
}
