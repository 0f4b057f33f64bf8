package renderer

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/globenav/internal/dispatcher"
	"github.com/dshills/globenav/internal/input/mouse"
	"github.com/dshills/globenav/internal/input/state"
	"github.com/dshills/globenav/internal/renderer/backend"
	"github.com/dshills/globenav/internal/view"
)

// DefaultHelp is the status line text when there is no status message.
const DefaultHelp = "arrows pan  shift+arrows rotate  pgup/pgdn zoom  n north  r reset  space stop  q quit"

// gridSteps are the candidate graticule spacings in degrees.
var gridSteps = [...]float64{30, 15, 10, 5, 2, 1, 0.5, 0.2, 0.1, 0.05, 0.01}

// minGridCells is the minimum spacing between graticule lines in cells.
const minGridCells = 6

// Frame is the state drawn by one Render call.
type Frame struct {
	Target  view.Target
	Globe   view.Globe
	Tracker *state.Tracker
	Metrics dispatcher.Snapshot
	Focused bool
}

// Options configures the HUD.
type Options struct {
	ShowGlobe   bool
	ShowPanel   bool
	ShowMetrics bool
	Help        string
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		ShowGlobe:   true,
		ShowPanel:   true,
		ShowMetrics: true,
		Help:        DefaultHelp,
	}
}

// Option configures a HUD.
type Option func(*HUD)

// WithOptions replaces the display options.
func WithOptions(o Options) Option {
	return func(h *HUD) { h.opts = o }
}

// WithStyles replaces the palette.
func WithStyles(s Styles) Option {
	return func(h *HUD) { h.styles = s }
}

// HUD paints camera state, held input and metrics on a backend.
type HUD struct {
	backend backend.Backend
	opts    Options
	styles  Styles

	mu          sync.Mutex
	status      string
	statusLevel StatusLevel
	frames      uint64
}

// New creates a HUD drawing on b.
func New(b backend.Backend, opts ...Option) *HUD {
	h := &HUD{
		backend: b,
		opts:    DefaultOptions(),
		styles:  DefaultStyles(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SetStatus shows msg on the status line until the next SetStatus. It is
// safe to call from any goroutine.
func (h *HUD) SetStatus(msg string, level StatusLevel) {
	h.mu.Lock()
	h.status, h.statusLevel = msg, level
	h.mu.Unlock()
}

// ClearStatus restores the help text.
func (h *HUD) ClearStatus() {
	h.SetStatus("", StatusInfo)
}

// Frames returns how many frames were rendered.
func (h *HUD) Frames() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}

// Render draws f and flushes the backend.
func (h *HUD) Render(f Frame) {
	h.backend.Clear()
	w, ht := h.backend.Size()
	if w <= 0 || ht <= 0 {
		return
	}

	if h.opts.ShowGlobe && f.Target != nil && f.Globe != nil {
		h.renderGlobe(f, w, ht-1)
	}
	if h.opts.ShowPanel {
		h.renderPanel(f, w)
	}
	h.renderStatus(w, ht-1)
	h.backend.Show()

	h.mu.Lock()
	h.frames++
	h.mu.Unlock()
}

// renderGlobe casts one ray per cell. The viewport of the target is
// expected to match the backend size.
func (h *HUD) renderGlobe(f Frame, w, rows int) {
	vp := f.Target.Viewport()
	step := gridStep(f.Target, f.Globe)
	tol := cellDegrees(f.Target, f.Globe) / 2

	for y := 0; y < rows; y++ {
		for x := 0; x < w; x++ {
			p := mouse.Point{X: vp.X + x, Y: vp.Y + y}
			hit, ok := f.Globe.Intersect(f.Target.RayFromScreenPoint(p), 0)
			if !ok {
				continue
			}
			pos := f.Globe.PositionFromPoint(hit)
			if onGrid(pos.Lat, step, tol) || onGrid(pos.Lon, step, tol) {
				h.backend.SetCell(x, y, '+', h.styles.Grid)
			} else {
				h.backend.SetCell(x, y, '.', h.styles.Land)
			}
		}
	}

	c := vp.Center()
	if c.X-vp.X < w && c.Y-vp.Y < rows {
		h.backend.SetCell(c.X-vp.X, c.Y-vp.Y, '@', h.styles.Center)
	}
}

func (h *HUD) renderPanel(f Frame, w int) {
	row := 0
	line := func(parts ...string) {
		x := 0
		for i, p := range parts {
			style := h.styles.Label
			if i%2 == 1 {
				style = h.styles.Value
			}
			x = h.text(x, row, w, p, style)
			x = h.text(x, row, w, " ", h.styles.Panel)
		}
		row++
	}

	if f.Target != nil {
		center := f.Target.CenterPosition()
		eye := f.Target.EyePosition()
		line("lat", fmt.Sprintf("%.6f", center.Lat), "lon", fmt.Sprintf("%.6f", center.Lon))
		if z, ok := f.Target.Zoom(); ok {
			line("alt", formatDistance(eye.Elev), "zoom", formatDistance(z))
		} else {
			line("alt", formatDistance(eye.Elev))
		}
		line("hdg", fmt.Sprintf("%.1f", f.Target.Heading()),
			"pitch", fmt.Sprintf("%.1f", f.Target.Pitch()),
			"roll", fmt.Sprintf("%.1f", f.Target.Roll()))
	}

	if f.Tracker != nil {
		x := h.text(0, row, w, "held ", h.styles.Label)
		for _, name := range heldNames(f.Tracker) {
			x = h.text(x, row, w, name, h.styles.Held)
			x = h.text(x, row, w, " ", h.styles.Panel)
		}
		row++
	}

	if h.opts.ShowMetrics {
		m := f.Metrics
		line("events", fmt.Sprint(m.Events), "handled", fmt.Sprint(m.Handled),
			"ticks", fmt.Sprint(m.Ticks), "panics", fmt.Sprint(m.Panics))
		if top := topAction(m); top != "" {
			line("busiest", top)
		}
	}

	if !f.Focused {
		h.text(0, row, w, "focus lost", h.styles.Warning)
	}
}

func (h *HUD) renderStatus(w, row int) {
	h.mu.Lock()
	msg, level := h.status, h.statusLevel
	h.mu.Unlock()
	if msg == "" {
		msg, level = h.opts.Help, StatusInfo
	}

	style := h.styles.status(level)
	for x := 0; x < w; x++ {
		h.backend.SetCell(x, row, ' ', style)
	}
	h.text(0, row, w, msg, style)
}

// text draws s from x, clipped at w, and returns the next column.
func (h *HUD) text(x, y, w int, s string, style tcell.Style) int {
	for _, r := range s {
		if x >= w {
			break
		}
		h.backend.SetCell(x, y, r, style)
		x++
	}
	return x
}

// heldNames lists held keys and buttons in a stable order.
func heldNames(t *state.Tracker) []string {
	var names []string
	for _, c := range t.Held(state.KindKey) {
		names = append(names, c.Key.String())
	}
	for _, c := range t.Held(state.KindButton) {
		names = append(names, "mouse-"+c.Button.String())
	}
	sort.Strings(names)
	return names
}

// topAction returns the most applied action as "name×count".
func topAction(m dispatcher.Snapshot) string {
	var best dispatcher.ActionMetrics
	for _, a := range m.Actions {
		if a.Applied > best.Applied {
			best = a
		}
	}
	if best.Applied == 0 {
		return ""
	}
	return fmt.Sprintf("%s×%d", best.Name, best.Applied)
}

// cellDegrees is the approximate arc one cell covers at the view center.
func cellDegrees(t view.Target, g view.Globe) float64 {
	d := t.EyePoint().Sub(g.PointFromPosition(t.CenterPosition())).Len()
	size := t.PixelSizeAtDistance(d)
	if size <= 0 || g.Radius() <= 0 {
		return 0
	}
	return size / g.Radius() * 180 / math.Pi
}

// gridStep picks the finest graticule keeping lines minGridCells apart.
func gridStep(t view.Target, g view.Globe) float64 {
	cell := cellDegrees(t, g)
	for i := len(gridSteps) - 1; i >= 0; i-- {
		if gridSteps[i] >= minGridCells*cell {
			return gridSteps[i]
		}
	}
	return gridSteps[0]
}

func onGrid(deg, step, tol float64) bool {
	r := math.Mod(math.Abs(deg), step)
	return r <= tol || step-r <= tol
}

// formatDistance prints meters, switching to kilometers above 10 km.
func formatDistance(m float64) string {
	if math.Abs(m) >= 10000 {
		return strings.TrimSuffix(fmt.Sprintf("%.1f", m/1000), ".0") + " km"
	}
	return fmt.Sprintf("%.0f m", m)
}
