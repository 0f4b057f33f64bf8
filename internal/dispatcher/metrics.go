package dispatcher

import (
	"sort"
	"sync"
	"time"

	"github.com/dshills/globenav/internal/input"
)

// Metrics collects dispatch statistics.
type Metrics struct {
	mu sync.RWMutex

	// Per-action metrics
	actionMetrics map[string]*ActionMetrics

	// Global counters
	events    uint64
	handled   uint64
	consumed  uint64
	unhandled uint64
	ticks     uint64
	panics    uint64
}

// ActionMetrics holds metrics for a specific action.
type ActionMetrics struct {
	Name        string
	Applied     uint64
	Panics      uint64
	LastApplied time.Time
}

// Snapshot is a copy of the metrics at one point in time.
type Snapshot struct {
	Events    uint64
	Handled   uint64
	Consumed  uint64
	Unhandled uint64
	Ticks     uint64
	Panics    uint64
	Actions   []ActionMetrics
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		actionMetrics: make(map[string]*ActionMetrics),
	}
}

// RecordEvent records the outcome of a discrete event.
func (m *Metrics) RecordEvent(outcome input.Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events++
	switch outcome {
	case input.Handled:
		m.handled++
	case input.Consumed:
		m.consumed++
	default:
		m.unhandled++
	}
}

// RecordTick records a generate mode frame tick.
func (m *Metrics) RecordTick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticks++
}

// RecordApply records an applied action.
func (m *Metrics) RecordApply(name string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	am := m.action(name)
	am.Applied++
	am.LastApplied = at
}

// RecordPanic records a panic recovered from a handler.
func (m *Metrics) RecordPanic(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.panics++
	m.action(name).Panics++
}

// action returns the metrics of name. Caller must hold the write lock.
func (m *Metrics) action(name string) *ActionMetrics {
	am := m.actionMetrics[name]
	if am == nil {
		am = &ActionMetrics{Name: name}
		m.actionMetrics[name] = am
	}
	return am
}

// Action returns a copy of the metrics of one action.
func (m *Metrics) Action(name string) (ActionMetrics, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	am, ok := m.actionMetrics[name]
	if !ok {
		return ActionMetrics{}, false
	}
	return *am, true
}

// Snapshot returns a copy of all counters, with actions sorted by
// application count, most applied first.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Snapshot{
		Events:    m.events,
		Handled:   m.handled,
		Consumed:  m.consumed,
		Unhandled: m.unhandled,
		Ticks:     m.ticks,
		Panics:    m.panics,
		Actions:   make([]ActionMetrics, 0, len(m.actionMetrics)),
	}
	for _, am := range m.actionMetrics {
		s.Actions = append(s.Actions, *am)
	}
	sort.Slice(s.Actions, func(i, j int) bool {
		if s.Actions[i].Applied != s.Actions[j].Applied {
			return s.Actions[i].Applied > s.Actions[j].Applied
		}
		return s.Actions[i].Name < s.Actions[j].Name
	})
	return s
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.actionMetrics = make(map[string]*ActionMetrics)
	m.events, m.handled, m.consumed, m.unhandled = 0, 0, 0, 0
	m.ticks, m.panics = 0, 0
}
