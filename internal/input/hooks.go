package input

import (
	"sort"
	"sync"
)

// ListenerPriority defines the execution order for listeners.
// Lower values execute first.
type ListenerPriority int

const (
	// PriorityHighest runs before all other listeners.
	PriorityHighest ListenerPriority = -1000
	// PriorityHigh runs early in the chain.
	PriorityHigh ListenerPriority = -100
	// PriorityNormal is the default priority.
	PriorityNormal ListenerPriority = 0
	// PriorityLow runs late in the chain.
	PriorityLow ListenerPriority = 100
	// PriorityLowest runs after all other listeners.
	PriorityLowest ListenerPriority = 1000
)

// Listener sees events before the navigation engine. Returning Consumed
// claims the event; any other outcome lets it continue.
type Listener interface {
	OnEvent(ev Event) Outcome
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(ev Event) Outcome

// OnEvent implements Listener.
func (f ListenerFunc) OnEvent(ev Event) Outcome {
	return f(ev)
}

// ListenerID uniquely identifies a registered listener.
type ListenerID uint64

// ListenerRegistration holds metadata about a registered listener.
type ListenerRegistration struct {
	ID       ListenerID
	Name     string
	Priority ListenerPriority
	Listener Listener

	seq uint64
}

// Chain runs upstream listeners in priority order. Listeners with equal
// priority run in registration order.
type Chain struct {
	mu      sync.RWMutex
	regs    []ListenerRegistration
	nextID  ListenerID
	nextSeq uint64
	enabled bool
}

// NewChain creates an empty, enabled chain.
func NewChain() *Chain {
	return &Chain{enabled: true}
}

// Register adds a listener with default priority.
func (c *Chain) Register(l Listener) ListenerID {
	return c.RegisterWithOptions(l, "", PriorityNormal)
}

// RegisterWithOptions adds a listener with a name and priority. A non-empty
// name replaces any listener previously registered under it.
func (c *Chain) RegisterWithOptions(l Listener, name string, priority ListenerPriority) ListenerID {
	c.mu.Lock()
	defer c.mu.Unlock()

	if name != "" {
		c.removeLocked(func(r *ListenerRegistration) bool { return r.Name == name })
	}

	c.nextID++
	c.nextSeq++
	c.regs = append(c.regs, ListenerRegistration{
		ID:       c.nextID,
		Name:     name,
		Priority: priority,
		Listener: l,
		seq:      c.nextSeq,
	})
	sort.SliceStable(c.regs, func(i, j int) bool {
		if c.regs[i].Priority != c.regs[j].Priority {
			return c.regs[i].Priority < c.regs[j].Priority
		}
		return c.regs[i].seq < c.regs[j].seq
	})
	return c.nextID
}

// Unregister removes a listener by ID.
func (c *Chain) Unregister(id ListenerID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeLocked(func(r *ListenerRegistration) bool { return r.ID == id })
}

// UnregisterByName removes a listener by name.
func (c *Chain) UnregisterByName(name string) bool {
	if name == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeLocked(func(r *ListenerRegistration) bool { return r.Name == name })
}

func (c *Chain) removeLocked(match func(*ListenerRegistration) bool) bool {
	for i := range c.regs {
		if match(&c.regs[i]) {
			c.regs = append(c.regs[:i], c.regs[i+1:]...)
			return true
		}
	}
	return false
}

// SetEnabled enables or disables the whole chain.
func (c *Chain) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
}

// Count returns the number of registered listeners.
func (c *Chain) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.regs)
}

// List returns all registrations in execution order.
func (c *Chain) List() []ListenerRegistration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ListenerRegistration, len(c.regs))
	copy(out, c.regs)
	return out
}

// Run offers ev to each listener in order and returns Consumed as soon as
// one claims it. Otherwise it returns Unhandled.
func (c *Chain) Run(ev Event) Outcome {
	c.mu.RLock()
	if !c.enabled || len(c.regs) == 0 {
		c.mu.RUnlock()
		return Unhandled
	}
	listeners := make([]Listener, len(c.regs))
	for i := range c.regs {
		listeners[i] = c.regs[i].Listener
	}
	c.mu.RUnlock()

	for _, l := range listeners {
		if l.OnEvent(ev) == Consumed {
			return Consumed
		}
	}
	return Unhandled
}
