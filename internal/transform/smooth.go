package transform

// Smooth returns c*prev + (1-c)*target.
func Smooth(c, prev, target float64) float64 {
	return c*prev + (1-c)*target
}

// Smoother remembers the last applied value per named channel so that
// successive changes can be exponentially smoothed. The zero value is ready
// to use. Smoother is not safe for concurrent use; it is owned by the
// dispatch loop.
type Smoother struct {
	values map[string]float64
}

// NewSmoother creates an empty smoother.
func NewSmoother() *Smoother {
	return &Smoother{values: make(map[string]float64)}
}

// Next smooths target against the channel's previous value with coefficient
// c, records the result and returns it.
func (s *Smoother) Next(channel string, c, target float64) float64 {
	if s.values == nil {
		s.values = make(map[string]float64)
	}
	v := Smooth(c, s.values[channel], target)
	s.values[channel] = v
	return v
}

// Peek returns what Next would return without recording it.
func (s *Smoother) Peek(channel string, c, target float64) float64 {
	return Smooth(c, s.values[channel], target)
}

// Value returns the channel's last recorded value.
func (s *Smoother) Value(channel string) float64 {
	return s.values[channel]
}

// Reset zeroes every channel.
func (s *Smoother) Reset() {
	clear(s.values)
}
