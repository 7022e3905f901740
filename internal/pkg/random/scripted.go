package random

import "sync"

// Scripted replays a fixed list of values. Once the list is exhausted the
// last value repeats, so a script of one value pins every roll.
type Scripted struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewScripted creates a source replaying values in order.
// With no values it always returns 0.
func NewScripted(values ...float64) *Scripted {
	return &Scripted{values: values}
}

// Float64 returns the next scripted value.
func (s *Scripted) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.values) == 0 {
		return 0
	}
	if s.next >= len(s.values) {
		return s.values[len(s.values)-1]
	}
	v := s.values[s.next]
	s.next++
	return v
}

// Drawn returns how many scripted values have been consumed.
func (s *Scripted) Drawn() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.next
}
