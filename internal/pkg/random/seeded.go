package random

import (
	"math/rand"
	"sync"
)

// Seeded wraps math/rand.Rand so it can be shared.
// It is safe for concurrent use; sessions running in parallel share one stream.
type Seeded struct {
	mu  sync.Mutex
	src *rand.Rand
}

// NewSeeded creates a deterministic source from a seed.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{src: rand.New(rand.NewSource(seed))}
}

// Float64 returns the next value in [0, 1).
func (s *Seeded) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.src.Float64()
}
