// Package random provides the uniform source every game roll draws from.
//
// Every chance and pick in the engine goes through a Source so that tests can
// script exact outcomes and a configured seed reproduces a whole session.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
)

// Source yields uniformly distributed values in [0, 1).
type Source interface {
	Float64() float64
}

// Chance reports whether an event with probability p happens.
// p <= 0 never happens and p >= 1 always does.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Flip is a fair coin.
func Flip(src Source) bool {
	return Chance(src, .5)
}

// IntRange returns an integer in [lo, hi], both inclusive.
func IntRange(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	n := lo + int(src.Float64()*float64(hi-lo+1))
	if n > hi {
		return hi
	}
	return n
}

// Index returns an integer in [0, n). It returns 0 when n <= 1.
func Index(src Source, n int) int {
	if n <= 1 {
		return 0
	}
	return IntRange(src, 0, n-1)
}

// Round rounds half away from zero, the rounding used by every game formula.
func Round(v float64) int {
	return int(math.Round(v))
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
