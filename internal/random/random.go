// Package random provides the single injectable source of randomness used by
// the simulation. Every probabilistic branch (spawn chance, pattern choice,
// special events, particle spread) draws from a Source so tests can replay
// exact sequences.
package random

import (
	"math/rand"
	"sync"
)

// Source yields floats in [0, 1).
type Source interface {
	Float64() float64
}

// New returns a Source backed by math/rand seeded with seed.
func New(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// Sequence replays a fixed list of values, wrapping around at the end.
// An empty Sequence always returns 0.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	pos    int
}

// NewSequence creates a Sequence over values.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

// Float64 returns the next value in the sequence.
func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}

// Constant always returns the same value.
type Constant float64

// Float64 implements Source.
func (c Constant) Float64() float64 {
	return float64(c)
}

// Chance reports whether a Bernoulli trial with probability p succeeds.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	return src.Float64() < p
}

// Intn returns an int in [0, n). Returns 0 when n <= 0.
func Intn(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Range returns a float in [lo, hi).
func Range(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Sign returns -1 or 1 with equal probability.
func Sign(src Source) float64 {
	if src.Float64() < 0.5 {
		return -1
	}
	return 1
}
