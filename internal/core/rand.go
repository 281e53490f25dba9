package core

import "math/rand"

// Rand is the random source threaded through attack generation and random
// events. Injecting it keeps a seeded run replayable.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// NewRand returns a seeded math/rand source.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

// Uniform returns a value in [lo, hi) drawn from r.
func Uniform(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// Chance reports whether a roll against p succeeds.
// p <= 0 never succeeds and p >= 1 always succeeds without consuming a roll.
func Chance(r Rand, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.Float64() < p
}

// FixedRand replays a fixed sequence of Float64 values, cycling when the
// script is exhausted. Intn maps the next value onto [0, n).
type FixedRand struct {
	values []float64
	pos    int
}

// NewFixedRand creates a fixed script. An empty script always yields 0.
func NewFixedRand(values ...float64) *FixedRand {
	return &FixedRand{values: values}
}

// Float64 returns the next scripted value.
func (s *FixedRand) Float64() float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}

// Intn returns the next scripted value scaled to [0, n).
func (s *FixedRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return max(0, min(int(s.Float64()*float64(n)), n-1))
}
