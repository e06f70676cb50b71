// Package random provides a reproducible pseudo-random source for fixtures
// and the small helpers the generators build on.
package random

import "math"

const (
	modulus    = 2147483647 // 2^31 - 1
	multiplier = 48271
)

// Source is anything that yields floats in [0,1).
// *Generator and *math/rand.Rand both satisfy it.
type Source interface {
	Float64() float64
}

// Generator is a Lehmer (Park-Miller) linear congruential generator.
// It is deterministic for a given seed and is not safe for concurrent use.
type Generator struct {
	state int64
}

// New creates a generator. The seed is reduced modulo 2^31-1 into [1, 2^31-2];
// a seed that reduces to zero starts at 2^31-2.
func New(seed int64) *Generator {
	s := (seed%modulus + modulus) % modulus
	if s == 0 {
		s = modulus - 1
	}
	return &Generator{state: s}
}

// Float64 advances the generator and returns a value in [0,1)
func (g *Generator) Float64() float64 {
	g.state = g.state * multiplier % modulus
	return float64(g.state-1) / float64(modulus-1)
}

// IntN returns an int in [0,n). n must be positive.
func IntN(src Source, n int) int {
	i := int(math.Floor(src.Float64() * float64(n)))
	if i >= n {
		i = n - 1
	}
	return i
}

// Pick returns a uniformly chosen element of items. items must not be empty.
func Pick[T any](items []T, src Source) T {
	return items[IntN(src, len(items))]
}

// Range returns [0, 1, ..., n-1]
func Range(n int) []int {
	if n <= 0 {
		return []int{}
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// Shuffle performs a Fisher-Yates shuffle driven by src
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := IntN(src, i+1)
		swap(i, j)
	}
}
