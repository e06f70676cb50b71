package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Deterministic(t *testing.T) {
	for _, seed := range []int64{1, 42, 12345, 2147483646, 99999999999} {
		a, b := New(seed), New(seed)
		for i := 0; i < 100; i++ {
			require.Equal(t, a.Float64(), b.Float64(), "seed %d draw %d", seed, i)
		}
	}
}

func TestGenerator_KnownSequence(t *testing.T) {
	g := New(1)
	// 1*48271 = 48271, 48271*48271 mod (2^31-1) = 182605794
	assert.Equal(t, float64(48270)/float64(2147483646), g.Float64())
	assert.Equal(t, float64(182605793)/float64(2147483646), g.Float64())
}

func TestGenerator_NormalizesSeed(t *testing.T) {
	t.Run("Zero", func(t *testing.T) {
		g := New(0)
		assert.Equal(t, int64(2147483646), g.state)
		v := g.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	})

	t.Run("Negative", func(t *testing.T) {
		g := New(-5)
		assert.Equal(t, int64(2147483642), g.state)
	})

	t.Run("NegativeNearModulus", func(t *testing.T) {
		g := New(-2147483646)
		assert.Equal(t, int64(1), g.state)
		for i := 0; i < 3; i++ {
			v := g.Float64()
			assert.GreaterOrEqual(t, v, 0.0)
			assert.Less(t, v, 1.0)
		}
		assert.NotPanics(t, func() { Pick([]string{"a", "b"}, New(-2147483646)) })
	})

	t.Run("StateAlwaysInRange", func(t *testing.T) {
		for _, seed := range []int64{-2147483647, -2147483648, -1, 1, 2147483646, -4294967294, 1 << 40, -(1 << 40)} {
			s := New(seed).state
			assert.GreaterOrEqual(t, s, int64(1), "seed %d", seed)
			assert.LessOrEqual(t, s, int64(2147483646), "seed %d", seed)
		}
	})

	t.Run("Modulus", func(t *testing.T) {
		assert.Equal(t, New(0).state, New(2147483647).state)
	})
}

func TestGenerator_Range(t *testing.T) {
	g := New(7)
	for i := 0; i < 10000; i++ {
		v := g.Float64()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestPick(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	seen := map[string]bool{}
	g := New(3)
	for i := 0; i < 200; i++ {
		seen[Pick(items, g)] = true
	}
	assert.Len(t, seen, 4)

	a, b := New(11), New(11)
	for i := 0; i < 20; i++ {
		assert.Equal(t, Pick(items, a), Pick(items, b))
	}
}

func TestRange(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 3, 4}, Range(5))
	assert.Empty(t, Range(0))
	assert.Empty(t, Range(-2))
}

func TestShuffle(t *testing.T) {
	xs := Range(10)
	Shuffle(New(5), len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })
	assert.ElementsMatch(t, Range(10), xs)
}
