package activation

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		kind Kind
		in   float64
		want float64
	}{
		{None, -3.5, -3.5},
		{Identity, 1, 1},
		{Logistic, 0, 0.5},
		{Tanh, 0, 0},
		{BinaryStep, -1, 0},
		{BinaryStep, 0, 0},
		{BinaryStep, 1, 1},
		{ReLU, -1, 0},
		{ReLU, 2, 2},
		{Softsign, 1, 0.5},
		{Softsign, -1, -0.5},
		{Gaussian, 0, 1},
		{Sinusoidal, 0, 0},
		{BentIdentity, 0, 0},
		{SELU, 1, 1.0507},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, Evaluate(c.kind, c.in), 1e-9, "%s(%v)", c.kind, c.in)
	}
}

func TestEvaluateRounded(t *testing.T) {
	assert.Equal(t, 1.0, math.Round(Evaluate(Logistic, 1)))
	assert.Equal(t, 0.0, math.Round(Evaluate(Logistic, -0.5)))
	assert.Equal(t, 1.0, math.Round(Evaluate(Tanh, 1)))
	assert.Equal(t, 0.0, math.Round(Evaluate(Gaussian, 1)))
	assert.Equal(t, 1.0, math.Round(Evaluate(Gaussian, 0.5)))
	assert.Equal(t, 1.0, math.Round(Evaluate(BentIdentity, 1)))
	assert.Equal(t, -1.0, math.Round(Evaluate(SELU, -1)))
}

func TestRandomNeverNone(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	seen := map[Kind]bool{}
	for i := 0; i < 2000; i++ {
		k := Random(rng)
		require.NotEqual(t, None, k)
		seen[k] = true
	}
	assert.Len(t, seen, len(randomPool))
}

func TestParse(t *testing.T) {
	for k := None; k <= SELU; k++ {
		got, err := Parse(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := Parse("swish")
	assert.Error(t, err)
	assert.Equal(t, "unknown", Kind(99).String())
}
