package nn

import "math/rand"

const gaussianDraws = 6

// GaussianRand approximates a bell curve on [0, 1] centred at 0.5 by
// averaging uniform draws
func GaussianRand(rng *rand.Rand) float64 {
	sum := 0.0
	for i := 0; i < gaussianDraws; i++ {
		sum += rng.Float64()
	}
	return sum / gaussianDraws
}

// Std0 rescales GaussianRand to [-1, 1]. It is used for initial weights and
// biases and for weight/bias mutation deltas.
func Std0(rng *rand.Rand) float64 {
	return (GaussianRand(rng) - 0.5) * 2
}
