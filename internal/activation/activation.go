// Package activation holds the squashing functions a node can apply to its
// accumulated value.
package activation

import (
	"fmt"
	"math"
	"math/rand"
)

// Kind identifies an activation function
type Kind int

const (
	None Kind = iota
	Logistic
	Tanh
	Identity
	BinaryStep
	ReLU
	Softsign
	Gaussian
	Sinusoidal
	BentIdentity
	SELU
)

const (
	seluAlpha  = 1.67326
	seluLambda = 1.0507
)

var names = [...]string{
	None:         "none",
	Logistic:     "logistic",
	Tanh:         "tanh",
	Identity:     "identity",
	BinaryStep:   "binary_step",
	ReLU:         "relu",
	Softsign:     "softsign",
	Gaussian:     "gaussian",
	Sinusoidal:   "sinusoidal",
	BentIdentity: "bent_identity",
	SELU:         "selu",
}

// randomPool is every kind except None
var randomPool = [...]Kind{
	Logistic, Tanh, Identity, BinaryStep, ReLU,
	Softsign, Gaussian, Sinusoidal, BentIdentity, SELU,
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(names) {
		return "unknown"
	}
	return names[k]
}

// Parse returns the kind with the given name
func Parse(name string) (Kind, error) {
	for i, n := range names {
		if n == name {
			return Kind(i), nil
		}
	}
	return None, fmt.Errorf("unknown activation %q", name)
}

// Random returns a uniformly chosen kind, never None
func Random(rng *rand.Rand) Kind {
	return randomPool[rng.Intn(len(randomPool))]
}

// Evaluate applies the activation of the given kind to x
func Evaluate(k Kind, x float64) float64 {
	switch k {
	case Logistic:
		return 1 / (1 + math.Exp(-x))
	case Tanh:
		return math.Tanh(x)
	case Identity:
		return x
	case BinaryStep:
		if x > 0 {
			return 1
		}
		return 0
	case ReLU:
		if x > 0 {
			return x
		}
		return 0
	case Softsign:
		return x / (1 + math.Abs(x))
	case Gaussian:
		return math.Exp(-x * x)
	case Sinusoidal:
		return math.Sin(x)
	case BentIdentity:
		return (math.Sqrt(x*x+1)-1)/2 + x
	case SELU:
		if x < 0 {
			return seluLambda * seluAlpha * (math.Exp(x) - 1)
		}
		return seluLambda * x
	default:
		return x
	}
}
