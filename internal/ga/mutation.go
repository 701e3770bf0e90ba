package ga

import (
	"fmt"
	"math/rand"

	"lightneat/internal/activation"
	"lightneat/internal/nn"
)

// Operator identifies one of the mutation operators
type Operator int

const (
	OpWeight Operator = iota
	OpBias
	OpNode
	OpConn
	OpSquash
	OpRemoveNode
	OpRemoveConn
	numOperators
)

var operatorNames = [numOperators]string{"weight", "bias", "node", "conn", "squash", "rnode", "rconn"}

func (o Operator) String() string {
	if o < 0 || o >= numOperators {
		return "unknown"
	}
	return operatorNames[o]
}

// Operators lists every operator in selection order
func Operators() []Operator {
	ops := make([]Operator, numOperators)
	for i := range ops {
		ops[i] = Operator(i)
	}
	return ops
}

// NodePenalty is subtracted from a genome's fitness whenever it grows a node
const NodePenalty = 1.0

// Mutator picks and applies mutation operators
type Mutator struct {
	weights [numOperators]int
	total   int
}

// NewMutator builds a mutator from per-operator weights keyed by operator
// name. Missing names get weight 1; a nil map gives uniform selection.
func NewMutator(weights map[string]int) (*Mutator, error) {
	m := &Mutator{}
	for name := range weights {
		if operatorIndex(name) < 0 {
			return nil, fmt.Errorf("unknown mutation operator %q", name)
		}
	}
	for i, name := range operatorNames {
		w, ok := weights[name]
		if !ok {
			w = 1
		}
		if w < 0 {
			return nil, fmt.Errorf("mutation weight for %s is negative", name)
		}
		m.weights[i] = w
		m.total += w
	}
	if m.total == 0 {
		return nil, fmt.Errorf("all mutation weights are zero")
	}
	return m, nil
}

// UniformMutator gives every operator the same weight
func UniformMutator() *Mutator {
	m, err := NewMutator(nil)
	if err != nil {
		panic(fmt.Sprintf("ga: uniform mutator: %v", err))
	}
	return m
}

func operatorIndex(name string) int {
	for i, n := range operatorNames {
		if n == name {
			return i
		}
	}
	return -1
}

// Pick draws an operator according to the configured weights
func (m *Mutator) Pick(rng *rand.Rand) Operator {
	r := rng.Intn(m.total)
	for i, w := range m.weights {
		if r < w {
			return Operator(i)
		}
		r -= w
	}
	return OpWeight
}

// Mutate applies one randomly chosen operator to g and returns it
func (m *Mutator) Mutate(g *nn.Genome, rng *rand.Rand) Operator {
	op := m.Pick(rng)
	Apply(op, g, rng)
	return op
}

// Apply runs a specific operator. It reports false when the operator found
// nothing to change.
func Apply(op Operator, g *nn.Genome, rng *rand.Rand) bool {
	switch op {
	case OpWeight:
		return MutateWeight(g, rng)
	case OpBias:
		return MutateBias(g, rng)
	case OpNode:
		return MutateNewNode(g, rng)
	case OpConn:
		return MutateNewConnection(g, rng)
	case OpSquash:
		return MutateSquash(g, rng)
	case OpRemoveNode:
		return MutateRemoveNode(g, rng)
	case OpRemoveConn:
		return MutateRemoveConnection(g, rng)
	default:
		panic(fmt.Sprintf("ga: unknown operator %d", op))
	}
}

// MutateWeight nudges the weight of one random connection
func MutateWeight(g *nn.Genome, rng *rand.Rand) bool {
	if len(g.Conns) == 0 {
		return false
	}
	g.Conns[rng.Intn(len(g.Conns))].Weight += nn.Std0(rng)
	return true
}

// randomNode picks a random layer, then a random node within it
func randomNode(g *nn.Genome, rng *rand.Rand) *nn.Node {
	if len(g.Layers) == 0 {
		panic("ga: genome has no layers")
	}
	layer := g.Layers[rng.Intn(len(g.Layers))]
	if len(layer) == 0 {
		panic("ga: genome has an empty layer")
	}
	h := layer[rng.Intn(len(layer))]
	if h < 0 || h >= len(g.Nodes) {
		panic(fmt.Sprintf("ga: layer references missing node %d", h))
	}
	return &g.Nodes[h]
}

// MutateBias nudges the bias of one random node
func MutateBias(g *nn.Genome, rng *rand.Rand) bool {
	randomNode(g, rng).Bias += nn.Std0(rng)
	return true
}

// MutateSquash gives one random node a new activation function
func MutateSquash(g *nn.Genome, rng *rand.Rand) bool {
	randomNode(g, rng).Activation = activation.Random(rng)
	return true
}

// MutateNewNode grows a hidden node with one incoming and one outgoing
// connection. Split point 0 opens a new hidden layer in front of the output
// layer; any other split point joins the existing hidden layer of that index.
func MutateNewNode(g *nn.Genome, rng *rand.Rand) bool {
	g.Fitness -= NodePenalty

	upper := len(g.Layers) - 2
	layerNo := rng.Intn(upper + 1)

	h := g.AddHidden(g.MintID(), nn.Std0(rng), activation.Random(rng))

	var from, to int
	if layerNo == 0 {
		at := upper + 1
		g.Layers = append(g.Layers, nil)
		copy(g.Layers[at+1:], g.Layers[at:])
		g.Layers[at] = []int{h}
		from, to = upper, at+1
	} else {
		g.Layers[layerNo] = append(g.Layers[layerNo], h)
		from, to = layerNo-1, layerNo+1
	}

	src := g.Layers[from][rng.Intn(len(g.Layers[from]))]
	dst := g.Layers[to][rng.Intn(len(g.Layers[to]))]
	g.InsertConn(nn.Connection{From: src, To: h, Weight: nn.Std0(rng), Gater: nn.NoGater})
	g.InsertConn(nn.Connection{From: h, To: dst, Weight: nn.Std0(rng), Gater: nn.NoGater})
	return true
}

// MutateNewConnection links a node to a node in a strictly later layer. It
// gives up after len(layers)+1 draws that only hit existing connections.
func MutateNewConnection(g *nn.Genome, rng *rand.Rand) bool {
	n := len(g.Layers)
	for attempt := 0; attempt <= n; attempt++ {
		fromIdx := rng.Intn(n - 1)
		toIdx := fromIdx + 1 + rng.Intn(n-fromIdx-1)

		src := g.Layers[fromIdx][rng.Intn(len(g.Layers[fromIdx]))]
		dst := g.Layers[toIdx][rng.Intn(len(g.Layers[toIdx]))]
		if g.HasConn(src, dst) {
			continue
		}
		g.InsertConn(nn.Connection{From: src, To: dst, Weight: nn.Std0(rng), Gater: nn.NoGater})
		return true
	}
	return false
}

// MutateRemoveNode drops a random hidden node and its connections
func MutateRemoveNode(g *nn.Genome, rng *rand.Rand) bool {
	if len(g.Layers) <= 2 {
		return false
	}
	layer := g.Layers[1+rng.Intn(len(g.Layers)-2)]
	h := layer[0]
	if len(layer) > 1 {
		h = layer[rng.Intn(len(layer))]
	}
	g.RemoveNode(h)
	return true
}

// MutateRemoveConnection drops a random connection
func MutateRemoveConnection(g *nn.Genome, rng *rand.Rand) bool {
	if len(g.Conns) == 0 {
		return false
	}
	g.RemoveConnAt(rng.Intn(len(g.Conns)))
	return true
}
