package nn

import (
	"fmt"
	"sort"
)

// ForwardOrder decides the order in which connections are visited during a
// forward pass
type ForwardOrder int

const (
	// OrderStored visits connections in list order. A source that still
	// waits for input contributes whatever it has accumulated so far.
	OrderStored ForwardOrder = iota
	// OrderLayered visits connections by the layer of their source, keeping
	// list order within a layer. Every source is complete before it fires.
	OrderLayered
)

func (o ForwardOrder) String() string {
	switch o {
	case OrderStored:
		return "stored"
	case OrderLayered:
		return "layered"
	default:
		return "unknown"
	}
}

// ParseOrder returns the order with the given name. An empty name is the
// stored order.
func ParseOrder(name string) (ForwardOrder, error) {
	switch name {
	case "stored", "":
		return OrderStored, nil
	case "layered":
		return OrderLayered, nil
	}
	return OrderStored, fmt.Errorf("unknown forward order %q", name)
}

// EvalMode configures the forward pass of a genome
type EvalMode struct {
	Order ForwardOrder
	// Weighted scales each contribution by the connection weight. Off, a
	// connection passes its source's output through unchanged.
	Weighted bool
}

// Update feeds one input vector through the network and returns the index of
// the output node with the highest activation. Node values are cleared before
// returning.
func (g *Genome) Update(inputs []float64) int {
	if len(inputs) != len(g.Layers[0]) {
		panic(fmt.Sprintf("nn: got %d inputs for %d input nodes", len(inputs), len(g.Layers[0])))
	}
	for i, h := range g.Layers[0] {
		g.Nodes[h].Value += inputs[i]
	}

	g.forward()
	out := g.argmax()
	g.reset()
	return out
}

func (g *Genome) forward() {
	for _, i := range g.visitOrder() {
		c := g.Conns[i]
		v := g.Nodes[c.From].Output()
		if g.Mode.Weighted {
			v *= c.Weight
		}
		g.Nodes[c.To].Value += v
	}
}

func (g *Genome) visitOrder() []int {
	order := make([]int, len(g.Conns))
	for i := range order {
		order[i] = i
	}
	if g.Mode.Order == OrderStored {
		return order
	}
	layerOf := g.layerIndex()
	sort.SliceStable(order, func(a, b int) bool {
		return layerOf[g.Conns[order[a]].From] < layerOf[g.Conns[order[b]].From]
	})
	return order
}

// argmax picks the first output with the strictly greatest activation
func (g *Genome) argmax() int {
	outputs := g.Layers[len(g.Layers)-1]
	best, bestIdx := 0.0, 0
	for i, h := range outputs {
		v := g.Nodes[h].Output()
		if i == 0 || v > best {
			best, bestIdx = v, i
		}
	}
	return bestIdx
}

func (g *Genome) reset() {
	for _, layer := range g.Layers {
		for _, h := range layer {
			g.Nodes[h].Value = 0
		}
	}
}

// Reward adds delta to the genome's raw fitness
func (g *Genome) Reward(delta float64) {
	g.Fitness += delta
}

// CalculateFitness is the raw fitness minus one point per node and per
// connection
func (g *Genome) CalculateFitness() float64 {
	return g.Fitness - float64(g.NodeCount()) - float64(len(g.Conns))
}
