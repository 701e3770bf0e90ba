package nn

import (
	"fmt"
	"math/rand"

	"lightneat/internal/activation"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Genome is one member of the population: a layered feed-forward network
// plus its accumulated fitness.
//
// Nodes is an arena; Layers and Conns refer to nodes by their index in it.
// Layer 0 holds the input nodes and the last layer the output nodes.
type Genome struct {
	Layers  [][]int
	Nodes   []Node
	Conns   []Connection
	Fitness float64
	NextID  int
	Mode    EvalMode
}

// NewGenome builds a two-layer genome that connects every input to every
// output with a random weight. Connections are ordered input-major.
func NewGenome(inputs, outputs []Node, rng *rand.Rand) *Genome {
	if len(inputs) == 0 || len(outputs) == 0 {
		panic(fmt.Sprintf("nn: genome needs inputs and outputs, got %d and %d", len(inputs), len(outputs)))
	}

	g := &Genome{
		Layers: [][]int{make([]int, 0, len(inputs)), make([]int, 0, len(outputs))},
		Nodes:  make([]Node, 0, len(inputs)+len(outputs)),
		Conns:  make([]Connection, 0, len(inputs)*len(outputs)),
	}
	for _, n := range inputs {
		if n.Role != RoleInput {
			panic(fmt.Sprintf("nn: node %d in input layer has role %s", n.ID, n.Role))
		}
		g.Layers[0] = append(g.Layers[0], g.addNode(n))
	}
	for _, n := range outputs {
		if n.Role != RoleOutput {
			panic(fmt.Sprintf("nn: node %d in output layer has role %s", n.ID, n.Role))
		}
		g.Layers[1] = append(g.Layers[1], g.addNode(n))
	}

	for _, in := range g.Layers[0] {
		for _, out := range g.Layers[1] {
			g.Conns = append(g.Conns, Connection{From: in, To: out, Weight: Std0(rng), Gater: NoGater})
		}
	}
	return g
}

func (g *Genome) addNode(n Node) int {
	n.Value = 0
	if n.ID > g.NextID {
		g.NextID = n.ID
	}
	g.Nodes = append(g.Nodes, n)
	return len(g.Nodes) - 1
}

// Clone makes a deep copy that shares no mutable state with g
func (g *Genome) Clone() *Genome {
	c := &Genome{
		Layers:  make([][]int, len(g.Layers)),
		Nodes:   make([]Node, len(g.Nodes)),
		Conns:   make([]Connection, len(g.Conns)),
		Fitness: g.Fitness,
		NextID:  g.NextID,
		Mode:    g.Mode,
	}
	for i, layer := range g.Layers {
		c.Layers[i] = append([]int(nil), layer...)
	}
	copy(c.Nodes, g.Nodes)
	copy(c.Conns, g.Conns)
	return c
}

// MintID returns a fresh node identity
func (g *Genome) MintID() int {
	g.NextID++
	return g.NextID
}

// AddHidden appends a hidden node to the arena and returns its handle. The
// caller places the handle in a layer.
func (g *Genome) AddHidden(id int, bias float64, act activation.Kind) int {
	return g.addNode(NewNode(id, RoleHidden, bias, act))
}

// NodeCount is the number of nodes across all layers
func (g *Genome) NodeCount() int {
	total := 0
	for _, layer := range g.Layers {
		total += len(layer)
	}
	return total
}

// HasConn reports whether a connection from -> to exists
func (g *Genome) HasConn(from, to int) bool {
	for _, c := range g.Conns {
		if c.From == from && c.To == to {
			return true
		}
	}
	return false
}

// InsertConn places c before the first connection sharing its source, or
// appends it when there is none.
func (g *Genome) InsertConn(c Connection) {
	for i, existing := range g.Conns {
		if existing.From == c.From {
			g.Conns = append(g.Conns, Connection{})
			copy(g.Conns[i+1:], g.Conns[i:])
			g.Conns[i] = c
			return
		}
	}
	g.Conns = append(g.Conns, c)
}

// RemoveConnAt deletes the connection at position i of the list
func (g *Genome) RemoveConnAt(i int) {
	g.Conns = append(g.Conns[:i], g.Conns[i+1:]...)
}

// RemoveNode deletes a hidden node, every connection touching it and, if it
// was the last node of its layer, the layer itself. Remaining handles are
// renumbered to keep the arena dense.
func (g *Genome) RemoveNode(h int) {
	if h < 0 || h >= len(g.Nodes) {
		panic(fmt.Sprintf("nn: node handle %d out of range", h))
	}
	if g.Nodes[h].Role != RoleHidden {
		panic(fmt.Sprintf("nn: refusing to remove %s node %d", g.Nodes[h].Role, g.Nodes[h].ID))
	}

	li, pos := g.locate(h)
	if len(g.Layers[li]) == 1 {
		g.Layers = append(g.Layers[:li], g.Layers[li+1:]...)
	} else {
		g.Layers[li] = append(g.Layers[li][:pos], g.Layers[li][pos+1:]...)
	}

	kept := g.Conns[:0]
	for _, c := range g.Conns {
		if c.From != h && c.To != h {
			kept = append(kept, c)
		}
	}
	g.Conns = kept

	g.Nodes = append(g.Nodes[:h], g.Nodes[h+1:]...)
	shift := func(x int) int {
		if x > h {
			return x - 1
		}
		return x
	}
	for _, layer := range g.Layers {
		for i := range layer {
			layer[i] = shift(layer[i])
		}
	}
	for i := range g.Conns {
		g.Conns[i].From = shift(g.Conns[i].From)
		g.Conns[i].To = shift(g.Conns[i].To)
	}
}

func (g *Genome) locate(h int) (layer, pos int) {
	for li, l := range g.Layers {
		for i, x := range l {
			if x == h {
				return li, i
			}
		}
	}
	panic(fmt.Sprintf("nn: node handle %d is in no layer", h))
}

// layerIndex maps every node handle to the layer that holds it
func (g *Genome) layerIndex() []int {
	idx := make([]int, len(g.Nodes))
	for i := range idx {
		idx[i] = -1
	}
	for li, layer := range g.Layers {
		for _, h := range layer {
			idx[h] = li
		}
	}
	return idx
}

// Validate checks the structural invariants of the genome
func (g *Genome) Validate() error {
	if len(g.Layers) < 2 {
		return fmt.Errorf("topology has %d layers, need at least 2", len(g.Layers))
	}
	if g.NodeCount() != len(g.Nodes) {
		return fmt.Errorf("layers hold %d nodes, arena has %d", g.NodeCount(), len(g.Nodes))
	}

	seen := make([]bool, len(g.Nodes))
	last := len(g.Layers) - 1
	ids := make(map[int]bool, len(g.Nodes))
	for li, layer := range g.Layers {
		if len(layer) == 0 {
			return fmt.Errorf("layer %d is empty", li)
		}
		for _, h := range layer {
			if h < 0 || h >= len(g.Nodes) {
				return fmt.Errorf("layer %d references missing node %d", li, h)
			}
			if seen[h] {
				return fmt.Errorf("node %d appears in more than one layer", g.Nodes[h].ID)
			}
			seen[h] = true

			n := g.Nodes[h]
			want := RoleHidden
			switch li {
			case 0:
				want = RoleInput
			case last:
				want = RoleOutput
			}
			if n.Role != want {
				return fmt.Errorf("node %d has role %s in layer %d", n.ID, n.Role, li)
			}
			if ids[n.ID] {
				return fmt.Errorf("duplicate node id %d", n.ID)
			}
			if n.ID > g.NextID {
				return fmt.Errorf("node id %d is ahead of the id counter %d", n.ID, g.NextID)
			}
			ids[n.ID] = true
		}
	}

	layerOf := g.layerIndex()
	pairs := make(map[[2]int]bool, len(g.Conns))
	dg := simple.NewDirectedGraph()
	for h := range g.Nodes {
		dg.AddNode(simple.Node(h))
	}
	for i, c := range g.Conns {
		if c.From < 0 || c.From >= len(g.Nodes) || c.To < 0 || c.To >= len(g.Nodes) {
			return fmt.Errorf("connection %d references a missing node", i)
		}
		if layerOf[c.From] >= layerOf[c.To] {
			return fmt.Errorf("connection %d -> %d does not point forward", g.Nodes[c.From].ID, g.Nodes[c.To].ID)
		}
		key := [2]int{c.From, c.To}
		if pairs[key] {
			return fmt.Errorf("duplicate connection %d -> %d", g.Nodes[c.From].ID, g.Nodes[c.To].ID)
		}
		pairs[key] = true
		dg.SetEdge(dg.NewEdge(simple.Node(c.From), simple.Node(c.To)))
	}
	if _, err := topo.Sort(dg); err != nil {
		return fmt.Errorf("connections form a cycle: %w", err)
	}
	return nil
}
