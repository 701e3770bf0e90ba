package nn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lightneat/internal/activation"
)

// threeLayer mirrors a hand-wired network: inputs 0 and 1 preloaded with 1
// and 2, a hidden node with bias 1 and value 1, outputs 2 and 3
func threeLayer() *Genome {
	nodes := []Node{
		{ID: 0, Role: RoleInput, Activation: activation.None, Value: 1},
		{ID: 1, Role: RoleInput, Activation: activation.None, Value: 2},
		{ID: 2, Role: RoleOutput, Activation: activation.None},
		{ID: 3, Role: RoleOutput, Activation: activation.None},
		{ID: 4, Role: RoleHidden, Activation: activation.None, Bias: 1, Value: 1},
	}
	return &Genome{
		Layers: [][]int{{0, 1}, {4}, {2, 3}},
		Nodes:  nodes,
		Conns: []Connection{
			{From: 0, To: 2, Weight: 1, Gater: NoGater},
			{From: 0, To: 3, Weight: 1, Gater: NoGater},
			{From: 0, To: 4, Weight: 2, Gater: NoGater},
			{From: 1, To: 2, Weight: 1, Gater: NoGater},
			{From: 1, To: 3, Weight: 1, Gater: NoGater},
			{From: 4, To: 3, Weight: 2, Gater: NoGater},
		},
		NextID: 4,
	}
}

func TestForwardAccumulatesUnweightedOutputs(t *testing.T) {
	for _, order := range []ForwardOrder{OrderLayered, OrderStored} {
		g := threeLayer()
		g.Mode.Order = order

		g.forward()

		assert.Equal(t, 1, g.argmax(), order.String())
		assert.Equal(t, 3.0, g.Nodes[2].Value, order.String())
		assert.Equal(t, 6.0, g.Nodes[3].Value, order.String())
	}
}

func TestUpdateResetsValues(t *testing.T) {
	g := threeLayer()
	for i := range g.Nodes {
		g.Nodes[i].Value = 0
	}
	g.Conns = append(g.Conns[:2], g.Conns[3:]...)

	out := g.Update([]float64{1, 2})

	assert.Equal(t, 1, out)
	for _, n := range g.Nodes {
		assert.Zero(t, n.Value, "node %d", n.ID)
	}
}

func TestUpdateRandomGenomesStayInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 50; i++ {
		in := inputNodes(0, 1, 2)
		for j := range in {
			in[j].Activation = activation.Random(rng)
			in[j].Bias = Std0(rng)
		}
		out := outputNodes(3, 4)
		g := NewGenome(in, out, rng)

		idx := g.Update([]float64{rng.Float64(), rng.Float64(), rng.Float64()})

		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, 2)
		for _, n := range g.Nodes {
			require.Zero(t, n.Value)
		}
	}
}

func TestUpdatePanicsOnInputMismatch(t *testing.T) {
	g := NewGenome(inputNodes(0, 1), outputNodes(2), rand.New(rand.NewSource(1)))
	assert.Panics(t, func() { g.Update([]float64{1}) })
	assert.Panics(t, func() { g.Update([]float64{1, 2, 3}) })
}

// The stored order lets a hidden node fire before it has received its input;
// the layered order does not.
func TestForwardOrderMatters(t *testing.T) {
	build := func(order ForwardOrder) *Genome {
		return &Genome{
			Layers: [][]int{{0}, {1}, {2, 3}},
			Nodes: []Node{
				{ID: 0, Role: RoleInput, Activation: activation.Identity},
				{ID: 1, Role: RoleHidden, Activation: activation.Identity},
				{ID: 2, Role: RoleOutput, Activation: activation.Identity},
				{ID: 3, Role: RoleOutput, Activation: activation.Identity},
			},
			Conns: []Connection{
				{From: 1, To: 3, Gater: NoGater},
				{From: 0, To: 1, Gater: NoGater},
			},
			NextID: 3,
			Mode:   EvalMode{Order: order},
		}
	}

	assert.Equal(t, 0, build(OrderStored).Update([]float64{1}))
	assert.Equal(t, 1, build(OrderLayered).Update([]float64{1}))
}

func TestWeightedForward(t *testing.T) {
	g := NewGenome(inputNodes(0), outputNodes(1, 2), rand.New(rand.NewSource(1)))
	for i := range g.Nodes {
		g.Nodes[i].Activation = activation.Identity
	}
	g.Conns[0].Weight = -1
	g.Conns[1].Weight = 1

	assert.Equal(t, 0, g.Update([]float64{1}))

	g.Mode.Weighted = true
	assert.Equal(t, 1, g.Update([]float64{1}))
}

func TestArgmaxTieKeepsFirst(t *testing.T) {
	g := NewGenome(inputNodes(0), outputNodes(1, 2, 3), rand.New(rand.NewSource(1)))
	g.Conns = nil
	assert.Equal(t, 0, g.Update([]float64{5}))
}

func TestCalculateFitness(t *testing.T) {
	g := &Genome{
		Layers:  [][]int{{0, 1}, {3}, {2}},
		Conns:   []Connection{{From: 1, To: 0, Gater: NoGater}},
		Fitness: 10,
	}
	assert.Equal(t, 5.0, g.CalculateFitness())
}

func TestReward(t *testing.T) {
	g := &Genome{}
	g.Reward(1)
	g.Reward(-2.5)
	assert.Equal(t, -1.5, g.Fitness)
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("stored")
	require.NoError(t, err)
	assert.Equal(t, OrderStored, o)
	o, err = ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, OrderStored, o)
	o, err = ParseOrder("layered")
	require.NoError(t, err)
	assert.Equal(t, OrderLayered, o)
	_, err = ParseOrder("random")
	assert.Error(t, err)
}
