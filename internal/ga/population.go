package ga

import (
	"fmt"
	"math/rand"

	"lightneat/internal/activation"
	"lightneat/internal/nn"
)

// Population is a fixed-size, index-aligned set of genomes evolved as a
// (1+lambda) strategy: each generation is bred from a single parent, and the
// last slot carries that parent over unchanged.
type Population struct {
	Genomes    []*nn.Genome
	Generation int

	rng     *rand.Rand
	mutator *Mutator
}

// Options tunes population construction and breeding
type Options struct {
	Mode    nn.EvalMode
	Mutator *Mutator // nil means uniform operator selection
}

// Breeding summarises one call to NextGeneration
type Breeding struct {
	Parent    int  // index of the parent in the previous generation
	Restart   bool // parent was a random member, mutated to escape a plateau
	Mutations map[Operator]int
}

// NewPopulation creates size genomes that share the same input and output
// nodes but draw their own connection weights. Output nodes take ids
// 0..outputs-1 so an id doubles as the decision index.
func NewPopulation(size, inputs, outputs int, rng *rand.Rand, opts Options) *Population {
	if size < 1 || inputs < 1 || outputs < 1 {
		panic(fmt.Sprintf("ga: invalid population shape size=%d inputs=%d outputs=%d", size, inputs, outputs))
	}
	if opts.Mutator == nil {
		opts.Mutator = UniformMutator()
	}

	id := 0
	outNodes := make([]nn.Node, outputs)
	for i := range outNodes {
		outNodes[i] = nn.NewNode(id, nn.RoleOutput, nn.Std0(rng), activation.Identity)
		id++
	}
	inNodes := make([]nn.Node, inputs)
	for i := range inNodes {
		inNodes[i] = nn.NewNode(id, nn.RoleInput, nn.Std0(rng), activation.Identity)
		id++
	}

	p := &Population{
		Genomes:    make([]*nn.Genome, size),
		Generation: 1,
		rng:        rng,
		mutator:    opts.Mutator,
	}
	for i := range p.Genomes {
		g := nn.NewGenome(inNodes, outNodes, rng)
		g.Mode = opts.Mode
		p.Genomes[i] = g
	}
	return p
}

// Size returns the population size
func (p *Population) Size() int {
	return len(p.Genomes)
}

// Scores snapshots every member's complexity-penalised fitness
func (p *Population) Scores() []float64 {
	scores := make([]float64, len(p.Genomes))
	for i, g := range p.Genomes {
		scores[i] = g.CalculateFitness()
	}
	return scores
}

// Ranked returns the indices of the k fittest members, best first. The
// population itself is not reordered.
func (p *Population) Ranked(k int) []int {
	return TopIndices(p.Scores(), k)
}

// Complexity returns the mean node and connection counts
func (p *Population) Complexity() (nodes, conns float64) {
	if len(p.Genomes) == 0 {
		return 0, 0
	}
	for _, g := range p.Genomes {
		nodes += float64(g.NodeCount())
		conns += float64(len(g.Conns))
	}
	n := float64(len(p.Genomes))
	return nodes / n, conns / n
}

// NextGeneration replaces the population with mutated clones of one parent.
// With localMaximum set the parent is a random member given 1-3 extra
// mutations; otherwise it is the fittest member, unmutated.
func (p *Population) NextGeneration(localMaximum bool) Breeding {
	if len(p.Genomes) == 0 {
		panic("ga: next generation of an empty population")
	}
	p.Generation++

	b := Breeding{Restart: localMaximum, Mutations: make(map[Operator]int)}
	var parent *nn.Genome
	if localMaximum {
		b.Parent = p.rng.Intn(len(p.Genomes))
		parent = p.Genomes[b.Parent].Clone()
		p.mutateN(parent, 1+p.rng.Intn(3), b.Mutations)
	} else {
		b.Parent = FittestIndex(p.Scores())
		parent = p.Genomes[b.Parent].Clone()
	}
	parent.Fitness = 0

	next := make([]*nn.Genome, len(p.Genomes))
	for i := 0; i < len(next)-1; i++ {
		child := parent.Clone()
		p.mutateN(child, 1+p.rng.Intn(2), b.Mutations)
		next[i] = child
	}
	next[len(next)-1] = parent.Clone()

	p.Genomes = next
	return b
}

func (p *Population) mutateN(g *nn.Genome, n int, counts map[Operator]int) {
	for i := 0; i < n; i++ {
		counts[p.mutator.Mutate(g, p.rng)]++
	}
}
