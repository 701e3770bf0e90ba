package eval

import (
	"fmt"
	"math/rand"

	"lightneat/internal/config"
	"lightneat/internal/env"
	"lightneat/internal/ga"
)

// Runner drives the light game: every member plays its own board, one move
// per tick, and the population is bred once the round limit is passed.
type Runner struct {
	cfg    *config.Config
	Pop    *ga.Population
	Boards []*env.Board

	Round           int
	Best            int // most tiles lit on one board since the last restart
	AllTimeBest     int
	LastImprovement int // generation in which Best last grew

	obs        []float64
	replay     *env.Replay
	lastReplay *env.Replay
}

// Standing is one member's result in the current generation
type Standing struct {
	Index   int
	Fitness float64
	Score   float64
	Lit     int
	Nodes   int
	Conns   int
}

// NewRunner builds the population and one board per member
func NewRunner(cfg *config.Config, rng *rand.Rand) (*Runner, error) {
	mode, err := cfg.EvalMode()
	if err != nil {
		return nil, err
	}
	mutator, err := ga.NewMutator(cfg.MutationWeights())
	if err != nil {
		return nil, err
	}

	r := &Runner{
		cfg: cfg,
		Pop: ga.NewPopulation(cfg.Population.Size, cfg.Population.Inputs, cfg.Population.Outputs, rng,
			ga.Options{Mode: mode, Mutator: mutator}),
		LastImprovement: 1,
	}
	r.resetBoards()
	return r, nil
}

func (r *Runner) resetBoards() {
	r.Boards = make([]*env.Board, r.Pop.Size())
	for i := range r.Boards {
		r.Boards[i] = env.NewBoard(r.cfg.Game.Tiles)
	}
	r.Round = 0
	r.replay = env.NewReplay(r.cfg.Seed, r.Pop.Generation, r.elite(), env.ReplayConfig{
		Tiles:       r.cfg.Game.Tiles,
		RepeatLimit: r.cfg.Game.RepeatLimit,
	})
}

// elite is the slot that holds the unmutated parent after breeding
func (r *Runner) elite() int {
	return r.Pop.Size() - 1
}

// Done reports whether the generation has used up its ticks
func (r *Runner) Done() bool {
	return float64(r.Round) > r.cfg.RoundLimit()
}

// Tick lets every member with an unfinished board make one move
func (r *Runner) Tick() {
	elite := r.elite()
	for i, g := range r.Pop.Genomes {
		b := r.Boards[i]

		done, lit := b.Finished()
		if lit > r.Best {
			r.Best = lit
			r.LastImprovement = r.Pop.Generation
			if lit > r.AllTimeBest {
				r.AllTimeBest = lit
			}
		}
		if done {
			continue
		}
		if b.Repeats > r.cfg.Game.RepeatLimit {
			g.Reward(-1)
			continue
		}

		r.obs = b.Observation(r.obs)
		tile := g.Update(r.obs)
		if b.Toggle(tile) {
			g.Reward(1)
		} else {
			g.Reward(-1)
		}
		b.Choose(tile)

		if i == elite {
			r.replay.Record(tile)
		}
	}
	r.Round++
}

// Evaluate plays out the rest of the current generation and summarises it
func (r *Runner) Evaluate() env.GenerationStats {
	for !r.Done() {
		r.Tick()
	}

	n := r.Pop.Size()
	raw := make([]float64, n)
	solved := 0
	for i, g := range r.Pop.Genomes {
		raw[i] = g.Fitness
		if done, _ := r.Boards[i].Finished(); done {
			solved++
		}
	}
	fitness := env.Summarize(raw)
	score := env.Summarize(r.Pop.Scores())
	nodes, conns := r.Pop.Complexity()

	elite := r.elite()
	done, lit := r.Boards[elite].Finished()
	r.replay.SetFinalStats(env.ReplayResult{
		Lit:      lit,
		Finished: done,
		Fitness:  r.Pop.Genomes[elite].Fitness,
	})
	r.lastReplay = r.replay

	return env.GenerationStats{
		Generation:  r.Pop.Generation,
		Ticks:       r.Round,
		Best:        r.Best,
		AllTimeBest: r.AllTimeBest,
		Solved:      solved,
		FitnessMean: fitness.Mean,
		FitnessStd:  fitness.Std,
		FitnessMax:  fitness.Max,
		ScoreMean:   score.Mean,
		ScoreStd:    score.Std,
		ScoreMax:    score.Max,
		NodesMean:   nodes,
		ConnsMean:   conns,
		Parent:      -1,
	}
}

// Top returns the k best members of the current generation by
// complexity-penalised fitness
func (r *Runner) Top(k int) []Standing {
	scores := r.Pop.Scores()
	idx := ga.TopIndices(scores, k)
	out := make([]Standing, len(idx))
	for i, m := range idx {
		g := r.Pop.Genomes[m]
		_, lit := r.Boards[m].Finished()
		out[i] = Standing{
			Index:   m,
			Fitness: g.Fitness,
			Score:   scores[m],
			Lit:     lit,
			Nodes:   g.NodeCount(),
			Conns:   len(g.Conns),
		}
	}
	return out
}

// Replay returns the elite member's trace from the last evaluated
// generation, or nil before the first one
func (r *Runner) Replay() *env.Replay {
	return r.lastReplay
}

// Breed replaces the population and resets the boards. A plateau longer
// than the stagnation window restarts the search from a random member.
// The breeding outcome is recorded in stats.
func (r *Runner) Breed(stats *env.GenerationStats) {
	restart := r.Pop.Generation-r.LastImprovement > r.cfg.Game.StagnationGenerations

	b := r.Pop.NextGeneration(restart)
	if restart {
		r.LastImprovement = r.Pop.Generation
		r.Best = 0
	}

	if r.cfg.NN.Validate {
		for i, g := range r.Pop.Genomes {
			if err := g.Validate(); err != nil {
				panic(fmt.Sprintf("eval: generation %d member %d is malformed: %v", r.Pop.Generation, i, err))
			}
		}
	}
	r.resetBoards()

	if stats != nil {
		stats.Parent = b.Parent
		stats.Restart = b.Restart
		stats.Mutations = make(map[string]int, len(b.Mutations))
		for op, n := range b.Mutations {
			stats.Mutations[op.String()] = n
		}
	}
}

// Step evaluates the current generation and breeds the next one
func (r *Runner) Step() env.GenerationStats {
	stats := r.Evaluate()
	r.Breed(&stats)
	return stats
}
