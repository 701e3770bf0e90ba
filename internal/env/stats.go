package env

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GenerationStats summarises one finished generation, before breeding
type GenerationStats struct {
	Generation  int `json:"generation"`
	Ticks       int `json:"ticks"`
	Best        int `json:"best"`          // most tiles lit on any board since the last restart
	AllTimeBest int `json:"all_time_best"` // most tiles lit on any board in the run
	Solved      int `json:"solved"`        // boards fully lit at the end of the generation

	FitnessMean float64 `json:"fitness_mean"`
	FitnessStd  float64 `json:"fitness_std"`
	FitnessMax  float64 `json:"fitness_max"`
	ScoreMean   float64 `json:"score_mean"`
	ScoreStd    float64 `json:"score_std"`
	ScoreMax    float64 `json:"score_max"`

	NodesMean float64 `json:"nodes_mean"`
	ConnsMean float64 `json:"conns_mean"`

	Parent    int            `json:"parent"`
	Restart   bool           `json:"restart"`
	Mutations map[string]int `json:"mutations,omitempty"`
}

// Spread holds the mean, population standard deviation and max of a sample
type Spread struct {
	Mean float64
	Std  float64
	Max  float64
}

// Summarize computes the spread of xs. An empty sample gives zeros.
func Summarize(xs []float64) Spread {
	if len(xs) == 0 {
		return Spread{}
	}
	mean, variance := stat.PopMeanVariance(xs, nil)
	return Spread{
		Mean: mean,
		Std:  math.Sqrt(variance),
		Max:  floats.Max(xs),
	}
}
