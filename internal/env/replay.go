package env

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Replay stores one member's tile choices over a generation for playback
type Replay struct {
	Seed       int64        `json:"seed"`
	Generation int          `json:"generation"`
	Member     int          `json:"member"`
	Moves      []int        `json:"moves"`
	FinalStats ReplayResult `json:"final_stats"`
	Config     ReplayConfig `json:"config"`
}

// ReplayConfig stores the board setup needed to rebuild the game
type ReplayConfig struct {
	Tiles       int `json:"tiles"`
	RepeatLimit int `json:"repeat_limit"`
}

// ReplayResult is the member's state when the generation ended
type ReplayResult struct {
	Lit      int     `json:"lit"`
	Finished bool    `json:"finished"`
	Fitness  float64 `json:"fitness"`
}

// NewReplay creates a new replay recorder
func NewReplay(seed int64, generation, member int, config ReplayConfig) *Replay {
	return &Replay{
		Seed:       seed,
		Generation: generation,
		Member:     member,
		Moves:      make([]int, 0, config.Tiles*2),
		Config:     config,
	}
}

// Record adds a chosen tile to the replay
func (r *Replay) Record(tile int) {
	r.Moves = append(r.Moves, tile)
}

// SetFinalStats sets the closing board state
func (r *Replay) SetFinalStats(res ReplayResult) {
	r.FinalStats = res
}

// Save writes the replay to a file, creating its directory
func (r *Replay) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadReplay loads a replay from a file
func LoadReplay(path string) (*Replay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Replay
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Playback creates the empty board the replay starts from
func (r *Replay) Playback() *Board {
	return NewBoard(r.Config.Tiles)
}

// PlaybackStep applies moves [from, to) to b
func (r *Replay) PlaybackStep(b *Board, from, to int) {
	if to > len(r.Moves) {
		to = len(r.Moves)
	}
	for i := from; i < to; i++ {
		b.Choose(r.Moves[i])
		b.Toggle(r.Moves[i])
	}
}
