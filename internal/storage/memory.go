package storage

import (
	"context"
	"sort"
	"sync"

	"lightneat/internal/env"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]map[int]env.GenerationStats
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]map[int]env.GenerationStats)
	return nil
}

func (s *MemoryStore) SaveGeneration(_ context.Context, runID string, stats env.GenerationStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	run, ok := s.runs[runID]
	if !ok {
		run = make(map[int]env.GenerationStats)
		s.runs[runID] = run
	}
	run[stats.Generation] = copyStats(stats)
	return nil
}

func (s *MemoryStore) Generations(_ context.Context, runID string) ([]env.GenerationStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}
	run := s.runs[runID]
	out := make([]env.GenerationStats, 0, len(run))
	for _, stats := range run {
		out = append(out, copyStats(stats))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Generation < out[j].Generation })
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func copyStats(stats env.GenerationStats) env.GenerationStats {
	if stats.Mutations != nil {
		ops := make(map[string]int, len(stats.Mutations))
		for k, v := range stats.Mutations {
			ops[k] = v
		}
		stats.Mutations = ops
	}
	return stats
}
