package storage

import (
	"context"
	"errors"

	"lightneat/internal/env"
)

var (
	ErrUnknownBackend = errors.New("unknown store backend")
	ErrNotInitialized = errors.New("store is not initialized")
)

// Store persists per-generation summaries of training runs
type Store interface {
	Init(ctx context.Context) error
	SaveGeneration(ctx context.Context, runID string, stats env.GenerationStats) error
	// Generations returns a run's summaries ordered by generation
	Generations(ctx context.Context, runID string) ([]env.GenerationStats, error)
	Close() error
}
