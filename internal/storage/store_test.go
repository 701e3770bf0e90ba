package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lightneat/internal/env"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": NewSQLiteStore(filepath.Join(t.TempDir(), "db", "history.db")),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Init(ctx))
			t.Cleanup(func() { _ = store.Close() })

			for _, gen := range []int{3, 1, 2} {
				stats := env.GenerationStats{
					Generation:  gen,
					Best:        gen * 2,
					FitnessMean: float64(gen) / 2,
					Mutations:   map[string]int{"node": gen},
				}
				require.NoError(t, store.SaveGeneration(ctx, "run-a", stats))
			}
			require.NoError(t, store.SaveGeneration(ctx, "run-b", env.GenerationStats{Generation: 1, Restart: true}))

			got, err := store.Generations(ctx, "run-a")
			require.NoError(t, err)
			require.Len(t, got, 3)
			for i, s := range got {
				assert.Equal(t, i+1, s.Generation)
				assert.Equal(t, 2*(i+1), s.Best)
				assert.Equal(t, map[string]int{"node": i + 1}, s.Mutations)
			}

			other, err := store.Generations(ctx, "run-b")
			require.NoError(t, err)
			require.Len(t, other, 1)
			assert.True(t, other[0].Restart)

			none, err := store.Generations(ctx, "missing")
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestStoreOverwritesGeneration(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Init(ctx))
			t.Cleanup(func() { _ = store.Close() })

			require.NoError(t, store.SaveGeneration(ctx, "r", env.GenerationStats{Generation: 5, Best: 1}))
			require.NoError(t, store.SaveGeneration(ctx, "r", env.GenerationStats{Generation: 5, Best: 9}))

			got, err := store.Generations(ctx, "r")
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, 9, got[0].Best)
		})
	}
}

func TestStoreRequiresInit(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := store.SaveGeneration(ctx, "r", env.GenerationStats{})
			assert.ErrorIs(t, err, ErrNotInitialized)
			_, err = store.Generations(ctx, "r")
			assert.ErrorIs(t, err, ErrNotInitialized)
		})
	}
}

func TestMemoryStoreCopiesMutations(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Init(ctx))

	ops := map[string]int{"weight": 1}
	require.NoError(t, store.SaveGeneration(ctx, "r", env.GenerationStats{Generation: 1, Mutations: ops}))
	ops["weight"] = 99

	got, err := store.Generations(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, 1, got[0].Mutations["weight"])
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	first := NewSQLiteStore(path)
	require.NoError(t, first.Init(ctx))
	require.NoError(t, first.SaveGeneration(ctx, "r", env.GenerationStats{Generation: 1, AllTimeBest: 9}))
	require.NoError(t, first.Close())

	second := NewSQLiteStore(path)
	require.NoError(t, second.Init(ctx))
	t.Cleanup(func() { _ = second.Close() })
	got, err := second.Generations(ctx, "r")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 9, got[0].AllTimeBest)
}

func TestSQLiteStoreRequiresPath(t *testing.T) {
	assert.Error(t, NewSQLiteStore("").Init(context.Background()))
}

func TestNewStore(t *testing.T) {
	s, err := NewStore("", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = NewStore("sqlite", "x.db")
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)

	_, err = NewStore("postgres", "")
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestDecodeGenerationRejectsOtherVersions(t *testing.T) {
	_, err := DecodeGeneration([]byte(`{"codec_version": 2, "stats": {}}`))
	assert.ErrorIs(t, err, ErrVersionMismatch)

	data, err := EncodeGeneration(env.GenerationStats{Generation: 7})
	require.NoError(t, err)
	stats, err := DecodeGeneration(data)
	require.NoError(t, err)
	assert.Equal(t, 7, stats.Generation)
}
