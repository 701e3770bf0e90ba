package env

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaySaveLoad(t *testing.T) {
	r := NewReplay(7, 12, 4, ReplayConfig{Tiles: 4, RepeatLimit: 4})
	for _, tile := range []int{0, 1, 1, 2, 3, 1} {
		r.Record(tile)
	}
	r.SetFinalStats(ReplayResult{Lit: 4, Finished: true, Fitness: 3})

	path := filepath.Join(t.TempDir(), "nested", "replay.json")
	require.NoError(t, r.Save(path))

	loaded, err := LoadReplay(path)
	require.NoError(t, err)
	assert.Equal(t, r, loaded)
}

func TestReplayPlayback(t *testing.T) {
	r := NewReplay(1, 1, 0, ReplayConfig{Tiles: 4})
	for _, tile := range []int{0, 1, 1, 2, 3, 1} {
		r.Record(tile)
	}

	b := r.Playback()
	r.PlaybackStep(b, 0, 3)
	_, lit := b.Finished()
	assert.Equal(t, 1, lit)
	assert.Equal(t, 1, b.Repeats)

	r.PlaybackStep(b, 3, 100)
	done, lit := b.Finished()
	assert.True(t, done)
	assert.Equal(t, 4, lit)
	assert.Equal(t, 1, b.LastTile)
}

func TestLoadReplayMissingFile(t *testing.T) {
	_, err := LoadReplay(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
