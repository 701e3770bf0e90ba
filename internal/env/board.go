package env

import (
	"fmt"
	"math"
)

// Board is one light-game board: a grid of tiles that start off and are
// toggled one at a time. Tiles are numbered row-major.
type Board struct {
	Cols  int
	Rows  int
	Tiles []bool

	// LastTile is the most recent tile chosen, -1 before the first move.
	// Repeats counts consecutive re-choices of it.
	LastTile int
	Repeats  int
}

// Dims returns the grid shape for a tile count: floor(sqrt(tiles)) columns
// and tiles/columns rows
func Dims(tiles int) (cols, rows int) {
	if tiles < 1 {
		return 0, 0
	}
	cols = int(math.Sqrt(float64(tiles)))
	return cols, tiles / cols
}

// NewBoard creates an all-off board. It panics when the tile count does not
// fill a whole grid.
func NewBoard(tiles int) *Board {
	cols, rows := Dims(tiles)
	if cols == 0 || cols*rows != tiles {
		panic(fmt.Sprintf("env: %d tiles do not form a grid", tiles))
	}
	return &Board{
		Cols:     cols,
		Rows:     rows,
		Tiles:    make([]bool, tiles),
		LastTile: -1,
	}
}

// Size is the number of tiles
func (b *Board) Size() int {
	return len(b.Tiles)
}

// At reports whether the tile at row, col is lit
func (b *Board) At(row, col int) bool {
	return b.Tiles[row*b.Cols+col]
}

// Toggle flips tile i and reports whether it is now lit
func (b *Board) Toggle(i int) bool {
	if i < 0 || i >= len(b.Tiles) {
		panic(fmt.Sprintf("env: tile %d out of range [0,%d)", i, len(b.Tiles)))
	}
	b.Tiles[i] = !b.Tiles[i]
	return b.Tiles[i]
}

// Choose records a move on tile i for repeat tracking
func (b *Board) Choose(i int) {
	if i == b.LastTile {
		b.Repeats++
	} else {
		b.Repeats = 0
	}
	b.LastTile = i
}

// Finished reports whether every tile is lit, and how many are
func (b *Board) Finished() (bool, int) {
	lit := 0
	for _, on := range b.Tiles {
		if on {
			lit++
		}
	}
	return lit == len(b.Tiles), lit
}

// Observation writes the board into dst as 1 for lit and 0 for off, growing
// dst if needed, and returns it
func (b *Board) Observation(dst []float64) []float64 {
	if cap(dst) < len(b.Tiles) {
		dst = make([]float64, len(b.Tiles))
	}
	dst = dst[:len(b.Tiles)]
	for i, on := range b.Tiles {
		if on {
			dst[i] = 1
		} else {
			dst[i] = 0
		}
	}
	return dst
}
