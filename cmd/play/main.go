package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"lightneat/internal/env"
)

func main() {
	replayPath := flag.String("replay", "artifacts/replay_gen100.json", "path to a saved replay")
	delay := flag.Int("delay", 300, "delay between frames in milliseconds")
	noDisplay := flag.Bool("no-display", false, "run without display (just print stats)")
	flag.Parse()

	replay, err := env.LoadReplay(*replayPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading replay: %v\n", err)
		os.Exit(1)
	}
	if replay.Config.Tiles < 1 {
		fmt.Fprintf(os.Stderr, "Error loading replay: no board size recorded\n")
		os.Exit(1)
	}

	fmt.Printf("Loaded replay of member %d, generation %d (%d moves, seed %d)\n",
		replay.Member, replay.Generation, len(replay.Moves), replay.Seed)
	fmt.Println("Press Ctrl+C to exit")
	fmt.Println()

	board := replay.Playback()
	display := NewDisplay(board.Cols, board.Rows)
	frameDelay := time.Duration(*delay) * time.Millisecond

	if !*noDisplay {
		display.Render(board, 0, -1)
		time.Sleep(frameDelay)
	}
	for step := range replay.Moves {
		replay.PlaybackStep(board, step, step+1)
		if !*noDisplay {
			display.Render(board, step+1, replay.Moves[step])
			time.Sleep(frameDelay)
		}
	}

	done, lit := board.Finished()
	fmt.Println()
	fmt.Println("═══════════════════════════════════")
	if done {
		fmt.Printf("  Solved! All %d tiles lit\n", board.Size())
	} else {
		fmt.Printf("  Lit %d of %d tiles\n", lit, board.Size())
	}
	fmt.Printf("  Moves: %d, Fitness: %.1f\n", len(replay.Moves), replay.FinalStats.Fitness)
	if lit != replay.FinalStats.Lit || done != replay.FinalStats.Finished {
		fmt.Printf("  Warning: recorded result was %d lit (finished=%t)\n", replay.FinalStats.Lit, replay.FinalStats.Finished)
	}
	fmt.Println("═══════════════════════════════════")
}

// Display handles terminal rendering
type Display struct {
	cols int
	rows int
}

// NewDisplay creates a new display
func NewDisplay(cols, rows int) *Display {
	return &Display{cols: cols, rows: rows}
}

// Render draws the board, marking the tile chosen this step
func (d *Display) Render(b *env.Board, step, chosen int) {
	clearScreen()

	border := strings.Repeat("───", d.cols)
	fmt.Println("┌" + border + "┐")
	for r := 0; r < d.rows; r++ {
		fmt.Print("│")
		for c := 0; c < d.cols; c++ {
			cell := " · "
			if b.At(r, c) {
				cell = " █ "
			}
			if r*d.cols+c == chosen {
				cell = "[" + strings.TrimSpace(cell) + "]"
			}
			fmt.Print(cell)
		}
		fmt.Println("│")
	}
	fmt.Println("└" + border + "┘")

	_, lit := b.Finished()
	chosenStr := "---"
	if chosen >= 0 {
		chosenStr = fmt.Sprintf("%d", chosen)
	}
	fmt.Printf("  Step: %3d | Lit: %d/%d | Tile: %s | Repeats: %d\n", step, lit, b.Size(), chosenStr, b.Repeats)
}

func clearScreen() {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/c", "cls")
	} else {
		cmd = exec.Command("clear")
	}
	cmd.Stdout = os.Stdout
	cmd.Run()
}
