package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"lightneat/internal/config"
	"lightneat/internal/env"
	"lightneat/internal/eval"
	"lightneat/internal/logging"
	"lightneat/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to a .yaml or .ini config file (defaults when empty)")
	generations := flag.Int("generations", 1000, "number of generations to run")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	cols, rows := env.Dims(cfg.Game.Tiles)
	fmt.Printf("Light game trainer - %dx%d board, %d tiles\n", cols, rows, cfg.Game.Tiles)
	if *configPath != "" {
		fmt.Printf("Config: %s\n", *configPath)
	}
	fmt.Printf("Population: %d, Round limit: %.1f ticks, Repeat limit: %d, Stagnation: %d generations\n",
		cfg.Population.Size, cfg.RoundLimit(), cfg.Game.RepeatLimit, cfg.Game.StagnationGenerations)
	fmt.Printf("Forward order: %s, weighted: %t, validate: %t\n", cfg.NN.Order, cfg.NN.Weighted, cfg.NN.Validate)
	fmt.Println("---")

	rng := rand.New(rand.NewSource(cfg.Seed))

	runner, err := eval.NewRunner(cfg, rng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating runner: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Logging.CSVPath, cfg.Logging.JSONPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()
	fmt.Printf("Run ID: %s\n", logger.RunID)

	ctx := context.Background()
	store, err := storage.NewStore(cfg.Storage.Kind, cfg.Storage.SQLitePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating store: %v\n", err)
		os.Exit(1)
	}
	if err := store.Init(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	startTime := time.Now()
	var solvedGens, restarts, replays int

	for i := 0; i < *generations; i++ {
		// 1. Play out the generation
		stats := runner.Evaluate()
		gen := stats.Generation

		// 2. Debug: top-N table, before the population is replaced
		if cfg.Logging.TopNDebug > 0 && cfg.Logging.TopNEvery > 0 && gen%cfg.Logging.TopNEvery == 0 {
			logger.LogTopK(gen, runner.Top(cfg.Logging.TopNDebug))
		}

		// 3. Save the elite member's replay
		if cfg.Logging.ReplayEvery > 0 && gen%cfg.Logging.ReplayEvery == 0 {
			if _, err := logging.SaveReplay(cfg.Logging.ArtifactsDir, runner.Replay()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save replay: %v\n", err)
			} else {
				replays++
			}
		}

		// 4. Breed the next generation
		runner.Breed(&stats)
		if stats.Solved > 0 {
			solvedGens++
		}
		if stats.Restart {
			restarts++
		}

		// 5. Log and store the summary
		if err := logger.LogGeneration(stats, cfg.Logging.EveryGenSummary); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to log generation %d: %v\n", gen, err)
		}
		if err := store.SaveGeneration(ctx, logger.RunID, stats); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to store generation %d: %v\n", gen, err)
		}
	}

	elapsed := time.Since(startTime)
	history, err := store.Generations(ctx, logger.RunID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to read run history: %v\n", err)
	}

	fmt.Println("---")
	fmt.Printf("Training complete! %s generations in %v (started %s)\n",
		humanize.Comma(int64(*generations)), elapsed.Round(time.Millisecond), humanize.Time(startTime))
	fmt.Printf("All-time best: %d of %d tiles lit\n", runner.AllTimeBest, cfg.Game.Tiles)
	fmt.Printf("Generations with a solved board: %s, restarts: %s, replays saved: %s\n",
		humanize.Comma(int64(solvedGens)), humanize.Comma(int64(restarts)), humanize.Comma(int64(replays)))
	fmt.Printf("Stored %s generation summaries in %s backend\n",
		humanize.Comma(int64(len(history))), cfg.Storage.Kind)
}
