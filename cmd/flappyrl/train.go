package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-rl/internal/games/flappy"
	"github.com/vovakirdan/flappy-rl/internal/runner"
	"github.com/vovakirdan/flappy-rl/internal/storage"
)

var (
	flagEpisodes  int
	flagWorkers   int
	flagMaxTicks  int
	flagLogEvery  int
	flagSaveEvery int
	flagNoDB      bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the agent without a screen",
	Long: `Run episodes as fast as possible without rendering. With --workers > 1
several games learn into the same value table concurrently. The table is
saved every --save-every episodes and when training ends or is interrupted.

Examples:
  flappyrl train --episodes 2000
  flappyrl train --episodes 20000 --workers 4 --max-ticks 10000
  flappyrl train --explore curious --seed 7`,
	Args: cobra.NoArgs,
	Run:  runTrain,
}

func init() {
	trainCmd.Flags().IntVar(&flagEpisodes, "episodes", 1000, "Episodes to run across all workers")
	trainCmd.Flags().IntVar(&flagWorkers, "workers", 1, "Concurrent games sharing the value table")
	trainCmd.Flags().IntVar(&flagMaxTicks, "max-ticks", 5000, "Truncate episodes at this many ticks (0 = no cap)")
	trainCmd.Flags().IntVar(&flagLogEvery, "log-every", 100, "Log progress every N episodes (0 = quiet)")
	trainCmd.Flags().IntVar(&flagSaveEvery, "save-every", 100, "Save the value table every N episodes (0 = only at the end)")
	trainCmd.Flags().BoolVar(&flagNoDB, "no-history", false, "Do not record episodes in the history database")
}

func runTrain(cmd *cobra.Command, args []string) {
	logger := newLogger(os.Stderr)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	table, tableStore := loadTable(cfg, logger)

	var history *storage.Store
	if !flagNoDB {
		history = openHistory(logger)
	}
	if history != nil {
		defer history.Close()
	}
	record := episodeRecorder(history, storage.ModeTrain, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed := resolveSeed()
	logger.Info("training started",
		"episodes", flagEpisodes,
		"workers", flagWorkers,
		"seed", seed,
		"explore", flagExplore,
		"visited", table.Visited(),
	)

	report, err := runner.Train(ctx, runner.TrainConfig{
		Game:      cfg,
		Table:     table,
		Store:     tableStore,
		SaveEvery: flagSaveEvery,
		Episodes:  flagEpisodes,
		Workers:   flagWorkers,
		MaxTicks:  flagMaxTicks,
		Seed:      seed,
		LogEvery:  flagLogEvery,
		Logger:    logger,
		OnEpisode: func(_ int, sum flappy.EpisodeSummary) {
			record(sum)
		},
	})
	if err != nil {
		logger.Error("training failed", "error", err)
		if history != nil {
			history.Close()
		}
		os.Exit(1)
	}

	if ctx.Err() != nil {
		logger.Warn("training interrupted", "completed", report.Episodes)
	}

	fmt.Printf("Episodes:    %d (%d truncated)\n", report.Episodes, report.Truncated)
	fmt.Printf("Ticks:       mean %.1f, stddev %.1f, max %.0f\n", report.MeanTicks, report.StdTicks, report.MaxTicks)
	fmt.Printf("States seen: %d of %d\n", report.Visited, table.States())
	fmt.Printf("Duration:    %s\n", report.Duration.Round(time.Millisecond))
	fmt.Printf("Saved to:    %s\n", tableStore.Path())
}
