package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/vovakirdan/flappy-rl/internal/agent"
	"github.com/vovakirdan/flappy-rl/internal/config"
	"github.com/vovakirdan/flappy-rl/internal/games/flappy"
)

// TrainConfig controls a headless training run.
type TrainConfig struct {
	Game      config.FlappyConfig
	Table     *agent.Table     // Shared by all workers
	Store     agent.TableSaver // Saved every SaveEvery episodes and when training ends; nil skips saving
	SaveEvery int              // Checkpoint interval in episodes; zero saves only at the end
	Episodes  int              // Total episodes across all workers
	Workers   int              // Concurrent games; defaults to 1
	MaxTicks  int              // Truncate longer episodes; zero means no cap
	Seed      int64            // Base seed; worker w uses Seed+w
	LogEvery  int              // Progress log interval in episodes; zero disables
	Logger    *log.Logger      // Defaults to a discarding logger

	// OnEpisode receives every counted episode. sum.Episode is numbered
	// across all workers, starting at 1.
	OnEpisode func(worker int, sum flappy.EpisodeSummary)
}

// TrainReport summarizes a training run.
type TrainReport struct {
	Episodes  int
	Truncated int
	MeanTicks float64
	StdTicks  float64
	MaxTicks  float64
	Visited   int // Table rows with at least one learned value
	Duration  time.Duration
}

// Train runs cfg.Episodes episodes without pacing or rendering and returns
// a summary. Cancelling ctx stops early; the table is still saved.
func Train(ctx context.Context, cfg TrainConfig) (TrainReport, error) {
	if cfg.Table == nil {
		return TrainReport{}, errors.New("runner: train needs a value table")
	}
	if cfg.Episodes <= 0 {
		return TrainReport{}, fmt.Errorf("runner: episodes must be positive, got %d", cfg.Episodes)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu        sync.Mutex // Guards the shared table
		resMu     sync.Mutex // Guards ticks and truncated
		ticks     = make([]float64, 0, cfg.Episodes)
		truncated int
		done      atomic.Int64
	)

	record := func(worker int, sum flappy.EpisodeSummary) {
		n := done.Add(1)
		if n > int64(cfg.Episodes) {
			return // Another worker already reached the budget
		}
		if n == int64(cfg.Episodes) {
			cancel()
		}
		sum.Episode = int(n)

		resMu.Lock()
		ticks = append(ticks, float64(sum.Ticks))
		if sum.Truncated {
			truncated++
		}
		resMu.Unlock()

		if cfg.OnEpisode != nil {
			cfg.OnEpisode(worker, sum)
		}
		if cfg.LogEvery > 0 && n%int64(cfg.LogEvery) == 0 {
			cfg.Logger.Info("training", "episodes", n, "ticks", sum.Ticks, "epsilon", sum.Epsilon)
		}
		if cfg.Store != nil && cfg.SaveEvery > 0 && n%int64(cfg.SaveEvery) == 0 && n < int64(cfg.Episodes) {
			mu.Lock()
			err := cfg.Store.Save(cfg.Table)
			mu.Unlock()
			if err != nil {
				cfg.Logger.Warn("value table checkpoint failed", "episodes", n, "error", err)
			}
		}
	}

	start := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		seed := cfg.Seed + int64(w)
		ag := agent.New(cfg.Table, cfg.Game.Agent, rand.New(rand.NewSource(seed)), agent.WithSharedLock(&mu))
		game := flappy.New(cfg.Game, ag, rand.New(rand.NewSource(seed^0x5eed)))

		worker := w
		d := NewDriver(game,
			WithTickRate(0),
			WithMaxTicks(cfg.MaxTicks),
			WithLogger(cfg.Logger.With("worker", worker)),
			WithEpisodeHook(func(sum flappy.EpisodeSummary) { record(worker, sum) }),
		)

		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Run(ctx, NewAutoPilot(game)) //nolint:errcheck // games have no store, Close cannot fail
		}()
	}
	wg.Wait()

	report := TrainReport{
		Episodes:  len(ticks),
		Truncated: truncated,
		Duration:  time.Since(start),
	}
	if len(ticks) > 0 {
		report.MaxTicks = floats.Max(ticks)
		if len(ticks) > 1 {
			report.MeanTicks, report.StdTicks = stat.MeanStdDev(ticks, nil)
		} else {
			report.MeanTicks = ticks[0]
		}
	}

	if cfg.Store != nil {
		mu.Lock()
		err := cfg.Store.Save(cfg.Table)
		mu.Unlock()
		if err != nil {
			return report, fmt.Errorf("runner: save value table: %w", err)
		}
	}
	report.Visited = cfg.Table.Visited()

	return report, nil
}
