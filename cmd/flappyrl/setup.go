package main

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/flappy-rl/internal/agent"
	"github.com/vovakirdan/flappy-rl/internal/config"
	"github.com/vovakirdan/flappy-rl/internal/games/flappy"
	"github.com/vovakirdan/flappy-rl/internal/storage"
)

// logFilePath receives play-mode logs so the alt screen stays clean.
const logFilePath = "~/.flappyrl/flappyrl.log"

// newLogger creates the command logger writing to w at --log-level.
func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "flappyrl",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// openLogFile opens the play-mode log file for appending. On failure logs
// are discarded; the game still runs.
func openLogFile() (io.Writer, func()) {
	path := config.ExpandPath(logFilePath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() { f.Close() }
}

// loadConfig loads the game config and applies --explore.
func loadConfig() (config.FlappyConfig, error) {
	cfg, err := config.LoadFlappy(flagConfig)
	if err != nil {
		return cfg, err
	}
	if err := config.ApplyExplorationPreset(&cfg, config.ExplorationPreset(flagExplore)); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// loadTable opens the value table at --qtable. An unreadable file is
// logged and replaced by a zero table.
func loadTable(cfg config.FlappyConfig, logger *log.Logger) (*agent.Table, *agent.FileStore) {
	store := agent.NewFileStore(config.ExpandPath(flagTable))
	table, err := store.Load(cfg.Agent.Bins)
	if err != nil {
		logger.Warn("value table discarded, starting fresh", "error", err)
	}
	logger.Debug("value table loaded", "path", store.Path(), "visited", table.Visited())
	return table, store
}

// openHistory opens the episode database at --db. Failures degrade to no
// history.
func openHistory(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open episode history", "error", err)
		return nil
	}
	return store
}

// resolveSeed returns --seed, or a time-based seed when it is zero.
func resolveSeed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// terminalSize returns the stdout terminal size, or 80x24.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

// episodeRecorder returns a callback that stores episodes under mode.
// A failing database is reported once.
func episodeRecorder(history *storage.Store, mode string, logger *log.Logger) func(flappy.EpisodeSummary) {
	var warnOnce sync.Once
	return func(sum flappy.EpisodeSummary) {
		logger.Debug("episode", "mode", mode, "episode", sum.Episode, "ticks", sum.Ticks, "epsilon", sum.Epsilon)
		if history == nil {
			return
		}
		_, err := history.SaveEpisode(storage.EpisodeEntry{
			Mode:      mode,
			Episode:   sum.Episode,
			Ticks:     sum.Ticks,
			Reward:    sum.Reward,
			Epsilon:   sum.Epsilon,
			Duration:  sum.Duration,
			Truncated: sum.Truncated,
		})
		if err != nil {
			warnOnce.Do(func() {
				logger.Warn("episode history write failed", "error", err)
			})
		}
	}
}
