package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-rl/internal/agent"
	"github.com/vovakirdan/flappy-rl/internal/core"
	"github.com/vovakirdan/flappy-rl/internal/games/flappy"
	"github.com/vovakirdan/flappy-rl/internal/platform/tui"
	"github.com/vovakirdan/flappy-rl/internal/runner"
	"github.com/vovakirdan/flappy-rl/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Watch the agent learn",
	Long: `Open the game in the terminal. The agent flies the bird and learns
every tick; its value table is saved on every restart and on exit.

Controls:
  Space      - Start, flap, or restart after game over
  Ctrl+S     - Save a screenshot
  Q/Esc      - Quit

Logs go to ~/.flappyrl/flappyrl.log while the game is on screen.

Examples:
  flappyrl play
  flappyrl play --explore steady --fps 30
  flappyrl play --config ./my-flappy.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	logOut, closeLog := openLogFile()
	defer closeLog()
	logger := newLogger(logOut)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	table, tableStore := loadTable(cfg, logger)

	history := openHistory(logger)
	if history != nil {
		defer history.Close()
	}

	seed := resolveSeed()
	ag := agent.New(table, cfg.Agent, rand.New(rand.NewSource(seed+1)))
	game := flappy.New(cfg, ag, rand.New(rand.NewSource(seed)), flappy.WithTableStore(tableStore))

	width, height := terminalSize()
	rc := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     seed,
	}

	logger.Info("play started", "seed", seed, "explore", flagExplore, "visited", table.Visited())

	runErr := tui.Run(game, rc, logger,
		runner.WithLogger(logger),
		runner.WithEpisodeHook(episodeRecorder(history, storage.ModePlay, logger)),
	)
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		if history != nil {
			history.Close()
		}
		closeLog()
		os.Exit(1)
	}

	logger.Info("play finished", "episodes", game.State().Episode, "visited", table.Visited())
}
