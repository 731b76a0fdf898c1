// flappyrl is a terminal Flappy Bird played by a tabular Q-learning agent.
//
// Usage:
//
//	flappyrl                 - Watch the agent learn (same as play)
//	flappyrl play            - Watch and steer the agent in the terminal
//	flappyrl train           - Train headless, optionally with several workers
//	flappyrl history         - Show recorded episodes
//	flappyrl inspect         - Summarize the learned value table
//	flappyrl reset           - Delete the value table (and optionally history)
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible runs
//	--qtable <path>     - Value table file (default: ~/.flappyrl/qtable.bin)
//	--db <path>         - Episode history database (default: ~/.flappyrl/episodes.db)
//	--config <path>     - Custom game config YAML
//	--explore <preset>  - Exploration preset: default, curious, steady
//	--log-level <lvl>   - debug, info, warn, error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagTable    string
	flagDBPath   string
	flagConfig   string
	flagExplore  string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flappyrl",
	Short: "Flappy Bird played by a learning agent in your terminal",
	Long: `flappyrl runs a Flappy Bird clone whose bird is flown by a tabular
Q-learning agent. The agent learns every tick and keeps its value table
between runs.

Available commands:
  play     - Watch the agent learn (default)
  train    - Headless training
  history  - Recorded episodes
  inspect  - What the value table has learned
  reset    - Start over

Examples:
  flappyrl
  flappyrl train --episodes 5000 --workers 4
  flappyrl play --explore steady
  flappyrl history --tui`,
	Run: runPlay,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagTable, "qtable", "~/.flappyrl/qtable.bin", "Path to value table file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.flappyrl/episodes.db", "Path to episode history database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagExplore, "explore", "default", "Exploration preset: default, curious, steady")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(resetCmd)
}
