package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-rl/internal/agent"
	"github.com/vovakirdan/flappy-rl/internal/config"
	"github.com/vovakirdan/flappy-rl/internal/storage"
)

var flagResetHistory bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the value table",
	Long: `Delete the value table so the next run starts from scratch.
With --history the episode history is cleared as well.

Examples:
  flappyrl reset
  flappyrl reset --history`,
	Args: cobra.NoArgs,
	Run:  runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&flagResetHistory, "history", false, "Also clear the episode history")
}

func runReset(cmd *cobra.Command, args []string) {
	store := agent.NewFileStore(config.ExpandPath(flagTable))
	if err := store.Remove(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Removed %s\n", store.Path())

	if !flagResetHistory {
		return
	}

	history, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening episode history: %v\n", err)
		os.Exit(1)
	}
	defer history.Close()

	n, err := history.EpisodeCount()
	if err == nil {
		err = history.ClearEpisodes()
	}
	if err != nil {
		history.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Cleared %d episodes from history\n", n)
}
