package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-rl/internal/platform/tui"
	"github.com/vovakirdan/flappy-rl/internal/storage"
)

var (
	flagHistoryTUI    bool
	flagHistoryRecent bool
	flagHistoryLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded episodes",
	Long: `Display the longest (or most recent) episodes from the history
database, followed by a summary. Truncated episodes are marked with +.

Examples:
  flappyrl history
  flappyrl history --recent --limit 20
  flappyrl history --tui`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&flagHistoryTUI, "tui", false, "Browse episodes interactively")
	historyCmd.Flags().BoolVar(&flagHistoryRecent, "recent", false, "List the most recent episodes instead of the longest")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of episodes to list")
}

func runHistory(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening episode history: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagHistoryTUI {
		width, height := terminalSize()
		if err := tui.RunHistory(store, width, height); err != nil {
			store.Close()
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	title := "Longest Episodes"
	list := store.TopEpisodes
	if flagHistoryRecent {
		title = "Recent Episodes"
		list = store.RecentEpisodes
	}

	episodes, err := list(flagHistoryLimit)
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving episodes: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(title)
	fmt.Println()

	if len(episodes) == 0 {
		fmt.Println("No episodes recorded yet.")
		fmt.Println()
		fmt.Println("Run 'flappyrl train' or 'flappyrl play' to record some!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-5s  %-7s  %-8s  %-9s  %-7s  %s\n", "Rank", "Mode", "Episode", "Ticks", "Reward", "Epsilon", "Date")
	fmt.Printf("  %-4s  %-5s  %-7s  %-8s  %-9s  %-7s  %s\n", "----", "----", "-------", "-----", "------", "-------", "----")

	for i, e := range episodes {
		ticks := fmt.Sprintf("%d", e.Ticks)
		if e.Truncated {
			ticks += "+"
		}
		fmt.Printf("  %-4d  %-5s  %-7d  %-8s  %-9.0f  %-7.3f  %s\n",
			i+1, e.Mode, e.Episode, ticks, e.Reward, e.Epsilon, e.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.Stats()
	if err == nil {
		fmt.Println()
		fmt.Printf("Episodes: %d  Best: %d ticks  Average: %.1f ticks\n", stats.Count, stats.BestTicks, stats.AvgTicks)
	}
}
