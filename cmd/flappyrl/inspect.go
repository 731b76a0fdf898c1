package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-rl/internal/agent"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarize the learned value table",
	Long: `Load the value table and show, per state axis, how many states were
visited, how often the greedy action is a flap, and the mean value of
each action.

Examples:
  flappyrl inspect
  flappyrl inspect --qtable ./run1.bin`,
	Args: cobra.NoArgs,
	Run:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) {
	logger := newLogger(os.Stderr)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	table, store := loadTable(cfg, logger)
	sum := agent.Summarize(table)

	fmt.Printf("Value table: %s\n", store.Path())
	fmt.Printf("States:      %d visited of %d (%d bins per axis)\n", sum.Visited, sum.States, sum.Bins)
	fmt.Printf("Values:      min %.2f, max %.2f\n", sum.MinValue, sum.MaxValue)
	fmt.Printf("Greedy flap: %.1f%% of visited states\n", sum.FlapShare*100)

	printAxis("Height (0 = top)", sum.Y)
	printAxis("Velocity (0 = rising fastest)", sum.V)
	printAxis("Pipe distance (0 = at the bird)", sum.Dist)
}

func printAxis(title string, bins []agent.AxisBin) {
	fmt.Println()
	fmt.Println(title)
	fmt.Printf("  %-4s  %-8s  %-6s  %-10s  %s\n", "Bin", "Visited", "Flap%", "Mean idle", "Mean flap")
	for _, b := range bins {
		share := 0.0
		if b.Visited > 0 {
			share = float64(b.Flaps) / float64(b.Visited) * 100
		}
		fmt.Printf("  %-4d  %-8d  %-6.1f  %-10.2f  %.2f\n", b.Bin, b.Visited, share, b.MeanIdle, b.MeanFlap)
	}
}
