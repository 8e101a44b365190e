// bubbleshot is a terminal bubble shooter: aim, fire, and pop clusters of
// colored bubbles on a hexagonal grid before the ceiling pushes them down
// to you.
//
// Usage:
//
//	bubbleshot                - Play with default settings
//	bubbleshot play           - Same as above
//	bubbleshot config         - Print the default configuration YAML
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible gameplay
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS  int
	flagSeed int64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bubbleshot",
	Short: "Bubble Shooter - pop bubble clusters in your terminal",
	Long: `Bubble Shooter is a terminal arcade game. Fire colored bubbles at a
hexagonal grid; groups of three or more matching bubbles pop, and anything
left hanging falls. Clear the board before it reaches the bottom.

Controls:
  Left/Right or A/D  - Aim
  Space/Up/W         - Fire
  Mouse              - Aim with motion, fire with left click
  P/Esc              - Pause
  R                  - Restart (after game over)
  Q/Ctrl+C           - Quit

Examples:
  bubbleshot
  bubbleshot play --difficulty hard
  bubbleshot play --seed 42 --fps 30
  bubbleshot play --config ./my-bubbleshot.yaml
  bubbleshot config > ~/.bubbleshot/configs/bubbleshot.yaml`,
	Run: runPlay,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(configCmd)
}
