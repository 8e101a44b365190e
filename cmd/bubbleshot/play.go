package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arcadelab/bubbleshot/internal/core"
	"github.com/arcadelab/bubbleshot/internal/games/bubbleshot"
	"github.com/arcadelab/bubbleshot/internal/platform/tui"
)

var (
	flagConfig     string
	flagDifficulty string
	flagDebug      bool
	flagLogFile    string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play bubble shooter",
	Long: `Start a bubble shooter session.

Difficulty options:
  easy   - Slow ceiling, few colors, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Fast ceiling, full palette early, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  bubbleshot play
  bubbleshot play --difficulty easy
  bubbleshot play --seed 42
  bubbleshot play --config ./my-bubbleshot.yaml
  bubbleshot play --debug --log-file ./bubbleshot.log`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Log file path (default: ~/.bubbleshot/bubbleshot.log)")

	// The root command runs play directly; it needs the same flags.
	rootCmd.Flags().AddFlagSet(playCmd.Flags())
}

func runPlay(cmd *cobra.Command, args []string) {
	// Terminal size determines the render surface
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	bubbleshot.SetConfigPath(flagConfig)
	bubbleshot.SetDifficultyPreset(flagDifficulty)

	logger := newLogger()

	game := bubbleshot.New()
	if err := tui.Run(game, logger, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the session logger. Stdout belongs to the TUI, so logs go
// to a file when debugging is on and are discarded otherwise.
func newLogger() *log.Logger {
	if !flagDebug {
		return log.New(io.Discard)
	}

	path := flagLogFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return log.New(io.Discard)
		}
		dir := home + "/.bubbleshot"
		//nolint:errcheck // Best-effort directory creation
		os.MkdirAll(dir, 0o755)
		path = dir + "/bubbleshot.log"
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		return log.New(io.Discard)
	}

	logger := log.New(f)
	logger.SetLevel(log.DebugLevel)
	logger.SetReportTimestamp(true)
	return logger
}
