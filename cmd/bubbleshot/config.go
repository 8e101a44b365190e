package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcadelab/bubbleshot/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default configuration YAML",
	Long: `Print the built-in default configuration to stdout. Redirect it to
~/.bubbleshot/configs/bubbleshot.yaml (or pass --config) to customize the game.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(string(config.GetDefaultYAML()))
	},
}
