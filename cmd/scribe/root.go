package main

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "Scribe runs palette actions against your selected text",
	Long: `Scribe is the action engine of a command palette: it runs text
transforms, evaluates expressions in a sandboxed worker, and asks a local
text-generation service for anything generative.

  ask        Run a palette command against a query and selected text
  eval       Evaluate an expression in the sandbox
  actions    List the registered actions
  commands   List the palette commands
  refresh    Recompute the answers of proactive commands`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to the configuration file (default ~/.config/scribe/config.yaml)")
}
