package main

import (
	"os"

	"github.com/spf13/cobra"

	"scribe/internal/sandbox"
)

// workerCmd turns this binary into a sandbox evaluation worker. It is
// started by the sandbox supervisor, never by the user, so it stays out of
// the help output.
var workerCmd = &cobra.Command{
	Use:    sandbox.WorkerCommand,
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return sandbox.Serve(os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
