package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"scribe/internal/sandbox"
)

var evalTimeout time.Duration

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate an expression in the sandbox",
	Long: `Evaluate an expression in the sandboxed worker process and print
the result.

Examples:
  scribe eval "2 * (3 + 4)"
  scribe eval "len(\"hello\")" --timeout 2s`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().DurationVar(&evalTimeout, "timeout", 10*time.Second, "Evaluation budget")
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	sb := sandbox.New()
	defer sb.Close()

	result, err := sb.Evaluate(args[0], evalTimeout)
	if err != nil {
		return err
	}

	fmt.Println(result)
	return nil
}
