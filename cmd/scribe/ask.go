package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/palette"
)

var (
	askAction    string
	askCommand   string
	askSelection string
)

var askCmd = &cobra.Command{
	Use:   "ask [query...]",
	Short: "Run a palette command against a query and selected text",
	Long: `Run a palette command. The selected text comes from --selection or
from stdin when piped; the query is whatever is left on the command line.

Without --command or --action the query runs through the first fallback
command (by default the assistant).

Examples:
  scribe ask "translate to french" --selection "good morning"
  cat notes.txt | scribe ask --command "Sort lines"
  scribe ask "2 * (3 + 4)" --action math:evaluate_query`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askAction, "action", "", "Run this action directly")
	askCmd.Flags().StringVar(&askCommand, "command", "", "Run the palette command with this label")
	askCmd.Flags().StringVar(&askSelection, "selection", "", "The selected text to operate on")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	query := strings.Join(args, " ")
	selection, err := readSelection()
	if err != nil {
		return err
	}

	command, err := resolveCommand(app, query)
	if err != nil {
		return err
	}

	app.executor.Submit(command, query, selection)

	task, ok := <-app.executor.Completions()
	if !ok {
		return fmt.Errorf("no result")
	}
	if task.Failed() {
		return fmt.Errorf("%s", task.ErrorMessage())
	}

	for _, answer := range task.Result {
		fmt.Println(answer)
	}

	app.saveOutcome(command, query)
	return nil
}

// resolveCommand picks the command to run: an explicit action, an explicit
// command label, or the fallback command.
func resolveCommand(app *app, query string) (*palette.Command, error) {
	if askAction != "" {
		if !app.registry.Has(askAction) {
			return nil, fmt.Errorf("unknown action: %s", askAction)
		}
		return palette.New(askAction, askAction), nil
	}

	if askCommand != "" {
		command := app.findCommand(askCommand)
		if command == nil {
			return nil, fmt.Errorf("no such command: %s", askCommand)
		}
		return command, nil
	}

	command := app.fallbackCommand()
	if command == nil {
		return nil, fmt.Errorf("no fallback command configured; use --command or --action")
	}
	if query == "" {
		return nil, fmt.Errorf("nothing to do: give me a query, a --command or an --action")
	}
	return command, nil
}

// readSelection returns the selected text: the --selection flag, or stdin
// when piped.
func readSelection() (string, error) {
	if askSelection != "" {
		return askSelection, nil
	}

	stat, err := os.Stdin.Stat()
	if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
		return "", nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read selection from stdin: %w", err)
	}
	return string(data), nil
}
