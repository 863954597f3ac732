package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the registered actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		for _, name := range app.registry.Names() {
			fmt.Println(name)
		}
		return nil
	},
}

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List the palette commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		for _, command := range app.commands {
			var flags []string
			if command.Starred {
				flags = append(flags, "starred")
			}
			if command.Proactive {
				flags = append(flags, "proactive")
			}
			if command.Fallback {
				flags = append(flags, "fallback")
			}
			if command.Template {
				flags = append(flags, "template")
			}
			if command.Builtin {
				flags = append(flags, "builtin")
			}

			line := fmt.Sprintf("%-28s %s", command.Label, command.ActionName)
			if len(flags) > 0 {
				line += "  (" + strings.Join(flags, ", ") + ")"
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(commandsCmd)
}
