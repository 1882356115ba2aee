package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all available shimexe commands",
	RunE:  runCommands,
}

func init() {
	rootCmd.AddCommand(commandsCmd)
}

func runCommands(cmd *cobra.Command, args []string) error {
	for _, c := range rootCmd.Commands() {
		if !c.Hidden {
			fmt.Println(c.Name())
		}
	}
	return nil
}
